package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/barnybug/gosomfy/services"
	"github.com/barnybug/gosomfy/services/rtl433"
	"github.com/barnybug/gosomfy/services/somfy"
)

func registerServices() {
	// register available services
	services.Register(&somfy.Service{})
	services.Register(&rtl433.Service{})
}

func usage() {
	fmt.Println("Usage: gosomfy COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("   decode [-json] [-all] [-v N] [codes...]   Decode captures (or lines from stdin)")
	fmt.Println("   device                                   Show demodulator settings")
	fmt.Println("   fields                                   List output fields")
	fmt.Println("   run    [service...]                      Run services (default somfy)")
	fmt.Println("   query  ...                               Query services")
	fmt.Println()
	fmt.Println("Services:", strings.Join(services.Registered(), ", "))
}

func main() {
	registerServices()
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	ps := flag.Args()[1:]
	// ignore anything after '--'
	for i := range ps {
		if ps[i] == "--" {
			ps = ps[0:i]
			break
		}
	}

	services.SetupLogging()

	command := flag.Args()[0]
	switch command {
	default:
		usage()
		os.Exit(1)
	case "decode":
		if !decodeCommand(os.Stdin, os.Stdout, os.Stderr, ps) {
			os.Exit(1)
		}
	case "device":
		services.LoadConfig()
		device(os.Stdout, services.Config)
	case "fields":
		fields(os.Stdout)
	case "run":
		if len(ps) == 0 {
			ps = []string{"somfy"}
		}
		service(ps)
	case "query":
		if len(ps) == 0 {
			usage()
			return
		}
		query(ps)
	}
}

// Start builtin services
func service(ss []string) {
	services.Setup("service")
	defer services.Shutdown()
	if err := services.Launch(ss); err != nil {
		log.Fatalln(err)
	}
}

func fmtFatalf(format string, v ...interface{}) {
	fmt.Printf(format, v...)
	os.Exit(1)
}
