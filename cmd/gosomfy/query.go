package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/barnybug/gosomfy/pubsub"
	"github.com/barnybug/gosomfy/services"
)

const queryTimeout = 2 * time.Second

func printAnswer(w io.Writer, ev *pubsub.Event) {
	source := ev.Source()
	message := ev.StringField("message")
	if strings.Contains(message, "\n") {
		fmt.Fprintf(w, "\x1b[32;1m%s\x1b[0m\n%s\n", source, message)
	} else {
		fmt.Fprintf(w, "\x1b[32;1m%s\x1b[0m %s\n", source, message)
	}
}

// singleAnswer reports whether q is addressed to one service, eg. somfy/status.
func singleAnswer(q string) bool {
	verb := strings.SplitN(q, " ", 2)[0]
	return strings.Contains(verb, "/")
}

func query(ps []string) {
	services.Setup("query")
	defer services.Shutdown()

	q := strings.Join(ps, " ")
	if singleAnswer(q) {
		ev, err := services.RPC(q, queryTimeout)
		if err != nil {
			fmtFatalf("No response: %s\n", err)
		}
		printAnswer(os.Stdout, ev)
		return
	}

	events := services.Query(q, queryTimeout)
	if len(events) == 0 {
		fmtFatalf("No response\n")
	}
	for _, ev := range events {
		printAnswer(os.Stdout, ev)
	}
}
