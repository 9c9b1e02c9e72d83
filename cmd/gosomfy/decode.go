package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/barnybug/gosomfy/bitbuffer"
	"github.com/barnybug/gosomfy/config"
	"github.com/barnybug/gosomfy/rts"
)

type decodeOptions struct {
	json    bool
	all     bool
	verbose int
}

func decodeOne(w io.Writer, codes string, opts decodeOptions) error {
	bb, err := bitbuffer.Parse(codes)
	if err != nil {
		return errors.Wrap(err, "parsing codes")
	}
	d := rts.Decoder{Verbose: opts.verbose}
	m, err := d.Decode(bb)
	if err != nil {
		return err
	}

	fields := m.Fields(rts.OutputFields)
	if opts.all {
		fields = m.Data()
	}
	if opts.json {
		b, err := rts.MarshalFields(fields)
		if err != nil {
			return errors.Wrap(err, "encoding json")
		}
		fmt.Fprintln(w, string(b))
		return nil
	}
	var parts []string
	for _, f := range fields {
		label := f.Label
		if label == "" {
			label = strings.ToUpper(f.Key[:1]) + f.Key[1:]
		}
		parts = append(parts, fmt.Sprintf("%-14s: %v", label, f.Value))
	}
	fmt.Fprintln(w, strings.Join(parts, "\n"))
	return nil
}

// decodeCommand decodes each capture given, or each line of stdin, reporting
// whether all of them decoded.
func decodeCommand(stdin io.Reader, stdout, stderr io.Writer, args []string) bool {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := decodeOptions{}
	fs.BoolVar(&opts.json, "json", false, "output json")
	fs.BoolVar(&opts.all, "all", false, "output all fields")
	fs.IntVar(&opts.verbose, "v", 0, "verbosity")
	if err := fs.Parse(args); err != nil {
		return false
	}

	captures := fs.Args()
	if len(captures) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				captures = append(captures, line)
			}
		}
	}

	ok := true
	for _, codes := range captures {
		if err := decodeOne(stdout, codes, opts); err != nil {
			fmt.Fprintf(stderr, "%s: %s (%s)\n", codes, err, rts.Result(err))
			ok = false
		}
	}
	return ok
}

func device(w io.Writer, conf *config.Config) {
	d := conf.Device()
	fmt.Fprintln(w, d)
	fmt.Fprintln(w, "rtl_433 -X", d.FlexSpec("somfy"))
}

func fields(w io.Writer) {
	for _, f := range rts.OutputFields {
		fmt.Fprintln(w, f)
	}
}
