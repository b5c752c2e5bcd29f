package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edp1096/nodal-spice/pkg/analyzer"
	"github.com/edp1096/nodal-spice/pkg/netlist"
)

type options struct {
	mode      string
	disp      int
	finalTime float64
	file      string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("spice", flag.ContinueOnError)
	mode := fs.String("mode", "", "analysis mode: D|DC for operating point, T|TRANS for transient (overrides .MODE)")
	disp := fs.Int("disp", 5, "fixed decimal places to display")
	finalTime := fs.Float64("final-time", 0, "transient stop time in seconds (overrides .FINALTIME)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("usage: spice [--mode D|DC|T|TRANS] [--disp N] [--final-time T] <netlist file>")
	}

	return &options{
		mode:      strings.ToUpper(*mode),
		disp:      *disp,
		finalTime: *finalTime,
		file:      fs.Arg(0),
	}, nil
}

func run(opts *options, log zerolog.Logger) error {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("reading netlist: %w", err)
	}

	parsed, err := netlist.Parse(string(data))
	if err != nil {
		return err
	}
	log.Debug().Str("title", parsed.Title).Int("elements", len(parsed.Elements)).Msg("parsed netlist")

	nl, err := netlist.Build(parsed)
	if err != nil {
		return err
	}

	mode := opts.mode
	if mode == "" {
		mode = parsed.Mode
	}
	if mode == "" {
		mode = "D"
	}

	switch mode {
	case "D", "DC":
		log.Info().Msg("running DC operating-point analysis")
		return analyzer.RunDC(nl, opts.disp, os.Stdout, log)
	case "T", "TRANS":
		tFinal := opts.finalTime
		if tFinal == 0 {
			tFinal = parsed.FinalTime
		}
		if tFinal == 0 {
			return fmt.Errorf("transient analysis requires --final-time or a .FINALTIME directive")
		}
		log.Info().Float64("finalTime", tFinal).Msg("running transient analysis")
		return analyzer.RunTransient(nl, tFinal, os.Stdout, log)
	default:
		return fmt.Errorf("unsupported analysis mode: %s", mode)
	}
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		os.Exit(2)
	}

	start := time.Now()
	if err := run(opts, log); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("done")
}
