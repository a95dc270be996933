package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/treeir/grimp"
	"github.com/wippyai/treeir/render"
	"github.com/wippyai/treeir/source"
)

type config struct {
	input   string
	method  string
	color   string
	opts    grimp.Options
	jobs    int
	flat    bool
	watch   bool
	verbose bool
}

func main() {
	var (
		input       = flag.String("in", "", "Path to a YAML class description")
		method      = flag.String("method", "", "Translate only the named method (optional)")
		aggAll      = flag.Bool(grimp.OptAggregateAllLocals, false, "Aggregate user-visible locals as well as stack locals")
		noAgg       = flag.Bool(grimp.OptNoAggregating, false, "Skip the aggregation passes")
		verify      = flag.Bool("verify", false, "Validate the body after every pass")
		jobs        = flag.Int("jobs", runtime.NumCPU(), "Number of methods translated concurrently")
		flat        = flag.Bool("flat", false, "Also print the flat input body")
		watchFlag   = flag.Bool("watch", false, "Translate again whenever the input file changes")
		color       = flag.String("color", "auto", "Colour output: auto, always or never")
		verbose     = flag.Bool("v", false, "Log every translation phase")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: grimp -in <class.yaml> [-method name] [-aggregate-all-locals] [-no-aggregating]")
		fmt.Fprintln(os.Stderr, "       grimp -in <class.yaml> -watch")
		fmt.Fprintln(os.Stderr, "       grimp -in <class.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	cfg := config{
		input:  *input,
		method: *method,
		color:  *color,
		opts: grimp.Options{
			AggregateAllLocals: *aggAll,
			NoAggregating:      *noAgg,
			Verify:             *verify,
		},
		jobs:    *jobs,
		flat:    *flat,
		watch:   *watchFlag,
		verbose: *verbose,
	}

	if cfg.verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
		grimp.SetLogger(log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *interactive {
		if err := runInteractive(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if cfg.watch {
		if err := watch(ctx, cfg, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run translates the configured methods once and prints them.
func run(ctx context.Context, cfg config, w io.Writer) error {
	class, err := source.Load(cfg.input)
	if err != nil {
		return err
	}
	results, err := translateAll(ctx, class, cfg)
	if err != nil {
		return err
	}

	styles := stylesFor(cfg.color, w)
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p := &render.Printer{Styles: styles, Names: r.names}
		if cfg.flat {
			if err := p.Flat(w, r.flat); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
		if err := p.Tree(w, r.tree); err != nil {
			return err
		}
	}
	return nil
}

// stylesFor resolves the -color setting against the output.
func stylesFor(mode string, w io.Writer) *render.Styles {
	switch mode {
	case "always":
		return render.DefaultStyles()
	case "never":
		return nil
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return render.DefaultStyles()
	}
	return nil
}
