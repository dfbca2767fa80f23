package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Command names.
const (
	cmdServe = "serve"
	cmdHelp  = "help"
)

// exUsage is EX_USAGE from sysexits(3).
const exUsage = 64

// noSolution is printed when the candidate space is exhausted.
const noSolution = "no solution!"

// errUsage marks command-line mistakes; main exits with exUsage for them.
var errUsage = errors.New("incorrect usage")

func main() {
	_ = godotenv.Load()
	log := newLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, log, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		log.err(err.Error())
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(exUsage)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger, args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case cmdHelp, "-h", "--help":
			printUsage(stdout)
			return nil
		case cmdServe:
			opts, err := parseFlags(cmdServe, log, args[1:])
			if err != nil {
				return err
			}
			if len(opts.args) > 0 {
				return fmt.Errorf("%w: serve takes no arguments", errUsage)
			}
			return runServe(ctx, log, opts.cfg)
		}
	}
	return runSolve(ctx, log, args, stdout)
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "countdown: find an arithmetic expression over six numbers that hits a target")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  countdown [options] N1 N2 N3 N4 N5 N6 TARGET")
	_, _ = fmt.Fprintln(w, "  countdown serve [--config PATH] [--workers N]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Options:")
	_, _ = fmt.Fprintln(w, "  --config   Path to config JSON (default: $COUNTDOWN_CONFIG or ./countdown.json)")
	_, _ = fmt.Fprintln(w, "  --workers  Parallel search workers (default: number of CPUs)")
	_, _ = fmt.Fprintln(w, "  --explain  Ask an OpenAI-compatible model to walk through the solution")
	_, _ = fmt.Fprintln(w, "  --verbose  Debug logging")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Output is the solution in postfix notation, e.g. \"3 4 +\", or \""+noSolution+"\".")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Environment:")
	_, _ = fmt.Fprintln(w, "  COUNTDOWN_CONFIG  Config path when --config is not given")
	_, _ = fmt.Fprintln(w, "  OPENAI_API_KEY    API key for --explain")
	_, _ = fmt.Fprintln(w, "  NO_COLOR          Disable colored output")
}

// options is the result of flag parsing for one command.
type options struct {
	cfg     appConfig
	explain bool
	args    []string
}

// parseFlags parses options for cmd, loads the config and applies flag
// overrides to it.
func parseFlags(cmd string, log *logger, args []string) (options, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		path    string
		workers int
		verbose bool
		opts    options
	)
	fs.StringVar(&path, "config", "", "config path")
	fs.IntVar(&workers, "workers", 0, "parallel search workers")
	fs.BoolVar(&verbose, "verbose", false, "debug logging")
	if cmd != cmdServe {
		fs.BoolVar(&opts.explain, "explain", false, "explain the solution")
	}
	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if workers < 0 {
		return options{}, fmt.Errorf("%w: --workers must be >= 0", errUsage)
	}

	cfg, err := loadConfig(configPath(path))
	if err != nil {
		return options{}, err
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := log.setLevel(cfg.LogLevel); err != nil {
		return options{}, err
	}
	opts.cfg = cfg
	opts.args = fs.Args()
	return opts, nil
}

func runSolve(ctx context.Context, log *logger, args []string, stdout io.Writer) error {
	opts, err := parseFlags("countdown", log, args)
	if err != nil {
		return err
	}
	p, err := parseProblem(opts.args)
	if err != nil {
		return err
	}

	cfg := opts.cfg
	log.debugf("starting: numbers=%v target=%d workers=%d", p.Numbers, p.Target, cfg.Workers)
	res, err := newSolver(cfg, log).Solve(ctx, p)
	if err != nil {
		return err
	}
	if !res.Found() {
		_, _ = fmt.Fprintln(stdout, noSolution)
		log.infof("exhausted: candidates=%d elapsed=%s", res.Candidates, res.Elapsed.Round(10*time.Millisecond))
		return nil
	}
	_, _ = fmt.Fprintln(stdout, res.Expression)
	log.okf("solved: candidates=%d elapsed=%s", res.Candidates, res.Elapsed.Round(10*time.Millisecond))

	if opts.explain {
		ex, err := newExplainer(cfg, log)
		if err != nil {
			log.warnf("explain skipped: %v", err)
			return nil
		}
		if err := ex.Explain(ctx, stdout, p, res.Expression); err != nil {
			log.warnf("explain failed: %v", err)
		}
	}
	return nil
}

// parseProblem turns six operands and a target into a Problem.
func parseProblem(args []string) (Problem, error) {
	if len(args) != numOperands+1 {
		return Problem{}, fmt.Errorf("%w: expected %d arguments, got %d", errUsage, numOperands+1, len(args))
	}
	var vals [numOperands + 1]uint64
	for i, s := range args {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Problem{}, fmt.Errorf("argument %d is not a non-negative integer: %w", i+1, err)
		}
		vals[i] = v
	}
	var p Problem
	copy(p.Numbers[:], vals[:numOperands])
	p.Target = vals[numOperands]
	return p, nil
}
