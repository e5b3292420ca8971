package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spicery/streamscan/internal/metrics"
	"github.com/spicery/streamscan/pkg/instructions"
	"github.com/spicery/streamscan/pkg/scanner"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

const (
	stdinName = "-"

	readBufferSize = 64 * 1024
)

type scanOptions struct {
	rulesFile     string
	unconditional bool
	parallel      int
	metricsFile   string
	jsonOutput    bool
}

// input is an opened source waiting to be scanned.
type input struct {
	name string
	r    io.Reader
	c    io.Closer
}

// report is the outcome of scanning one input.
type report struct {
	Input  string              `json:"input"`
	Result instructions.Result `json:"result"`
}

func newScanCommand(a *app) *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan [file...]",
		Short: "Scan inputs and print the sum of enabled products",
		Long: `Scan each input (stdin when none is given, or "-") in a single forward pass.
Every input gets its own scanner, so several inputs may be scanned in parallel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, a.log, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML rules file overriding the default patterns")
	cmd.Flags().BoolVar(&opts.unconditional, "unconditional", false, "Ignore do() and don't(); every mul counts")
	cmd.Flags().IntVar(&opts.parallel, "parallel", runtime.GOMAXPROCS(0), "Maximum number of inputs scanned at once")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus counters to this file after scanning")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print one JSON report per input instead of text")
	return cmd
}

func runScan(cmd *cobra.Command, log *zap.Logger, opts *scanOptions, args []string) error {
	if opts.parallel < 1 {
		return xerrors.Errorf("--parallel must be at least 1, got %d", opts.parallel)
	}

	patterns, err := loadPatterns(opts.rulesFile)
	if err != nil {
		return err
	}
	log.Debug("patterns loaded", zap.Int("count", len(patterns)), zap.String("rules", opts.rulesFile))

	if len(args) == 0 {
		args = []string{stdinName}
	}
	// Every input is opened before any scanning starts.
	inputs, err := openInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	defer closeInputs(inputs)

	m := metrics.NewScan()
	reports := make([]report, len(inputs))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.parallel)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			res, err := scanInput(ctx, log, patterns, !opts.unconditional, m, in)
			m.ObserveInput(err)
			if err != nil {
				return err
			}
			reports[i] = report{Input: in.name, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.metricsFile != "" {
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}
	return printReports(cmd.OutOrStdout(), reports, opts.jsonOutput)
}

func scanInput(
	ctx context.Context,
	log *zap.Logger,
	patterns []*scanner.Pattern,
	conditional bool,
	observer scanner.Observer,
	in input,
) (instructions.Result, error) {
	if err := ctx.Err(); err != nil {
		return instructions.Result{}, err
	}
	log = log.With(zap.String("input", in.name))

	program := instructions.New(conditional, log)
	bindings, err := program.Bindings(patterns)
	if err != nil {
		return instructions.Result{}, err
	}
	s, err := scanner.NewScheduler(bindings, scanner.WithLogger(log), scanner.WithObserver(observer))
	if err != nil {
		return instructions.Result{}, err
	}
	if err := s.Run(newContextReader(ctx, in.r)); err != nil {
		return instructions.Result{}, xerrors.Errorf("error reading '%s': %w", in.name, err)
	}

	res := program.Result()
	log.Info("input scanned",
		zap.Int64("sum", res.Sum),
		zap.Int("accepted", res.Stats.Accepted),
		zap.Int("skipped", res.Stats.Skipped))
	return res, nil
}

func openInputs(stdin io.Reader, names []string) ([]input, error) {
	inputs := make([]input, 0, len(names))
	usedStdin := false
	for _, name := range names {
		if name == stdinName {
			if usedStdin {
				closeInputs(inputs)
				return nil, xerrors.New("stdin can only be scanned once")
			}
			usedStdin = true
			inputs = append(inputs, input{name: name, r: stdin})
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			closeInputs(inputs)
			return nil, xerrors.Errorf("error opening file '%s': %w", name, err)
		}
		inputs = append(inputs, input{name: name, r: f, c: f})
	}
	return inputs, nil
}

func closeInputs(inputs []input) {
	for _, in := range inputs {
		if in.c != nil {
			_ = in.c.Close()
		}
	}
}

func printReports(w io.Writer, reports []report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return xerrors.Errorf("JSON encoding error: %w", err)
			}
		}
		return nil
	}

	var total int64
	for _, r := range reports {
		total += r.Result.Sum
		if len(reports) > 1 {
			fmt.Fprintf(w, "%s: %d\n", r.Input, r.Result.Sum)
		}
	}
	_, err := fmt.Fprintf(w, "Sum of products: %d\n", total)
	return err
}

// contextReader is a buffered byte source that stops with the context's
// error once the context is done. The context is polled once per refill.
type contextReader struct {
	ctx context.Context
	r   io.Reader
	buf []byte
	pos int
	end int
}

func newContextReader(ctx context.Context, r io.Reader) *contextReader {
	return &contextReader{ctx: ctx, r: r, buf: make([]byte, readBufferSize)}
}

func (c *contextReader) ReadByte() (byte, error) {
	for c.pos == c.end {
		if err := c.ctx.Err(); err != nil {
			return 0, err
		}
		n, err := c.r.Read(c.buf)
		c.pos, c.end = 0, n
		if n > 0 {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}
