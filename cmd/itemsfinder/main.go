// Command itemsfinder runs the item selection pipeline over one or more
// workbooks and writes the Excel export next to them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"items-finder/internal/config"
	"items-finder/internal/models"
	"items-finder/internal/observability"
	"items-finder/internal/pipeline"
	"items-finder/internal/spreadsheet"
)

type options struct {
	mode        models.Mode
	category    string
	annotations string
	outDir      string
	files       []string
}

func parseArgs(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("itemsfinder", flag.ContinueOnError)
	fs.SetOutput(output)

	mode := fs.String("mode", string(models.ModeCategory), "selection mode: category or pareto")
	opts := &options{}
	fs.StringVar(&opts.category, "category", "", "category to select (category mode defaults to the first one)")
	fs.StringVar(&opts.annotations, "annotations", "", "JSON file mapping item to available quantity")
	fs.StringVar(&opts.outDir, "out", ".", "output directory")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m, err := pipeline.ParseMode(*mode)
	if err != nil {
		return nil, err
	}
	opts.mode = m

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		return nil, errors.New("at least one input workbook is required")
	}
	return opts, nil
}

func loadAnnotations(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}
	var annotations map[string]string
	if err := json.Unmarshal(data, &annotations); err != nil {
		return nil, fmt.Errorf("parse annotations %s: %w", path, err)
	}
	return annotations, nil
}

// outputName keeps the mode's download name, prefixed with the input's base
// name when several inputs would otherwise collide.
func outputName(input string, mode models.Mode, multiple bool) string {
	name := mode.ExportFileName()
	if !multiple {
		return name
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "_" + name
}

type runner struct {
	opts        *options
	threshold   decimal.Decimal
	annotations map[string]string
	logger      *slog.Logger
	bar         *progressbar.ProgressBar
}

func (r *runner) run(ctx context.Context) error {
	if err := os.MkdirAll(r.opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	multiple := len(r.opts.files) > 1
	for _, input := range r.opts.files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out := filepath.Join(r.opts.outDir, outputName(input, r.opts.mode, multiple))
			if err := r.process(input, out); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			return r.bar.Add(1)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return r.bar.Finish()
}

func (r *runner) process(input, out string) error {
	table, err := spreadsheet.DecodeFile(input)
	if err != nil {
		return err
	}

	category := r.opts.category
	if r.opts.mode == models.ModeCategory && category == "" {
		categories, err := pipeline.Categories(table)
		if err != nil {
			return err
		}
		if len(categories) > 0 {
			category = categories[0]
		}
	}

	result, err := pipeline.Compute(table, r.opts.mode, models.Params{
		Category:    category,
		Threshold:   r.threshold,
		Annotations: r.annotations,
	})
	if err != nil {
		return err
	}

	data, err := spreadsheet.Encode(result.ExportRows())
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	r.logger.Info("export written",
		"input", input,
		"output", out,
		"mode", r.opts.mode,
		"category", category,
		"items", len(result.Items),
		"total_quantity", result.TotalQuantity.String(),
	)
	return nil
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := observability.NewLoggerTo(os.Stderr, cfg.Logger)

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	annotations, err := loadAnnotations(opts.annotations)
	if err != nil {
		logger.Error("failed to load annotations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &runner{
		opts:        opts,
		threshold:   cfg.Pipeline.ParetoThreshold,
		annotations: annotations,
		logger:      logger,
		bar:         progressbar.Default(int64(len(opts.files)), "exporting"),
	}
	if err := r.run(ctx); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}
