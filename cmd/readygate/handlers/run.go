// Package handlers implements the execution logic behind the CLI
// commands.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnevik/readygate/internal/artifact"
	"github.com/arnevik/readygate/internal/config"
	"github.com/arnevik/readygate/internal/metrics"
	"github.com/arnevik/readygate/internal/pipeline"
	"github.com/arnevik/readygate/internal/report"
	"github.com/arnevik/readygate/internal/result"
	"github.com/arnevik/readygate/internal/ui/tui"
)

// ExitError carries the process exit code decided by a handler. main
// unwraps it instead of printing a generic failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// RunOptions holds the run command's flags.
type RunOptions struct {
	ConfigPath         string
	JSONReportPath     string
	MarkdownReportPath string
	MetricsPath        string
	UploadURL          string
	Output             string
	Timeout            time.Duration
	Live               bool
	Verbose            bool

	// Version is stamped into report metadata.
	Version string
}

// Run executes the validation plan and reports the result. The returned
// error is always an *ExitError for non-zero outcomes so main can map it
// onto the process exit code.
func Run(ctx context.Context, opts RunOptions) error {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return configError(err)
	}

	phases, err := config.NewBuilder(cfg).Phases()
	if err != nil {
		return configError(err)
	}

	if opts.Output != "" && opts.Output != "json" && opts.Output != "yaml" {
		return configError(fmt.Errorf("%w: unknown output format %q", config.ErrInvalid, opts.Output))
	}

	// Interrupts cancel the run instead of killing the process, so a
	// partial report and the Aborted exit code still come out.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout := cfg.Settings.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	collector := metrics.NewCollector()

	run, err := execute(ctx, cfg, phases, collector, opts)
	if err != nil {
		return err
	}

	collector.ObserveRun(run)

	doc := report.Build(run, opts.Version)
	if err := emit(doc, run, collector, opts); err != nil {
		return err
	}

	if code := report.ExitCode(run); code != report.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// execute runs the pipeline, with or without the live view.
func execute(ctx context.Context, cfg *config.Config, phases []pipeline.Phase, collector *metrics.Collector, opts RunOptions) (*result.Run, error) {
	build := func(observer pipeline.Observer) *pipeline.Pipeline {
		observers := pipeline.MultiObserver{}
		if observer != nil {
			observers = append(observers, observer)
		}
		if opts.Verbose {
			observers = append(observers, pipeline.NewLogObserver())
		}

		return pipeline.New(cfg.Name, phases,
			pipeline.WithConcurrency(cfg.Settings.Concurrency),
			pipeline.WithObserver(observers),
			pipeline.WithMetrics(collector),
		)
	}

	if opts.Live {
		run, err := tui.Run(ctx, cfg.Name, phases, build)
		if run == nil && err != nil {
			return nil, fmt.Errorf("live run failed: %w", err)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return run, nil
	}

	return build(nil).Run(ctx), nil
}

// emit renders all requested report artifacts from the frozen run.
func emit(doc report.Document, run *result.Run, collector *metrics.Collector, opts RunOptions) error {
	jsonData, err := report.RenderJSON(doc)
	if err != nil {
		return fmt.Errorf("failed to render JSON report: %w", err)
	}

	switch opts.Output {
	case "json":
		fmt.Print(string(jsonData))
	case "yaml":
		yamlData, err := report.RenderYAML(doc)
		if err != nil {
			return fmt.Errorf("failed to render YAML report: %w", err)
		}
		fmt.Print(string(yamlData))
	default:
		report.NewConsole(os.Stdout).Render(doc)
	}

	if opts.JSONReportPath != "" {
		if err := os.WriteFile(opts.JSONReportPath, jsonData, 0o644); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
	}
	if opts.MarkdownReportPath != "" {
		if err := os.WriteFile(opts.MarkdownReportPath, report.RenderMarkdown(doc), 0o644); err != nil {
			return fmt.Errorf("failed to write Markdown report: %w", err)
		}
	}
	if opts.MetricsPath != "" {
		if err := collector.WriteTextfile(opts.MetricsPath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if opts.UploadURL != "" {
		if err := upload(run, opts.UploadURL, jsonData); err != nil {
			return err
		}
	}
	return nil
}

// upload ships the JSON report to S3-compatible storage. Credentials and
// endpoint come from the environment so plans stay free of secrets.
func upload(run *result.Run, rawURL string, body []byte) error {
	bucket, key, err := artifact.ParseURL(rawURL)
	if err != nil {
		return configError(fmt.Errorf("%w: %v", config.ErrInvalid, err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	uploader, err := artifact.NewUploader(ctx, artifact.Options{
		Endpoint:  os.Getenv("READYGATE_S3_ENDPOINT"),
		Region:    os.Getenv("READYGATE_S3_REGION"),
		AccessKey: os.Getenv("READYGATE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("READYGATE_S3_SECRET_KEY"),
	})
	if err != nil {
		return fmt.Errorf("failed to create uploader: %w", err)
	}

	if err := uploader.Upload(ctx, bucket, key, body, "application/json"); err != nil {
		return fmt.Errorf("failed to upload report for run %s: %w", run.ID, err)
	}
	return nil
}

// configError maps configuration problems onto their dedicated exit code.
func configError(err error) error {
	if errors.Is(err, config.ErrInvalid) {
		return &ExitError{Code: report.ExitConfigError, Message: err.Error()}
	}
	return err
}
