package commands

import (
	"github.com/spf13/cobra"

	"github.com/arnevik/readygate/cmd/readygate/handlers"
)

// Run returns the command executing a validation plan against the target
// system.
//
// Optional flags:
//
//	--config, -c: Path to the validation plan YAML (default: readygate.yaml)
//	--json-report: Write the JSON report to this path
//	--md-report:   Write the Markdown report to this path
//	--metrics-file: Write Prometheus textfile metrics to this path
//	--upload:      Upload the JSON report to s3://bucket/key
//	--output, -o:  Print the machine report to stdout (json|yaml)
//	--timeout:     Overall run deadline, overrides the plan's setting
//	--live:        Show a live terminal view while the run executes
//	--verbose:     Log structured progress events to stderr
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required for hcloud checks)
//	READYGATE_S3_ACCESS_KEY / READYGATE_S3_SECRET_KEY: upload credentials
func Run() *cobra.Command {
	opts := handlers.RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the validation plan and gate on the result",
		Long: `Run all validation phases against the target system.

The process exit code reflects the outcome: 0 when the deployment is
ready (warnings allowed), 1 when a required check failed, 2 when the
plan is invalid, 3 when the run was cancelled before completion.

Examples:
  # Validate using readygate.yaml in the current directory
  readygate run

  # Validate a specific plan and archive reports
  readygate run -c production.yaml --json-report report.json --md-report report.md

  # Gate a CI job and ship metrics
  readygate run -c plan.yaml --metrics-file /var/lib/node_exporter/readygate.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Version = version
			return handlers.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "readygate.yaml", "Path to the validation plan")
	cmd.Flags().StringVar(&opts.JSONReportPath, "json-report", "", "Write the JSON report to this path")
	cmd.Flags().StringVar(&opts.MarkdownReportPath, "md-report", "", "Write the Markdown report to this path")
	cmd.Flags().StringVar(&opts.MetricsPath, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().StringVar(&opts.UploadURL, "upload", "", "Upload the JSON report to s3://bucket/key")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Print the machine report to stdout (json|yaml)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Overall run deadline (overrides the plan)")
	cmd.Flags().BoolVar(&opts.Live, "live", false, "Show a live terminal view")
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Log structured progress events to stderr")

	return cmd
}
