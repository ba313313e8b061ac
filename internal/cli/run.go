/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full measurement run.

REQUIREMENTS:
  User-specified:
  - Flags: --endpoint, --samples, --concurrent, --api-base, --output,
    --auth-token, --timeout (ms), --scenarios, --verbose.
  - Non-positive samples/concurrent must fail with a non-zero exit.

  Implementation-discovered:
  - Need to load config first, then apply flag overrides; numeric flags use
    Changed() so an explicit 0 still reaches validation and fails there.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.NewRunner / Run
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error if config is invalid, the scenario file is unreadable, or
    the report cannot be persisted. Per-request failures do NOT error; the
    run exits 0 with failures recorded in the report.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Runner.Run.

USAGE:
  streambench run --samples 100 --concurrent 10

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/quillreader/streambench/internal/config"
	"github.com/quillreader/streambench/internal/engine"
	"github.com/quillreader/streambench/internal/output"
)

var (
	endpointFlag   string
	samplesFlag    int
	concurrentFlag int
	apiBaseFlag    string
	outputFlag     string
	csvFlag        string
	authTokenFlag  string
	timeoutMsFlag  int
	scenariosFlag  string
	modelFlag      string
	verboseFlag    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the measurement suite",
	Long: `Executes a full performance/cost measurement run against the target endpoint.
Requests are issued in sequential batches of up to --concurrent parallel
requests, with a short pause between batches for a predictable load shape.
Each request samples a weighted scenario, streams the SSE response, and
records latency, time-to-first-token, token counts, and derived cost.

The aggregate report (plus every raw result) is written as a JSON artifact
for downstream comparison tooling. Individual request failures are recorded
in the report and do not fail the run.`,
	Example: `  # Run with defaults (uses streambench.yaml if present)
  streambench run

  # 100 samples at concurrency 10 against a staging deploy
  streambench run --api-base https://staging.example.com/api --samples 100 --concurrent 10

  # Custom scenario mix and a raw CSV export
  streambench run --scenarios ./scenarios.json --csv results/raw.csv

  # Price against the high-cost tier
  streambench run --model gpt-4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2. Overrides
		flags := cmd.Flags()
		if endpointFlag != "" {
			cfg.Endpoint = endpointFlag
		}
		if apiBaseFlag != "" {
			cfg.APIBase = apiBaseFlag
		}
		if flags.Changed("samples") {
			cfg.Samples = samplesFlag
		}
		if flags.Changed("concurrent") {
			cfg.Concurrent = concurrentFlag
		}
		if flags.Changed("timeout") {
			cfg.Timeout = config.Duration(time.Duration(timeoutMsFlag) * time.Millisecond)
		}
		if outputFlag != "" {
			cfg.Output = outputFlag
		}
		if csvFlag != "" {
			cfg.CSVOutput = csvFlag
		}
		if authTokenFlag != "" {
			cfg.AuthToken = authTokenFlag
		}
		if scenariosFlag != "" {
			cfg.ScenarioFile = scenariosFlag
		}
		if modelFlag != "" {
			cfg.Model = modelFlag
		}
		if flags.Changed("verbose") {
			cfg.Verbose = verboseFlag
		}
		output.SetVerbose(cfg.Verbose)

		// 3. Execution
		runner, err := engine.NewRunner(cfg)
		if err != nil {
			return err
		}
		_, err = runner.Run(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&endpointFlag, "endpoint", "", "Endpoint path relative to the API base (e.g. ai/stream)")
	runCmd.Flags().IntVar(&samplesFlag, "samples", 0, "Total number of requests to issue (must be > 0)")
	runCmd.Flags().IntVar(&concurrentFlag, "concurrent", 0, "In-flight requests per batch (must be > 0)")
	runCmd.Flags().StringVar(&apiBaseFlag, "api-base", "", "Target API base URL")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Path for the JSON report artifact")
	runCmd.Flags().StringVar(&csvFlag, "csv", "", "Optional path for a raw-results CSV export")
	runCmd.Flags().StringVar(&authTokenFlag, "auth-token", "", "Bearer token for the target endpoint")
	runCmd.Flags().IntVar(&timeoutMsFlag, "timeout", 0, "Per-request timeout in milliseconds")
	runCmd.Flags().StringVar(&scenariosFlag, "scenarios", "", "Path to a JSON scenario file (overrides built-ins)")
	runCmd.Flags().StringVar(&modelFlag, "model", "", "Pricing model tier (gpt-3.5-turbo, gpt-4)")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable per-request debug logging")
}
