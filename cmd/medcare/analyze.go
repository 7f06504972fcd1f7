package medcare

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/config"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/logging"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/symptoms"
)

var (
	analyzeStrategy string
	analyzeProvider string
	analyzeModel    string
	analyzeFormat   string
	analyzeVerbose  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <symptoms>",
	Short: "Suggest possible conditions for a description of symptoms",
	Long: `Analyze a free-text description of symptoms.

Settings come from the environment (and a .env file); flags override them.

Examples:
  medcare analyze "I have had a sore throat and a mild fever since Monday"
  medcare analyze "persistent dry cough at night" --strategy generative --provider google
  medcare analyze "headache behind my eyes" --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "Analysis strategy (mock, generative)")
	analyzeCmd.Flags().StringVarP(&analyzeProvider, "provider", "p", "", "LLM provider (openai, google, anthropic, ollama)")
	analyzeCmd.Flags().StringVarP(&analyzeModel, "model", "m", "", "Specific model name")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format (text, json)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Show progress steps")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "text" && analyzeFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", analyzeFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)

	svc, err := symptoms.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}

	ctx, stop := withSignal(cmd.Context())
	defer stop()

	query := strings.Join(args, " ")

	var emitter symptoms.ProgressEmitter
	if analyzeVerbose {
		emitter = &symptoms.TextEmitter{W: stderr}
	}

	stopSpinner := startSpinner(stderr, analyzeFormat == "text" && !analyzeVerbose)
	start := time.Now()
	result, err := svc.AnalyzeStream(ctx, query, emitter)
	stopSpinner()
	if err != nil {
		// Already a patient-safe message.
		return err
	}

	if analyzeFormat == "json" {
		return outputJSON(cmd.OutOrStdout(), result)
	}

	printResult(cmd.OutOrStdout(), result)
	printFooter(stderr, svc.StrategyName(), time.Since(start))
	return nil
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy = strings.ToLower(analyzeStrategy)
	}
	if flags.Changed("provider") {
		cfg.Provider = strings.ToLower(analyzeProvider)
	}
	if flags.Changed("model") {
		cfg.Model = analyzeModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// startSpinner shows a spinner on w when enabled and w is a terminal. The
// returned func stops it.
func startSpinner(w io.Writer, enabled bool) func() {
	f, ok := w.(*os.File)
	if !enabled || !ok || !isTerminal(f) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
	s.Suffix = " Analyzing symptoms..."
	s.Start()
	return s.Stop
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// withSignal cancels the returned context on interrupt.
func withSignal(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
