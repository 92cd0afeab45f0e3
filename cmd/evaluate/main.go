package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-hunter/internal/config"
	"github.com/yourusername/value-hunter/internal/logger"
	"github.com/yourusername/value-hunter/internal/reporter"
	"github.com/yourusername/value-hunter/internal/valuation"
)

// Build information - set via ldflags
var Version = "dev"

var (
	configFile string
	inputPath  string
	outputPath string
	jsonOnly   bool
	indent     int

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Race card JSON file to evaluate")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the evaluation JSON to this path (default: output dir from config)")
	rootCmd.Flags().BoolVar(&jsonOnly, "json-only", false, "Emit JSON to stdout and skip the console report")
	rootCmd.Flags().IntVar(&indent, "indent", -1, "JSON indent width (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:     "evaluate [race_card.json]",
	Short:   "Score and grade a race card for value picks",
	Version: Version,
	Long: `Reads extracted race card JSON, scores every horse on form, closing
speed, upset record and venue experience, ranks the field, and grades each
horse by how far the market underrates it.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := inputPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("a race card JSON file is required")
		}
		return runEvaluate(path)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runEvaluate(path string) error {
	input, err := valuation.LoadInput(path)
	if err != nil {
		return err
	}

	evaluator := valuation.NewEvaluator(scoringConfig(cfg), appLog)
	result, err := evaluator.Evaluate(input)
	if err != nil {
		return err
	}

	jsonIndent := cfg.Output.Indent
	if indent >= 0 {
		jsonIndent = indent
	}

	if !jsonOnly {
		console := reporter.NewConsole(os.Stdout)
		console.PrintResults(input.Race, result)
	}

	if jsonOnly && outputPath == "" {
		return reporter.WriteJSON(os.Stdout, result, jsonIndent)
	}

	out := outputPath
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, cfg.Output.EvaluationFile)
	}
	if err := reporter.SaveJSON(out, result, jsonIndent); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	appLog.WithField("path", out).Info("Evaluation written")
	return nil
}

func scoringConfig(cfg *config.Config) valuation.ScoringConfig {
	sc := valuation.DefaultScoringConfig()
	sc.FormWeight = cfg.Scoring.FormWeight
	sc.Last3FWeight = cfg.Scoring.Last3FWeight
	sc.UpsetWeight = cfg.Scoring.UpsetWeight
	sc.VenueWeight = cfg.Scoring.VenueWeight
	return sc
}
