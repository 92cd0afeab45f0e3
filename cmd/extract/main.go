package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-hunter/internal/config"
	"github.com/yourusername/value-hunter/internal/logger"
	"github.com/yourusername/value-hunter/internal/netkeiba"
	"github.com/yourusername/value-hunter/internal/reporter"
	"github.com/yourusername/value-hunter/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

var (
	configFile string
	outputPath string
	localFile  string
	noOdds     bool
	toStdout   bool
	indent     int

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the race card JSON to this path (default: output dir from config)")
	rootCmd.Flags().StringVar(&localFile, "local", "", "Parse a saved race card HTML file instead of fetching")
	rootCmd.Flags().BoolVar(&noOdds, "no-odds", false, "Skip the win odds fetch")
	rootCmd.Flags().BoolVar(&toStdout, "stdout", false, "Stream the JSON to stdout instead of writing a file")
	rootCmd.Flags().IntVar(&indent, "indent", -1, "JSON indent width (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:     "extract <race_id>",
	Short:   "Extract a netkeiba race card as JSON",
	Version: Version,
	Long: `Fetches the shutuba_past page for a race, parses the race header and the
horse roster with past performances, merges live win odds, and emits the
result as JSON.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := loadSecrets(cfg); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.Context(), args[0])
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadSecrets(cfg *config.Config) error {
	if os.Getenv("AWS_SECRETS_ENABLED") != "true" {
		return nil
	}
	region := os.Getenv("AWS_REGION")
	secretName := os.Getenv("AWS_SECRET_NAME")
	if region == "" || secretName == "" {
		return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
	}
	if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	return nil
}

func runExtract(ctx context.Context, raceID string) error {
	client, err := netkeiba.NewClient(clientConfig(cfg), appLog)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	svc := service.NewExtractionService(client, appLog)

	var doc *goquery.Document
	if localFile != "" {
		doc, err = netkeiba.RaceCardFromFile(localFile)
		if err != nil {
			return fmt.Errorf("failed to read race card file: %w", err)
		}
	}

	var result any
	if doc != nil {
		result = svc.Assemble(doc, raceID, client.SourceURL(raceID), nil)
	} else {
		res, err := svc.ExtractRace(ctx, raceID, !noOdds)
		if err != nil {
			return err
		}
		result = res
	}

	jsonIndent := cfg.Output.Indent
	if indent >= 0 {
		jsonIndent = indent
	}
	if toStdout {
		return reporter.WriteJSON(os.Stdout, result, jsonIndent)
	}

	path := outputPath
	if path == "" {
		path = filepath.Join(cfg.Output.Dir, cfg.Output.ResultFile)
	}
	if err := reporter.SaveJSON(path, result, jsonIndent); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	appLog.WithField("path", path).Info("Race card written")
	return nil
}

func clientConfig(cfg *config.Config) netkeiba.ClientConfig {
	cc := netkeiba.DefaultClientConfig()
	cc.RaceCardURL = cfg.Scraper.RaceCardURL
	cc.NewspaperURL = cfg.Scraper.NewspaperURL
	cc.OddsAPIURL = cfg.Scraper.OddsAPIURL
	cc.UserAgent = cfg.Scraper.UserAgent
	cc.ProxyURL = cfg.Scraper.ProxyURL
	cc.Timeout = cfg.RequestTimeout()
	cc.MaxRetries = cfg.Scraper.MaxRetries
	cc.RateLimit = cfg.RequestRate()
	cc.CacheTTL = cfg.OddsCacheTTL()
	return cc
}
