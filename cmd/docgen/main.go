// Package main implements docgen, which renders property documents to PDF
// files without running the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/Junction-25/pdf-service/internal/app"
	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/logger"
	"github.com/Junction-25/pdf-service/internal/model"
	"github.com/Junction-25/pdf-service/internal/service"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	outputPath string
	outputDir  string
	contactID  int64
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Generate property comparison, recommendation and quote PDFs",
	Long: `docgen builds the same documents as the PDF service, reading records and
reasoning settings from the environment (or .env).

Examples:
  # Compare two properties
  docgen compare 12 40

  # Personalized recommendation for contact 7
  docgen recommend 3 8 15 --contact 7 -o amina.pdf

  # Quote for one property, addressed to a contact
  docgen quote 12 --contact 7 --dir out/`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "output file (defaults to the suggested filename)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "dir", ".", "directory for the suggested filename")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	recommendCmd.Flags().Int64Var(&contactID, "contact", 0, "contact id (required)")
	_ = recommendCmd.MarkFlagRequired("contact")
	quoteCmd.Flags().Int64Var(&contactID, "contact", 0, "contact id the quote is addressed to")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(quoteCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <property-id> <property-id>",
	Short: "Side-by-side comparison of two properties",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, model.DocumentComparison, args, false)
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <property-id>... --contact <id>",
	Short: "Personalized recommendation of 2-3 properties for a contact",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, model.DocumentRecommendation, args, true)
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <property-id>",
	Short: "Price quote for one property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, model.DocumentQuote, args, cmd.Flags().Changed("contact"))
	},
}

func runGenerate(cmd *cobra.Command, docType model.DocumentType, args []string, withContact bool) error {
	ids, err := parseIDArgs(args)
	if err != nil {
		return err
	}
	req := service.Request{Type: docType, PropertyIDs: ids}
	if withContact {
		id := contactID
		req.ContactID = &id
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(logLevel, "console")
	defer func() { _ = log.Sync() }()
	cfg.LogWarnings(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	return generateTo(ctx, application.Pipeline, req, cmd)
}

type generator interface {
	Generate(ctx context.Context, req service.Request) (*model.Document, error)
}

func generateTo(ctx context.Context, gen generator, req service.Request, cmd *cobra.Command) error {
	doc, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}

	path := resolveOutput(outputPath, outputDir, doc.Filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	analysis := string(doc.AnalysisSource)
	if doc.FallbackReason != "" {
		analysis += " (" + string(doc.FallbackReason) + ")"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, analysis: %s)\n", path, len(doc.Bytes), analysis)
	return nil
}

func parseIDArgs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("property id must be an integer, got %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveOutput prefers an explicit path, else dir/suggested
func resolveOutput(explicit, dir, suggested string) string {
	if explicit != "" {
		return explicit
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, suggested)
}
