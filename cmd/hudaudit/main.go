package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/config"
	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/logging"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	"github.com/KirkDiggler/fps-hud/internal/services"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

type options struct {
	manifest string
	out      string
	codegen  bool
	store    bool
}

func main() {
	configPath := flag.String("config", "", "optional config file (yaml or json)")
	manifest := flag.String("manifest", "components.json", "component manifest to audit")
	out := flag.String("out", "", "write the JSON reports to this file")
	codegen := flag.Bool("codegen", false, "print migration code per component")
	store := flag.Bool("store", false, "save reports to the configured report store")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	repo, closeRepo, err := services.ConnectReports(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect report store", zap.Error(err))
	}
	defer closeRepo()

	provider, err := services.NewProvider(&services.ProviderConfig{
		Config:  cfg,
		Logger:  logger,
		Reports: repo,
	})
	if err != nil {
		logger.Fatal("Failed to create provider", zap.Error(err))
	}

	opts := options{
		manifest: *manifest,
		out:      *out,
		codegen:  *codegen,
		store:    *store,
	}
	if err := run(ctx, opts, provider.Engine, provider.Reports, os.Stdout); err != nil {
		logger.Fatal("Audit failed", zap.Error(err))
	}
}

func run(ctx context.Context, opts options, engine *standard.Engine, repo reports.Repository, w io.Writer) error {
	raw, err := os.ReadFile(opts.manifest)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read manifest "+opts.manifest)
	}

	var components []standard.Component
	if err := json.Unmarshal(raw, &components); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode manifest")
	}

	results := make([]standard.ComponentReport, 0, len(components))
	for _, component := range components {
		report := engine.AnalyzeComponent(component)
		results = append(results, report)
		printReport(w, report)

		if opts.codegen {
			fmt.Fprintln(w)
			fmt.Fprint(w, engine.GenerateMigrationCode(component.Name, component.Events))
		}
		fmt.Fprintln(w)

		if opts.store {
			if err := repo.SaveComplianceReport(ctx, &report); err != nil {
				return errors.Wrapf(err, "failed to store report for %s", component.Name)
			}
		}
	}

	if opts.out != "" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode reports")
		}
		if err := os.WriteFile(opts.out, data, 0o644); err != nil {
			return errors.Wrap(err, "failed to write "+opts.out)
		}
	}

	return nil
}

func printReport(w io.Writer, report standard.ComponentReport) {
	fmt.Fprintf(w, "%s: %d%% standard (%d/%d)\n", report.Component, report.Compliance, report.StandardCount, report.Total)
	for _, event := range report.Events {
		if event.IsStandard {
			continue
		}
		fmt.Fprintf(w, "  %s\n", event.Name)
		for _, issue := range event.Issues {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	for _, s := range report.Suggestions {
		fmt.Fprintf(w, "  suggest %s -> %s (%s)\n", s.From, s.To, s.Reason)
	}
}
