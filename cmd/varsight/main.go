// cmd/varsight/main.go
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"varsight/internal/common/config"
	"varsight/internal/common/database"
	"varsight/internal/common/logger"
	"varsight/internal/common/observability"
	"varsight/internal/display"
	"varsight/internal/pipeline"
	"varsight/internal/report"
	fetchliterature "varsight/internal/workers/evidence/fetch-literature"
	fetchvariants "varsight/internal/workers/evidence/fetch-variants"
	llmsummarize "varsight/internal/workers/synthesis/llm-summarize"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	var (
		gene         = flag.String("gene", "", "gene symbol to query (e.g. BRCA1)")
		configPath   = flag.String("config", "", "path to a specific config file")
		serveMetrics = flag.Bool("serve-metrics", false, "expose /metrics on :9090")
		noArchive    = flag.Bool("no-archive", false, "skip the PostgreSQL run archive even if configured")
	)
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if *serveMetrics {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(":9090", nil); err != nil {
				zapLog.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	target := strings.TrimSpace(*gene)
	if target == "" {
		fmt.Print("Gene symbol: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			target = strings.TrimSpace(scanner.Text())
		}
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "no gene symbol supplied")
		os.Exit(1)
	}

	ctx := context.Background()

	sinks := []pipeline.Sink{
		report.NewWriter(cfg.Report.OutputDir, log),
	}

	if cfg.Database.Postgres.Enabled && !*noArchive {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		sinks = append(sinks, report.NewPostgresStore(pg.DB, log))
	}

	litHandler := fetchliterature.NewHandler(&fetchliterature.Config{
		EntrezBaseURL: cfg.APIs.Entrez.BaseURL,
		APIKey:        cfg.APIs.Entrez.APIKey,
		Tool:          cfg.APIs.Entrez.Tool,
		Email:         cfg.APIs.Entrez.Email,
		Timeout:       config.GetDuration(cfg.APIs.Entrez.Timeout),
		MaxResults:    cfg.Pipeline.LiteratureMaxResults,
	}, log)

	varHandler := fetchvariants.NewHandler(&fetchvariants.Config{
		EntrezBaseURL: cfg.APIs.Entrez.BaseURL,
		APIKey:        cfg.APIs.Entrez.APIKey,
		Tool:          cfg.APIs.Entrez.Tool,
		Email:         cfg.APIs.Entrez.Email,
		Timeout:       config.GetDuration(cfg.APIs.Entrez.Timeout),
		MaxResults:    cfg.Pipeline.VariantMaxResults,
	}, log)

	sumHandler := llmsummarize.NewHandler(&llmsummarize.Config{
		GenAIBaseURL: cfg.APIs.GenAI.BaseURL,
		APIKey:       cfg.APIs.GenAI.APIKey,
		Model:        cfg.APIs.GenAI.Model,
		MaxTokens:    cfg.APIs.GenAI.MaxTokens,
		Temperature:  cfg.APIs.GenAI.Temperature,
		Timeout:      config.GetDuration(cfg.APIs.GenAI.Timeout),
	}, log)

	orchestrator := pipeline.NewOrchestrator(litHandler, varHandler, sumHandler, sinks, log)

	runStart := time.Now()
	result, err := orchestrator.Run(ctx, target)
	if err != nil {
		obs.RecordRun(ctx, "failed")
		obs.RecordRunDuration(ctx, time.Since(runStart), "failed")
		zapLog.Error("pipeline failed", zap.String("gene", target), zap.Error(err))
		fmt.Fprintf(os.Stderr, "pipeline failed for %s: %v\n", target, err)
		os.Exit(1)
	}
	obs.RecordRun(ctx, "done")
	obs.RecordRunDuration(ctx, time.Since(runStart), "done")

	display.Render(os.Stdout, result)
}
