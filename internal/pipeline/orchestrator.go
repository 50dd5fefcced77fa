// internal/pipeline/orchestrator.go

// Package pipeline sequences the evidence aggregation stages for one gene
// query and isolates failures per stage.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"varsight/internal/common/logger"
	"varsight/internal/common/metrics"
	"varsight/internal/models"
	"varsight/internal/prompt"
	fetchliterature "varsight/internal/workers/evidence/fetch-literature"
	fetchvariants "varsight/internal/workers/evidence/fetch-variants"
	llmsummarize "varsight/internal/workers/synthesis/llm-summarize"
)

// Stage identifies one step of the fixed run order. Failed is terminal and
// reachable from any stage.
type Stage string

const (
	StageSearch    Stage = "search"
	StageFilter    Stage = "filter"
	StageAssemble  Stage = "assemble"
	StageSummarize Stage = "summarize"
	StagePersist   Stage = "persist"
	StageDone      Stage = "done"
	StageFailed    Stage = "failed"
)

// LiteratureRetriever resolves a gene to normalized abstracts. Errors are
// fatal to the run.
type LiteratureRetriever interface {
	Execute(ctx context.Context, input *fetchliterature.Input) (*fetchliterature.Output, error)
}

// VariantRetriever resolves a gene to filtered variant records. Errors are
// fatal to the run; per-record problems surface as warnings in the output.
type VariantRetriever interface {
	Execute(ctx context.Context, input *fetchvariants.Input) (*fetchvariants.Output, error)
}

// Summarizer turns the assembled document into a narrative. It never fails:
// backend problems degrade into a diagnostic narrative.
type Summarizer interface {
	Execute(ctx context.Context, input *llmsummarize.Input) *llmsummarize.Output
}

// Sink receives the completed result during the Persist stage. A sink error
// fails the run.
type Sink interface {
	Persist(ctx context.Context, result *models.PipelineResult) error
}

type Orchestrator struct {
	literature LiteratureRetriever
	variants   VariantRetriever
	summarizer Summarizer
	sinks      []Sink
	logger     logger.Logger
}

func NewOrchestrator(lit LiteratureRetriever, vars VariantRetriever, sum Summarizer, sinks []Sink, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		literature: lit,
		variants:   vars,
		summarizer: sum,
		sinks:      sinks,
		logger: log.With(map[string]interface{}{
			"component": "orchestrator",
		}),
	}
}

// Run executes one pipeline run. Terminal success yields a PipelineResult;
// terminal failure yields an error and no partial output.
func (o *Orchestrator) Run(ctx context.Context, gene string) (*models.PipelineResult, error) {
	runID := uuid.New()
	log := o.logger.With(map[string]interface{}{
		"runId": runID.String(),
		"gene":  gene,
	})

	start := time.Now()
	warnings := []string{}

	// --- Search: the two retrievals are independent and run concurrently.
	log.Info("stage transition", map[string]interface{}{"stage": StageSearch})
	searchStart := time.Now()

	var (
		wg        sync.WaitGroup
		litOutput *fetchliterature.Output
		varOutput *fetchvariants.Output
	)
	errChan := make(chan error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := o.literature.Execute(ctx, &fetchliterature.Input{Gene: gene})
		if err != nil {
			errChan <- fmt.Errorf("literature retrieval: %w", err)
			return
		}
		litOutput = out
	}()
	go func() {
		defer wg.Done()
		out, err := o.variants.Execute(ctx, &fetchvariants.Input{Gene: gene})
		if err != nil {
			errChan <- fmt.Errorf("variant retrieval: %w", err)
			return
		}
		varOutput = out
	}()
	wg.Wait()
	close(errChan)
	metrics.StageDuration.WithLabelValues(string(StageSearch)).Observe(time.Since(searchStart).Seconds())

	if err := <-errChan; err != nil {
		return nil, o.fail(ctx, log, start, err)
	}

	// --- Filter: classification filtering already ran inside the variant
	// retriever; fold its per-record diagnostics into the run warnings and
	// flag empty evidence. Emptiness is a valid value, not an error.
	log.Info("stage transition", map[string]interface{}{"stage": StageFilter})
	warnings = append(warnings, varOutput.Warnings...)
	if len(litOutput.Abstracts) == 0 {
		warnings = append(warnings, fmt.Sprintf("no abstracts found for %s", gene))
	}
	if len(varOutput.Variants) == 0 {
		warnings = append(warnings, fmt.Sprintf("no pathogenic variants found for %s", gene))
	}

	bundle := &models.EvidenceBundle{
		Gene:      gene,
		Abstracts: litOutput.Abstracts,
		Variants:  varOutput.Variants,
	}

	// --- Assemble
	log.Info("stage transition", map[string]interface{}{"stage": StageAssemble})
	assembleStart := time.Now()
	document := prompt.Assemble(bundle.Gene, bundle.Abstracts, bundle.Variants)
	metrics.StageDuration.WithLabelValues(string(StageAssemble)).Observe(time.Since(assembleStart).Seconds())

	// --- Summarize: never fails the run.
	log.Info("stage transition", map[string]interface{}{"stage": StageSummarize})
	summarizeStart := time.Now()
	summary := o.summarizer.Execute(ctx, &llmsummarize.Input{
		Gene:          gene,
		Document:      document,
		AbstractCount: len(bundle.Abstracts),
		VariantCount:  len(bundle.Variants),
	})
	metrics.StageDuration.WithLabelValues(string(StageSummarize)).Observe(time.Since(summarizeStart).Seconds())
	if summary.Degraded {
		warnings = append(warnings, summary.Warning)
	}

	result := &models.PipelineResult{
		RunID:     runID,
		Gene:      gene,
		Variants:  bundle.Variants,
		Narrative: summary.Narrative,
		Warnings:  warnings,
	}

	// --- Persist
	log.Info("stage transition", map[string]interface{}{"stage": StagePersist})
	persistStart := time.Now()
	for _, sink := range o.sinks {
		if err := sink.Persist(ctx, result); err != nil {
			metrics.StageDuration.WithLabelValues(string(StagePersist)).Observe(time.Since(persistStart).Seconds())
			return nil, o.fail(ctx, log, start, fmt.Errorf("persist: %w", err))
		}
	}
	metrics.StageDuration.WithLabelValues(string(StagePersist)).Observe(time.Since(persistStart).Seconds())

	// --- Done
	metrics.PipelineRuns.WithLabelValues(string(StageDone)).Inc()
	log.Info("stage transition", map[string]interface{}{
		"stage":    StageDone,
		"variants": len(result.Variants),
		"warnings": len(result.Warnings),
		"duration": time.Since(start).String(),
	})

	return result, nil
}

func (o *Orchestrator) fail(ctx context.Context, log logger.Logger, start time.Time, err error) error {
	metrics.PipelineRuns.WithLabelValues(string(StageFailed)).Inc()
	log.Error("stage transition", map[string]interface{}{
		"stage":    StageFailed,
		"error":    err.Error(),
		"duration": time.Since(start).String(),
	})
	return err
}
