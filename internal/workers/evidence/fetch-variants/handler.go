// internal/workers/evidence/fetch-variants/handler.go
package fetchvariants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	commonerrors "varsight/internal/common/errors"
	"varsight/internal/common/logger"
	"varsight/internal/common/metrics"
	"varsight/internal/models"
)

const (
	TaskType = "fetch-variants"
)

var (
	ErrVariantSearchFailed = errors.New("VARIANT_SEARCH_FAILED")
	ErrVariantFetchFailed  = errors.New("VARIANT_FETCH_FAILED")
)

type Handler struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Execute retrieves ClinVar records for a gene and returns the clinically
// actionable subset. Transport failures abort the call; a single malformed
// record is skipped with a warning and processing continues.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ids, err := h.searchIDs(ctx, input.Gene)
	if err != nil {
		return nil, err
	}

	// Empty ID list short-circuits: no summary request is issued.
	if len(ids) == 0 {
		h.logger.Info("no clinvar results", map[string]interface{}{
			"gene": input.Gene,
		})
		return &Output{Variants: []models.VariantRecord{}}, nil
	}

	summary, err := h.fetchSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	output := h.classify(input.Gene, ids, summary)

	h.logger.Info("variant fetch completed", map[string]interface{}{
		"gene":         input.Gene,
		"totalRecords": len(ids),
		"keptRecords":  len(output.Variants),
		"skipped":      len(output.Warnings),
	})

	return output, nil
}

func (h *Handler) searchIDs(ctx context.Context, gene string) ([]string, error) {
	params := url.Values{}
	params.Add("db", "clinvar")
	params.Add("term", gene)
	params.Add("retmax", fmt.Sprintf("%d", h.config.MaxResults))
	params.Add("retmode", "json")
	h.addEntrezParams(params)

	req, err := http.NewRequestWithContext(ctx, "GET", h.config.EntrezBaseURL+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVariantSearchFailed, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues("clinvar", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrVariantSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.BackendRequests.WithLabelValues("clinvar", "error").Inc()
		return nil, fmt.Errorf("%w: esearch returned %d", ErrVariantSearchFailed, resp.StatusCode)
	}
	metrics.BackendRequests.WithLabelValues("clinvar", "ok").Inc()

	var searchResp esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrVariantSearchFailed, err)
	}

	return searchResp.ESearchResult.IDList, nil
}

func (h *Handler) fetchSummaries(ctx context.Context, ids []string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("db", "clinvar")
	params.Add("id", strings.Join(ids, ","))
	params.Add("retmode", "json")
	h.addEntrezParams(params)

	req, err := http.NewRequestWithContext(ctx, "GET", h.config.EntrezBaseURL+"/esummary.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVariantFetchFailed, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues("clinvar", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrVariantFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.BackendRequests.WithLabelValues("clinvar", "error").Inc()
		return nil, fmt.Errorf("%w: esummary returned %d", ErrVariantFetchFailed, resp.StatusCode)
	}
	metrics.BackendRequests.WithLabelValues("clinvar", "ok").Inc()

	var summaryResp esummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summaryResp); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrVariantFetchFailed, err)
	}
	if summaryResp.Result == nil {
		return nil, fmt.Errorf("%w: esummary response has no result object", ErrVariantFetchFailed)
	}

	return summaryResp.Result, nil
}

// classify walks the summary documents in registry return order, extracts a
// record per UID, and keeps only actionable classifications. Extraction
// failures are isolated per record: the UID is skipped, a diagnostic is
// recorded, and processing continues.
func (h *Handler) classify(gene string, searchIDs []string, result map[string]interface{}) *Output {
	output := &Output{Variants: []models.VariantRecord{}}

	for _, uid := range resultOrder(searchIDs, result) {
		doc, ok := result[uid]
		if !ok {
			continue
		}

		record, err := extractRecord(doc)
		if err != nil {
			skipped := commonerrors.NewVariantRecordSkippedError(uid, err)
			h.logger.Warn("variant record skipped", map[string]interface{}{
				"gene":  gene,
				"uid":   uid,
				"error": err.Error(),
			})
			metrics.VariantsFiltered.WithLabelValues("skipped").Inc()
			output.Warnings = append(output.Warnings, skipped.Details)
			continue
		}

		if !isActionable(record.Classification) {
			metrics.VariantsFiltered.WithLabelValues("excluded").Inc()
			continue
		}

		metrics.VariantsFiltered.WithLabelValues("kept").Inc()
		output.Variants = append(output.Variants, record)
	}

	return output
}

// resultOrder prefers the esummary "uids" list, which preserves the registry
// return order, and falls back to the esearch ID order.
func resultOrder(searchIDs []string, result map[string]interface{}) []string {
	raw, ok := result["uids"].([]interface{})
	if !ok {
		return searchIDs
	}

	uids := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			uids = append(uids, s)
		}
	}
	if len(uids) == 0 {
		return searchIDs
	}
	return uids
}

func (h *Handler) addEntrezParams(params url.Values) {
	if h.config.APIKey != "" {
		params.Add("api_key", h.config.APIKey)
	}
	if h.config.Tool != "" {
		params.Add("tool", h.config.Tool)
	}
	if h.config.Email != "" {
		params.Add("email", h.config.Email)
	}
}
