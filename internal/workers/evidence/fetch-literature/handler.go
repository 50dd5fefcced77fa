// internal/workers/evidence/fetch-literature/handler.go
package fetchliterature

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"varsight/internal/common/logger"
	"varsight/internal/common/metrics"
	"varsight/internal/models"
)

const (
	TaskType = "fetch-literature"

	defaultTitle    = "No Title"
	defaultAbstract = "No abstract available"
)

var (
	ErrLiteratureSearchFailed = errors.New("LITERATURE_SEARCH_FAILED")
	ErrLiteratureFetchFailed  = errors.New("LITERATURE_FETCH_FAILED")
	ErrLiteratureParseFailed  = errors.New("LITERATURE_PARSE_FAILED")
)

// mutationKeywords biases the search toward mutation-relevant literature.
var mutationKeywords = []string{"missense", "nonsense", "frameshift", "deletion", "insertion"}

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

// Execute retrieves up to MaxResults PubMed abstracts for a gene. The call is
// all-or-nothing: any transport or parse error aborts the whole fetch and no
// partial list is returned.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ids, err := h.searchIDs(ctx, input.Gene)
	if err != nil {
		return nil, err
	}

	// Empty ID list short-circuits: no detail request is issued.
	if len(ids) == 0 {
		h.logger.Info("no pubmed results", map[string]interface{}{
			"gene": input.Gene,
		})
		return &Output{Abstracts: []models.AbstractRecord{}}, nil
	}

	abstracts, err := h.fetchAbstracts(ctx, ids)
	if err != nil {
		return nil, err
	}

	h.logger.Info("literature fetch completed", map[string]interface{}{
		"gene":          input.Gene,
		"abstractCount": len(abstracts),
	})

	return &Output{Abstracts: abstracts}, nil
}

func (h *Handler) searchIDs(ctx context.Context, gene string) ([]string, error) {
	params := url.Values{}
	params.Add("db", "pubmed")
	params.Add("term", buildTerm(gene))
	params.Add("retmax", fmt.Sprintf("%d", h.config.MaxResults))
	params.Add("retmode", "json")
	h.addEntrezParams(params)

	req, err := http.NewRequestWithContext(ctx, "GET", h.config.EntrezBaseURL+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLiteratureSearchFailed, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues("pubmed", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrLiteratureSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.BackendRequests.WithLabelValues("pubmed", "error").Inc()
		return nil, fmt.Errorf("%w: esearch returned %d", ErrLiteratureSearchFailed, resp.StatusCode)
	}
	metrics.BackendRequests.WithLabelValues("pubmed", "ok").Inc()

	var searchResp esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrLiteratureSearchFailed, err)
	}

	return searchResp.ESearchResult.IDList, nil
}

// pubmedArticleSet mirrors the efetch XML envelope.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Title     string   `xml:"MedlineCitation>Article>ArticleTitle"`
	Fragments []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
}

func (h *Handler) fetchAbstracts(ctx context.Context, ids []string) ([]models.AbstractRecord, error) {
	params := url.Values{}
	params.Add("db", "pubmed")
	params.Add("id", strings.Join(ids, ","))
	params.Add("retmode", "xml")
	h.addEntrezParams(params)

	req, err := http.NewRequestWithContext(ctx, "GET", h.config.EntrezBaseURL+"/efetch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLiteratureFetchFailed, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.BackendRequests.WithLabelValues("pubmed", "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrLiteratureFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.BackendRequests.WithLabelValues("pubmed", "error").Inc()
		return nil, fmt.Errorf("%w: efetch returned %d", ErrLiteratureFetchFailed, resp.StatusCode)
	}
	metrics.BackendRequests.WithLabelValues("pubmed", "ok").Inc()

	var articleSet pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&articleSet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLiteratureParseFailed, err)
	}

	abstracts := make([]models.AbstractRecord, 0, len(articleSet.Articles))
	for _, article := range articleSet.Articles {
		title := strings.TrimSpace(article.Title)
		if title == "" {
			title = defaultTitle
		}

		// Abstract text is the space-joined concatenation of all fragments
		// in document order.
		body := strings.TrimSpace(strings.Join(article.Fragments, " "))
		if body == "" {
			body = defaultAbstract
		}

		abstracts = append(abstracts, models.AbstractRecord{
			Title: title,
			Body:  body,
		})
	}

	return abstracts, nil
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

func buildTerm(gene string) string {
	return fmt.Sprintf("%s AND (%s)", gene, strings.Join(mutationKeywords, " OR "))
}
