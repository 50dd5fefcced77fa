// internal/workers/synthesis/llm-summarize/handler_test.go
package llmsummarize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varsight/internal/common/logger"
	"varsight/internal/prompt"
)

func createTestConfig(baseURL string) *Config {
	return &Config{
		GenAIBaseURL: baseURL,
		APIKey:       "test-key",
		Model:        "gpt-4o-mini",
		MaxTokens:    1024,
		Temperature:  0.2,
		Timeout:      5 * time.Second,
	}
}

func chatJSON(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
}

func evidenceInput(gene string) *Input {
	return &Input{
		Gene:          gene,
		Document:      "Summarize the mutation evidence for gene " + gene + ".",
		AbstractCount: 3,
		VariantCount:  2,
	}
}

func TestHandler_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, prompt.SystemInstruction, req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Contains(t, req.Messages[1].Content, "BRCA1")

		fmt.Fprint(w, chatJSON("BRCA1 mutations cluster in the RING and BRCT domains."))
	}))
	defer server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))
	output := handler.Execute(context.Background(), evidenceInput("BRCA1"))

	require.NotNil(t, output)
	assert.Equal(t, "BRCA1 mutations cluster in the RING and BRCT domains.", output.Narrative)
	assert.False(t, output.Degraded)
	assert.Empty(t, output.Warning)
}

func TestHandler_Execute_NoEvidence_SkipsBackend(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))
	output := handler.Execute(context.Background(), &Input{Gene: "OBSCURE1"})

	require.NotNil(t, output)
	assert.Equal(t, "No relevant data found for OBSCURE1 in PubMed or ClinVar.", output.Narrative)
	assert.False(t, output.Degraded)
	assert.Equal(t, int64(0), atomic.LoadInt64(&hits), "vacuous evidence must not reach the backend")
}

func TestHandler_Execute_PartialEvidence_CallsBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatJSON("narrative"))
	}))
	defer server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))

	// One side of the evidence empty is still evidence.
	output := handler.Execute(context.Background(), &Input{Gene: "TP53", Document: "doc", VariantCount: 1})
	assert.Equal(t, "narrative", output.Narrative)

	output = handler.Execute(context.Background(), &Input{Gene: "TP53", Document: "doc", AbstractCount: 1})
	assert.Equal(t, "narrative", output.Narrative)
}

func TestHandler_Execute_BackendFailures_Degrade(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{"backend 500", http.StatusInternalServerError, ""},
		{"backend 429", http.StatusTooManyRequests, ""},
		{"malformed JSON", http.StatusOK, `{"choices":`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty content", http.StatusOK, chatJSON("   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))
			output := handler.Execute(context.Background(), evidenceInput("MLH1"))

			require.NotNil(t, output)
			assert.True(t, output.Degraded)
			assert.Contains(t, output.Narrative, "summary unavailable")
			assert.Contains(t, output.Warning, "narrative synthesis failed for MLH1")
		})
	}
}

func TestHandler_Execute_TransportError_Degrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	handler := NewHandler(createTestConfig(server.URL), logger.NewTestLogger(t))
	output := handler.Execute(context.Background(), evidenceInput("BRCA2"))

	require.NotNil(t, output)
	assert.True(t, output.Degraded)
	assert.Contains(t, output.Narrative, "summary unavailable")
}
