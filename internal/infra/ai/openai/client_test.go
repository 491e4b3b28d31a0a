package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
)

func fakeServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test-key", r.Header.Get("Authorization"))
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateReturnsContent(t *testing.T) {
	var req map[string]any
	srv := fakeServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"تحليل"},"finish_reason":"stop"}]}`, &req)

	c := NewClient("gpt-4o-mini", srv.URL+"/v1", 512)
	out, err := c.Generate(context.Background(), "sk-test-key", "حلل النص")
	require.NoError(t, err)
	assert.Equal(t, "تحليل", out)

	assert.Equal(t, "gpt-4o-mini", req["model"])
	assert.EqualValues(t, 512, req["max_tokens"])
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
}

func TestGenerateReasoningModelUsesCompletionTokens(t *testing.T) {
	var req map[string]any
	srv := fakeServer(t, http.StatusOK, `{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`, &req)

	c := NewClient("o3-mini", srv.URL+"/v1", 0)
	_, err := c.Generate(context.Background(), "sk-test-key", "x")
	require.NoError(t, err)
	assert.EqualValues(t, defaultMaxTokens, req["max_completion_tokens"])
	assert.NotContains(t, req, "max_tokens")
}

func TestGenerateNoChoices(t *testing.T) {
	srv := fakeServer(t, http.StatusOK, `{"choices":[]}`, nil)
	_, err := NewClient("", srv.URL+"/v1", 0).Generate(context.Background(), "sk-test-key", "x")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestGenerateMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   domain.ErrorKind
	}{
		{http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, domain.KindInvalid},
		{http.StatusForbidden, `{"error":{"message":"forbidden","type":"invalid_request_error"}}`, domain.KindPermissionDenied},
		{http.StatusTooManyRequests, `{"error":{"message":"quota","type":"insufficient_quota","code":"insufficient_quota"}}`, domain.KindQuotaExceeded},
		{http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"requests","code":"rate_limit_exceeded"}}`, domain.KindResourceExhausted},
		{http.StatusInternalServerError, `{"error":{"message":"server error","type":"server_error"}}`, domain.KindUnknown},
	}
	for _, tc := range cases {
		srv := fakeServer(t, tc.status, tc.body, nil)
		_, err := NewClient("", srv.URL+"/v1", 0).Generate(context.Background(), "sk-test-key", "x")
		require.Error(t, err)
		assert.Equal(t, tc.want, domain.Classify(err), "status %d", tc.status)

		var pe *domain.ProviderError
		assert.True(t, errors.As(err, &pe))
	}
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o1-preview"))
	assert.True(t, isReasoningModel("gpt-5-mini"))
	assert.False(t, isReasoningModel("gpt-4o"))
}
