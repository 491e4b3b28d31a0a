package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
)

func fakeGemini(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/"+DefaultModel+":generateContent"), r.URL.Path)
		assert.Equal(t, "AIzaSyD-0123456789abcdef", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateText(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"تحليل المرحلة"}]}}]}`)

	out, err := NewClient("", srv.URL+"/", 0).Generate(context.Background(), "AIzaSyD-0123456789abcdef", "Test")
	require.NoError(t, err)
	assert.Equal(t, "تحليل المرحلة", out)
}

func TestGenerateEmpty(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, `{"candidates":[]}`)

	_, err := NewClient("", srv.URL+"/", 0).Generate(context.Background(), "AIzaSyD-0123456789abcdef", "Test")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
	assert.Equal(t, domain.KindEmptyResponse, domain.Classify(err))
}

func TestGenerateInvalidKey(t *testing.T) {
	srv := fakeGemini(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.ErrorInfo","reason":"API_KEY_INVALID"}]}}`)

	_, err := NewClient("", srv.URL+"/", 0).Generate(context.Background(), "AIzaSyD-0123456789abcdef", "Test")
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalid, domain.Classify(err))
}

func TestGenerateQuota(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`)

	_, err := NewClient("", srv.URL+"/", 0).Generate(context.Background(), "AIzaSyD-0123456789abcdef", "Test")
	require.Error(t, err)
	assert.Equal(t, domain.KindResourceExhausted, domain.Classify(err))
}

func TestGenerateRequiresKey(t *testing.T) {
	_, err := NewClient("", "http://127.0.0.1:0/", 0).Generate(context.Background(), "", "Test")
	assert.Error(t, err)
}
