package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCompletionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar", req["model"])

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewFormatterRequiresKey(t *testing.T) {
	_, err := NewFormatter(nil)
	require.Error(t, err)

	_, err = NewFormatter(&Config{})
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	server := newFakeCompletionServer(t, http.StatusOK, "## Patient Information\n- Jane Doe")
	formatter, err := NewFormatter(&Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	formatted, err := formatter.Format(context.Background(), "jane doe pateint notes")
	require.NoError(t, err)
	assert.Equal(t, "## Patient Information\n- Jane Doe", formatted)
}

func TestFormatNon2xxStatus(t *testing.T) {
	server := newFakeCompletionServer(t, http.StatusBadGateway, "")
	formatter, err := NewFormatter(&Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = formatter.Format(context.Background(), "raw text")
	require.Error(t, err)
}

func TestFormatEmptyContent(t *testing.T) {
	server := newFakeCompletionServer(t, http.StatusOK, "   ")
	formatter, err := NewFormatter(&Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = formatter.Format(context.Background(), "raw text")
	require.Error(t, err)
}
