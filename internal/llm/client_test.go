package llm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"go-hiring-ingest/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]any{
				"prompt_tokens":     321,
				"completion_tokens": 54,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testClient(baseURL string) *llm.Client {
	return llm.NewClient(llm.Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
	}, nil)
}

func TestExtractFields(t *testing.T) {
	t.Run("Should parse fields and usage from a valid response", func(t *testing.T) {
		content := `{"title":"Senior Backend Engineer","summary":"Own the ingestion pipeline","responsibilities":["- Build APIs","* Review code"],"skills":["Go","PostgreSQL"],"seniority":"senior","employment_type":"full-time","category":"engineering"}`
		srv := modelServer(t, content)
		defer srv.Close()

		out, err := testClient(srv.URL).ExtractFields(context.Background(), "Senior Backend Engineer\nlong description text", "jd.pdf")
		require.NoError(t, err)

		assert.Equal(t, "Senior Backend Engineer", out.Fields.Title)
		assert.Equal(t, []string{"Build APIs", "Review code"}, out.Fields.Responsibilities)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, out.Fields.Skills)
		assert.Equal(t, 321, out.Usage.PromptTokens)
		assert.Equal(t, 54, out.Usage.CompletionTokens)
	})

	t.Run("Should derive a title when the model omits one", func(t *testing.T) {
		srv := modelServer(t, `{"summary":"s"}`)
		defer srv.Close()

		out, err := testClient(srv.URL).ExtractFields(context.Background(), "Principal Data Engineer\nrest of the text", "jd.pdf")
		require.NoError(t, err)
		assert.Equal(t, "Principal Data Engineer", out.Fields.Title)
	})

	t.Run("Should hard-fail on unknown keys in the response", func(t *testing.T) {
		srv := modelServer(t, `{"title":"x","salary":100000}`)
		defer srv.Close()

		_, err := testClient(srv.URL).ExtractFields(context.Background(), "some text", "jd.pdf")
		assert.Error(t, err)
	})

	t.Run("Should hard-fail on non-JSON content", func(t *testing.T) {
		srv := modelServer(t, "Sure! Here is the JSON you asked for: ...")
		defer srv.Close()

		_, err := testClient(srv.URL).ExtractFields(context.Background(), "some text", "jd.pdf")
		assert.Error(t, err)
	})

	t.Run("Should surface model HTTP errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).ExtractFields(context.Background(), "some text", "jd.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("Should truncate oversized input by characters before sending", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			for _, m := range body.Messages {
				if m.Role == "user" {
					got = m.Content
				}
			}
			fmt.Fprint(w, `{"choices":[{"message":{"content":"{}"}}],"usage":{}}`)
		}))
		defer srv.Close()

		huge := strings.Repeat("é", llm.InputCharLimit*2)
		_, err := testClient(srv.URL).ExtractFields(context.Background(), huge, "jd.pdf")
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(got))
		assert.Less(t, utf8.RuneCountInString(got), llm.InputCharLimit+500)
	})
}
