package textgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
	"github.com/MrJamesThe3rd/tradepack/internal/textgen"
)

func TestClient_Generate(t *testing.T) {
	var calls int

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Contains(t, body.Messages[1].Content, "SWMS")
		assert.Contains(t, body.Messages[1].Content, "Live conductors")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  1. Isolate supply.  "}}]}`))
	}))
	defer ts.Close()

	c := textgen.NewClient(ts.URL, "key", "test-model", 5*time.Second)

	got, err := c.Generate(context.Background(), textgen.Request{
		DocType: "SWMS",
		Prompt:  "Write a method statement.",
		Facts:   map[string]any{"hazards": []string{"Live conductors"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1. Isolate supply.", got)
	assert.Equal(t, 1, calls)
}

func TestClient_GenerateFailures(t *testing.T) {
	type testCase struct {
		name    string
		status  int
		payload string
	}

	tests := []testCase{
		{name: "ServerError", status: http.StatusInternalServerError, payload: `{"error":"boom"}`},
		{name: "EmptyChoices", status: http.StatusOK, payload: `{"choices":[]}`},
		{name: "BlankContent", status: http.StatusOK, payload: `{"choices":[{"message":{"content":"  "}}]}`},
		{name: "BadJSON", status: http.StatusOK, payload: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer ts.Close()

			c := textgen.NewClient(ts.URL, "", "m", 5*time.Second)

			_, err := c.Generate(context.Background(), textgen.Request{DocType: "SWMS"})
			require.Error(t, err)
			assert.Equal(t, apperr.KindDownstream, apperr.KindOf(err))
			assert.Equal(t, apperr.CodeGenerationFailed, apperr.CodeOf(err))
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}
