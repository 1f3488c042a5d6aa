package advice_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/advice"
	"github.com/gymmate/gymmate/internal/provider/resilience"
)

func newOpenAI(t *testing.T, handler http.HandlerFunc) *advice.OpenAI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gen, err := advice.NewOpenAI(advice.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:            "openai",
			MaxRetries:      1,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
		}),
	})
	require.NoError(t, err)
	return gen
}

func TestOpenAI_Generate(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	gen := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Greek yogurt with berries."},"finish_reason":"stop"}]}`))
	})

	temp := float32(0.9)
	text, err := gen.Generate(t.Context(), advice.Request{Prompt: "Suggest a meal.", Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, "Greek yogurt with berries.", text)
	assert.Equal(t, advice.DefaultOpenAIModel, got.Model)
	assert.InDelta(t, 0.9, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Suggest a meal.", got.Messages[0].Content)
}

func TestOpenAI_Errors(t *testing.T) {
	gen := newOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})
	_, err := gen.Generate(t.Context(), advice.Request{Prompt: "x"})
	assert.ErrorContains(t, err, "status 401")

	empty := newOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	})
	_, err = empty.Generate(t.Context(), advice.Request{Prompt: "x"})
	assert.ErrorIs(t, err, advice.ErrEmptyResponse)

	_, err = advice.NewOpenAI(advice.OpenAIConfig{})
	assert.ErrorIs(t, err, advice.ErrNoCredentials)
}

func TestStatic(t *testing.T) {
	_, err := advice.Static{}.Generate(t.Context(), advice.Request{Prompt: "x"})
	assert.ErrorIs(t, err, advice.ErrNoCredentials)
	_, err = advice.NewGemini(t.Context(), advice.GeminiConfig{})
	assert.ErrorIs(t, err, advice.ErrNoCredentials)
}
