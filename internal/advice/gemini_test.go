package advice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/advice"
)

func candidate(parts ...genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}}
}

func TestGeminiText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "nil response", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name:    "candidate without content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: true,
		},
		{
			name:    "blank text",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(genai.Text("  \n"))}},
			wantErr: true,
		},
		{
			name: "non-text parts only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.Blob{MIMEType: "image/png", Data: []byte{1}}),
			}},
			wantErr: true,
		},
		{
			name: "single part",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(genai.Text("Hydrate."))}},
			want: "Hydrate.",
		},
		{
			name: "multiple parts are joined in order",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.Text("Eat "), genai.Blob{MIMEType: "image/png"}, genai.Text("protein.")),
				candidate(genai.Text("ignored")),
			}},
			want: "Eat protein.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advice.GeminiText(tt.resp)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, advice.ErrEmptyResponse)
				var permanent *backoff.PermanentError
				assert.True(t, errors.As(err, &permanent), "empty responses are not retried")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigureGemini_Temperature(t *testing.T) {
	model := &genai.GenerativeModel{}
	advice.ConfigureGemini(model, advice.Request{Prompt: "tip"})
	assert.Nil(t, model.Temperature, "provider default is kept")

	temp := float32(0.7)
	advice.ConfigureGemini(model, advice.Request{Prompt: "tip", Temperature: &temp})
	require.NotNil(t, model.Temperature)
	assert.Equal(t, float32(0.7), *model.Temperature)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := advice.NewGemini(context.Background(), advice.GeminiConfig{})
	assert.ErrorIs(t, err, advice.ErrNoCredentials)
}
