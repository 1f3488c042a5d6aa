// Package advice produces motivational copy and plans from a generative-text
// provider, falling back to canned text whenever the provider is unavailable.
package advice

import (
	"context"
	"errors"
)

// ErrNoCredentials is returned by generators that have no API key configured.
var ErrNoCredentials = errors.New("advice provider credentials not configured")

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("advice provider returned no text")

// Request is one prompt sent to a Generator.
type Request struct {
	Prompt string
	// Temperature is left to the provider default when nil.
	Temperature *float32
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Static is the offline generator used when no provider key is configured.
type Static struct{}

// Generate always fails with ErrNoCredentials.
func (Static) Generate(context.Context, Request) (string, error) {
	return "", ErrNoCredentials
}

// Name returns "static".
func (Static) Name() string { return "static" }

func temperature(v float32) *float32 { return &v }
