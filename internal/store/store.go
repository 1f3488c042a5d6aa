// Package store provides the persisted gymmate document and transactional access to it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gymmate/gymmate/internal/store"

// Config holds configuration for the document store.
type Config struct {
	// Storage is the backend the document is persisted in.
	Storage Storage

	// Logger for store operations.
	Logger zerolog.Logger

	// MaxRetries bounds CAS retries on version conflicts (default: 8).
	MaxRetries uint64

	// InitialInterval is the first retry backoff (default: 5ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff (default: 200ms).
	MaxInterval time.Duration
}

// Store gives read and read-modify-write access to the document.
// Every call decodes its own copy from storage, so callers never share
// references with each other or with the stored state.
type Store struct {
	storage         Storage
	logger          zerolog.Logger
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	tracer          trace.Tracer

	// mu serializes writers in this process; CAS covers other processes.
	mu sync.Mutex
}

// New creates a document store.
func New(cfg Config) *Store {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 8
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 5 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 200 * time.Millisecond
	}
	return &Store{
		storage:         cfg.Storage,
		logger:          cfg.Logger.With().Str("component", "store").Str("backend", cfg.Storage.Name()).Logger(),
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
		tracer:          otel.Tracer(tracerName),
	}
}

// Load returns a copy of the current document. Missing, unreadable or
// unparsable data yields the empty document; the failure is only logged.
func (s *Store) Load(ctx context.Context) *Document {
	doc, err := s.read(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("could not load document, using empty document")
		return EmptyDocument()
	}
	return doc
}

// View runs fn against a copy of the current document. Unlike Load, a
// backend read failure is returned wrapped in ErrUnavailable.
func (s *Store) View(ctx context.Context, fn func(doc *Document) error) error {
	doc, err := s.read(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// UserData returns a copy of the namespace of email. It fails with
// ErrUnavailable when the backend cannot be read and ErrUnauthenticated
// when email has no stored data.
func (s *Store) UserData(ctx context.Context, email string) (*AppData, error) {
	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.UserData(email)
}

func (s *Store) read(ctx context.Context) (*Document, error) {
	snap, err := s.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading document: %w", ErrUnavailable, err)
	}
	return s.decode(snap.Body), nil
}

// Save overwrites the stored document. Failures are logged and swallowed.
func (s *Store) Save(ctx context.Context, doc *Document) {
	replacement := doc.Clone()
	err := s.Update(ctx, func(d *Document) error {
		*d = *replacement.Clone()
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("could not save document")
	}
}

// Update applies fn to a fresh copy of the document and writes the result
// with a compare-and-swap. On a version conflict fn runs again against the
// newer document, so fn must only derive its changes from the document it is given.
// Errors returned by fn abort the update and are returned unchanged.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	ctx, span := s.tracer.Start(ctx, "store.Update",
		trace.WithAttributes(attribute.String("store.backend", s.storage.Name())),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.initialInterval
	bo.MaxInterval = s.maxInterval
	bo.MaxElapsedTime = 0

	attempts := 0
	operation := func() error {
		attempts++

		snap, err := s.storage.Load(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: loading document: %w", ErrUnavailable, err))
		}

		doc := s.decode(snap.Body)
		if err := fn(doc); err != nil {
			return backoff.Permanent(err)
		}

		body, err := json.Marshal(doc)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("encoding document: %w", err))
		}

		if _, err := s.storage.CompareAndSwap(ctx, snap.Version, body); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				s.logger.Debug().Int("attempt", attempts).Msg("document changed concurrently, retrying")
				return err
			}
			return backoff.Permanent(fmt.Errorf("%w: writing document: %w", ErrUnavailable, err))
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, s.maxRetries), ctx))
	span.SetAttributes(attribute.Int("store.attempts", attempts))
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			err = fmt.Errorf("giving up after %d attempts: %w", attempts, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Ping checks the storage backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Backend returns the storage backend name.
func (s *Store) Backend() string {
	return s.storage.Name()
}

// Close closes the storage backend.
func (s *Store) Close() error {
	return s.storage.Close()
}

func (s *Store) decode(body []byte) *Document {
	if len(body) == 0 {
		return EmptyDocument()
	}
	doc := EmptyDocument()
	if err := json.Unmarshal(body, doc); err != nil {
		s.logger.Error().Err(err).Msg("could not parse stored document, using empty document")
		return EmptyDocument()
	}
	doc.normalize()
	return doc
}
