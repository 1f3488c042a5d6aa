package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gymmate/gymmate/internal/store"
)

// Session modes.
const (
	// ModeToken identifies the user by the bearer token of each request.
	ModeToken = "token"

	// ModeDocument identifies the user by the document's currentUser, so the
	// whole deployment behaves as one shared session.
	ModeDocument = "document"
)

// ErrUnauthenticated is returned when no session is active.
var ErrUnauthenticated = store.ErrUnauthenticated

var (
	errDuplicateUser      = errors.New("duplicate user")
	errInvalidCredentials = errors.New("invalid credentials")
)

// Service provides authentication operations.
type Service struct {
	store       *store.Store
	jwtService  *JWTService
	revocations *RevocationList
	mode        string
	latency     time.Duration
	bcryptCost  int
	now         func() time.Time
	location    *time.Location
	logger      zerolog.Logger
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	Store       *store.Store
	JWTService  *JWTService
	Revocations *RevocationList

	// Mode is ModeToken (default) or ModeDocument.
	Mode string

	// SimulatedLatency delays every session operation.
	SimulatedLatency time.Duration

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	// Now and Location decide what "today" is for seeded data.
	Now      func() time.Time
	Location *time.Location

	Logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Mode == "" {
		cfg.Mode = ModeToken
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Revocations == nil {
		cfg.Revocations = NewRevocationList(cfg.Now)
	}

	return &Service{
		store:       cfg.Store,
		jwtService:  cfg.JWTService,
		revocations: cfg.Revocations,
		mode:        cfg.Mode,
		latency:     cfg.SimulatedLatency,
		bcryptCost:  cfg.BcryptCost,
		now:         cfg.Now,
		location:    cfg.Location,
		logger:      cfg.Logger.With().Str("component", "auth").Logger(),
	}
}

// Mode returns the session mode.
func (s *Service) Mode() string {
	return s.mode
}

// Signup registers a new account, seeds its data and starts a session.
func (s *Service) Signup(ctx context.Context, creds Credentials) (*Result, error) {
	creds.Normalize()
	if err := creds.Validate(true); err != nil {
		return nil, err
	}
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	today := s.now().In(s.location).Format("2006-01-02")
	email := creds.Email
	err = s.store.Update(ctx, func(doc *store.Document) error {
		if doc.FindUser(email) >= 0 {
			return errDuplicateUser
		}
		doc.Users = append(doc.Users, store.User{Email: email, PasswordHash: string(hash)})
		doc.AppData[email] = store.DefaultAppData(displayName(email), today)
		doc.CurrentUser = &email
		return nil
	})
	if errors.Is(err, errDuplicateUser) {
		return &Result{Code: CodeDuplicateUser, Error: MsgDuplicateUser}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("account created")
	return s.success(email)
}

// Login verifies credentials and starts a session. Accounts stored with a
// clear-text password are upgraded to a bcrypt hash on success.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Result, error) {
	creds.Normalize()
	if err := creds.Validate(false); err != nil {
		return nil, err
	}
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	email := creds.Email
	err := s.store.Update(ctx, func(doc *store.Document) error {
		i := doc.FindUser(email)
		if i < 0 {
			return errInvalidCredentials
		}
		user := &doc.Users[i]

		switch {
		case user.PasswordHash != "":
			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
				return errInvalidCredentials
			}
		case user.Password != "" && subtle.ConstantTimeCompare([]byte(user.Password), []byte(creds.Password)) == 1:
			hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			user.PasswordHash = string(hash)
			user.Password = ""
		default:
			return errInvalidCredentials
		}

		doc.CurrentUser = &email
		return nil
	})
	if errors.Is(err, errInvalidCredentials) {
		return &Result{Code: CodeInvalidCredentials, Error: MsgInvalidCredentials}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return s.success(email)
}

// Logout ends the session. The presented token, if any, is revoked.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.delay(ctx); err != nil {
		return err
	}

	var email string
	if token != "" {
		if claims, err := s.jwtService.ValidateAccessToken(token); err == nil {
			email = claims.Email
			s.revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}

	return s.store.Update(ctx, func(doc *store.Document) error {
		if doc.CurrentUser == nil {
			return nil
		}
		if s.mode == ModeDocument || *doc.CurrentUser == email {
			doc.CurrentUser = nil
		}
		return nil
	})
}

// CurrentUserEmail resolves the user of a request. In token mode the bearer
// token decides; in document mode the stored currentUser does.
func (s *Service) CurrentUserEmail(ctx context.Context, token string) (string, error) {
	if s.mode == ModeDocument {
		var email string
		err := s.store.View(ctx, func(doc *store.Document) error {
			if doc.CurrentUser == nil {
				return ErrUnauthenticated
			}
			if _, err := doc.UserData(*doc.CurrentUser); err != nil {
				return err
			}
			email = *doc.CurrentUser
			return nil
		})
		return email, err
	}

	if token == "" {
		return "", ErrUnauthenticated
	}
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return "", err
	}
	if s.revocations.IsRevoked(claims.ID) {
		return "", ErrTokenRevoked
	}
	err = s.store.View(ctx, func(doc *store.Document) error {
		if doc.FindUser(claims.Email) < 0 {
			return ErrUnauthenticated
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// CheckSession reports whether a session is active, and for whom.
func (s *Service) CheckSession(ctx context.Context, token string) (*Session, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	email, err := s.CurrentUserEmail(ctx, token)
	if errors.Is(err, store.ErrUnavailable) {
		return nil, err
	}
	if err != nil {
		return &Session{}, nil
	}
	return &Session{Authenticated: true, Email: email}, nil
}

func (s *Service) success(email string) (*Result, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(email)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	return &Result{
		Success: true,
		Token: &TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
			Email:       email,
		},
	}, nil
}

func (s *Service) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// displayName is the local part of an email address.
func displayName(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
