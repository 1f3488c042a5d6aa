package auth_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gymmate/gymmate/internal/api/models"
	"github.com/gymmate/gymmate/internal/auth"
	"github.com/gymmate/gymmate/internal/store"
)

var fixedNow = time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, mode string) (*auth.Service, *store.Store) {
	t.Helper()
	st := store.New(store.Config{Storage: store.NewMemoryStorage(), Logger: zerolog.New(io.Discard)})
	svc := auth.NewService(auth.ServiceConfig{
		Store: st,
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-key",
			Issuer:     "gymmate-api",
			Audience:   "gymmate-app",
		}),
		Mode:       mode,
		BcryptCost: bcrypt.MinCost,
		Now:        func() time.Time { return fixedNow },
		Logger:     zerolog.New(io.Discard),
	})
	return svc, st
}

func TestService_Signup(t *testing.T) {
	svc, st := newTestService(t, auth.ModeToken)
	ctx := context.Background()

	res, err := svc.Signup(ctx, auth.Credentials{Email: " jane@example.com ", Password: "secret1"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Token)
	assert.Equal(t, "Bearer", res.Token.TokenType)
	assert.Equal(t, "jane@example.com", res.Token.Email)

	doc := st.Load(ctx)
	require.Len(t, doc.Users, 1)
	assert.NotEqual(t, "secret1", doc.Users[0].PasswordHash)
	assert.Empty(t, doc.Users[0].Password)
	require.NotNil(t, doc.CurrentUser)
	assert.Equal(t, "jane@example.com", *doc.CurrentUser)

	data, err := doc.UserData("jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane", data.Profile.Name)
	assert.Equal(t, "2024-05-15", data.Profile.WeightHistory[0].Date)

	email, err := svc.CurrentUserEmail(ctx, res.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)
}

func TestService_SignupDuplicate(t *testing.T) {
	svc, st := newTestService(t, auth.ModeToken)
	ctx := context.Background()

	_, err := svc.Signup(ctx, auth.Credentials{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Signup(ctx, auth.Credentials{Email: "jane@example.com", Password: "other12"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, auth.CodeDuplicateUser, res.Code)
	assert.Equal(t, "User with this email already exists.", res.Error)
	assert.Len(t, st.Load(ctx).Users, 1)
}

func TestService_SignupValidation(t *testing.T) {
	svc, _ := newTestService(t, auth.ModeToken)

	tests := []struct {
		name      string
		creds     auth.Credentials
		wantField string
	}{
		{"missing email", auth.Credentials{Password: "secret1"}, "email"},
		{"bad email", auth.Credentials{Email: "jane", Password: "secret1"}, "email"},
		{"missing password", auth.Credentials{Email: "jane@example.com"}, "password"},
		{"short password", auth.Credentials{Email: "jane@example.com", Password: "abc"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.creds)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			require.NotEmpty(t, verr.Errors)
			assert.Equal(t, tt.wantField, verr.Errors[0].Field)
		})
	}
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService(t, auth.ModeToken)
	ctx := context.Background()

	_, err := svc.Signup(ctx, auth.Credentials{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		creds   auth.Credentials
		success bool
	}{
		{"correct", auth.Credentials{Email: "jane@example.com", Password: "secret1"}, true},
		{"wrong password", auth.Credentials{Email: "jane@example.com", Password: "secret2"}, false},
		{"unknown email", auth.Credentials{Email: "john@example.com", Password: "secret1"}, false},
		{"case differs", auth.Credentials{Email: "Jane@example.com", Password: "secret1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.creds)
			require.NoError(t, err)
			assert.Equal(t, tt.success, res.Success)
			if !tt.success {
				assert.Equal(t, auth.CodeInvalidCredentials, res.Code)
				assert.Equal(t, "Invalid email or password.", res.Error)
				assert.Nil(t, res.Token)
			}
		})
	}
}

func TestService_LoginUpgradesLegacyPassword(t *testing.T) {
	svc, st := newTestService(t, auth.ModeToken)
	ctx := context.Background()

	legacy := store.EmptyDocument()
	legacy.Users = append(legacy.Users, store.User{Email: "old@example.com", Password: "plain"})
	legacy.AppData["old@example.com"] = store.DefaultAppData("old", "2024-01-01")
	st.Save(ctx, legacy)

	res, err := svc.Login(ctx, auth.Credentials{Email: "old@example.com", Password: "plain"})
	require.NoError(t, err)
	require.True(t, res.Success)

	user := st.Load(ctx).Users[0]
	assert.Empty(t, user.Password)
	require.NotEmpty(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("plain")))

	res, err = svc.Login(ctx, auth.Credentials{Email: "old@example.com", Password: "plain"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestService_LogoutRevokesToken(t *testing.T) {
	svc, st := newTestService(t, auth.ModeToken)
	ctx := context.Background()

	res, err := svc.Signup(ctx, auth.Credentials{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	token := res.Token.AccessToken

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.CurrentUserEmail(ctx, token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	assert.Nil(t, st.Load(ctx).CurrentUser)

	session, err := svc.CheckSession(ctx, token)
	require.NoError(t, err)
	assert.False(t, session.Authenticated)
}

func TestService_TokenModeRequiresToken(t *testing.T) {
	svc, _ := newTestService(t, auth.ModeToken)
	ctx := context.Background()

	_, err := svc.Signup(ctx, auth.Credentials{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.CurrentUserEmail(ctx, "")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestService_DocumentMode(t *testing.T) {
	svc, _ := newTestService(t, auth.ModeDocument)
	ctx := context.Background()

	session, err := svc.CheckSession(ctx, "")
	require.NoError(t, err)
	assert.False(t, session.Authenticated)

	_, err = svc.Signup(ctx, auth.Credentials{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	email, err := svc.CurrentUserEmail(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)

	require.NoError(t, svc.Logout(ctx, ""))
	_, err = svc.CurrentUserEmail(ctx, "")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestService_SimulatedLatencyHonoursContext(t *testing.T) {
	st := store.New(store.Config{Storage: store.NewMemoryStorage(), Logger: zerolog.New(io.Discard)})
	svc := auth.NewService(auth.ServiceConfig{
		Store:            st,
		JWTService:       auth.NewJWTService(auth.JWTConfig{SigningKey: "k"}),
		SimulatedLatency: time.Hour,
		BcryptCost:       bcrypt.MinCost,
		Logger:           zerolog.New(io.Discard),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Login(ctx, auth.Credentials{Email: "jane@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, context.Canceled)
}
