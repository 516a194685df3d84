package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/trinetra110/civix/internal/core/domain"
	"github.com/trinetra110/civix/internal/core/ports"
)

type stubStateStore struct {
	nonces map[string]bool
}

func newStubStateStore() *stubStateStore {
	return &stubStateStore{nonces: make(map[string]bool)}
}

func (s *stubStateStore) Put(_ context.Context, nonce string) error {
	s.nonces[nonce] = true
	return nil
}

func (s *stubStateStore) Consume(_ context.Context, nonce string) (bool, error) {
	if !s.nonces[nonce] {
		return false, nil
	}
	delete(s.nonces, nonce)
	return true, nil
}

type stubOAuthProvider struct {
	identity ports.OAuthIdentity
	err      error
}

func (p *stubOAuthProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *stubOAuthProvider) Exchange(_ context.Context, _ string) (*ports.OAuthIdentity, error) {
	if p.err != nil {
		return nil, p.err
	}
	identity := p.identity
	return &identity, nil
}

const testSecret = "test-secret"

func newTestAuthService(users *stubUserRepo, states ports.StateStore, provider ports.OAuthProvider) *AuthService {
	if states == nil {
		states = newStubStateStore()
	}
	if provider == nil {
		provider = &stubOAuthProvider{identity: ports.OAuthIdentity{
			Subject: "google-123",
			Name:    "Asha",
			Email:   "asha@example.com",
		}}
	}
	return NewAuthService(users, states, provider, testSecret, time.Hour)
}

// ---------------------------------------------------------------------------
// Register / Login
// ---------------------------------------------------------------------------

func TestAuthService_Register_DefaultsToUserRole(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users, nil, nil)

	user, err := svc.Register(context.Background(), "Asha", "asha@example.com", "hunter22", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")) != nil {
		t.Error("stored hash does not verify against the password")
	}
}

func TestAuthService_Register_RejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil, nil)

	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", "hunter22", "superadmin")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users, nil, nil)

	if _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "hunter22", domain.RoleAdmin); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "asha@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("session token does not parse: %v", err)
	}
	if claims["sub"] != user.ID || claims["role"] != domain.RoleAdmin {
		t.Errorf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAuthService(users, nil, nil)

	if _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "hunter22", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "asha@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil, nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// OAuth flow
// ---------------------------------------------------------------------------

func TestAuthService_OAuth_RoundTrip(t *testing.T) {
	users := newStubUserRepo()
	states := newStubStateStore()
	svc := newTestAuthService(users, states, nil)

	start, err := svc.OAuthStart(context.Background(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(start.RedirectURL, "state=") {
		t.Errorf("redirect url misses state: %q", start.RedirectURL)
	}

	token, user, err := svc.OAuthCallback(context.Background(), start.State, "auth-code")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	// First login provisions the directory record with the state token's role.
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected role from state token, got %q", user.Role)
	}
	if user.Email != "asha@example.com" {
		t.Errorf("unexpected email %q", user.Email)
	}
}

func TestAuthService_OAuth_StateIsSingleUse(t *testing.T) {
	states := newStubStateStore()
	svc := newTestAuthService(newStubUserRepo(), states, nil)

	start, err := svc.OAuthStart(context.Background(), "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, _, err := svc.OAuthCallback(context.Background(), start.State, "auth-code"); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	_, _, err = svc.OAuthCallback(context.Background(), start.State, "auth-code")
	if !errors.Is(err, domain.ErrStateTokenInvalid) {
		t.Fatalf("replayed state must be rejected, got %v", err)
	}
}

func TestAuthService_OAuth_TamperedState(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil, nil)

	start, err := svc.OAuthStart(context.Background(), domain.RoleUser)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Forge a token with the same claims but a different key. An attacker
	// cannot promote themselves to admin by rewriting the state.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":  "forged-nonce",
		"role": domain.RoleAdmin,
		"exp":  time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("attacker-key"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	for _, state := range []string{forged, start.State + "x", "not-a-jwt"} {
		_, _, err := svc.OAuthCallback(context.Background(), state, "auth-code")
		if !errors.Is(err, domain.ErrStateTokenInvalid) {
			t.Errorf("state %q: expected ErrStateTokenInvalid, got %v", state, err)
		}
	}
}

func TestAuthService_OAuth_ExchangeFailure(t *testing.T) {
	states := newStubStateStore()
	provider := &stubOAuthProvider{err: errors.New("provider down")}
	svc := newTestAuthService(newStubUserRepo(), states, provider)

	start, err := svc.OAuthStart(context.Background(), "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	_, _, err = svc.OAuthCallback(context.Background(), start.State, "auth-code")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAuthService_OAuth_ExistingUserKeepsRole(t *testing.T) {
	existing := &domain.User{ID: "u9", Name: "Asha", Email: "asha@example.com", Role: domain.RoleUser}
	users := newStubUserRepo(existing)
	svc := newTestAuthService(users, nil, nil)

	// State token asks for admin, but the directory record already exists
	// and keeps its role.
	start, err := svc.OAuthStart(context.Background(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, user, err := svc.OAuthCallback(context.Background(), start.State, "auth-code")
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if user.ID != "u9" || user.Role != domain.RoleUser {
		t.Errorf("existing record must win: %+v", user)
	}
}
