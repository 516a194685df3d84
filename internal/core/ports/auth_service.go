package ports

import (
	"context"

	"github.com/trinetra110/civix/internal/core/domain"
)

// OAuthStartResult is returned when initiating a third-party login. State is
// a server-signed short-lived token carrying the intended role; the provider
// redirect URL embeds it.
type OAuthStartResult struct {
	State       string
	RedirectURL string
}

// AuthService implements signup, login and the OAuth redirect flow.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// OAuthStart issues the signed state token and the provider URL to
	// redirect the browser to. An empty role defaults to "user".
	OAuthStart(ctx context.Context, role string) (*OAuthStartResult, error)
	// OAuthCallback validates and consumes the state token, exchanges the
	// authorization code, creates the user's directory record on first
	// login, and returns a session token.
	OAuthCallback(ctx context.Context, state, code string) (string, *domain.User, error)
	// CurrentUser resolves the principal behind a session subject.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// StateStore records one-time OAuth state nonces. A nonce may be consumed
// exactly once; a second consume fails.
type StateStore interface {
	Put(ctx context.Context, nonce string) error
	Consume(ctx context.Context, nonce string) (bool, error)
}

// OAuthIdentity is the provider's view of an authenticated principal.
type OAuthIdentity struct {
	Subject string
	Name    string
	Email   string
}

// OAuthProvider exchanges a callback authorization code for the identity of
// the principal who authorized it.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}
