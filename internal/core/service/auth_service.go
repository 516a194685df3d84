package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trinetra110/civix/internal/core/domain"
	"github.com/trinetra110/civix/internal/core/ports"
)

const stateTokenTTL = 10 * time.Minute

// AuthService implements signup, login, and the OAuth redirect flow.
//
// The OAuth role is carried in a server-signed short-lived state token whose
// nonce is stored server-side and consumed exactly once on callback. The
// browser never gets to choose a role after the redirect.
type AuthService struct {
	users     ports.UserRepository
	states    ports.StateStore
	provider  ports.OAuthProvider
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	states ports.StateStore,
	provider ports.OAuthProvider,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		states:    states,
		provider:  provider,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.IsValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessionToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// OAuthStart issues the signed state token and the provider redirect URL.
// The intended role travels inside the token, not in client storage.
func (s *AuthService) OAuthStart(ctx context.Context, role string) (*ports.OAuthStartResult, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	nonce := uuid.New().String()
	claims := jwt.MapClaims{
		"jti":  nonce,
		"role": role,
		"exp":  time.Now().Add(stateTokenTTL).Unix(),
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	if err := s.states.Put(ctx, nonce); err != nil {
		return nil, fmt.Errorf("%w: store state nonce: %v", domain.ErrStorage, err)
	}

	return &ports.OAuthStartResult{
		State:       state,
		RedirectURL: s.provider.AuthCodeURL(state),
	}, nil
}

// OAuthCallback validates and consumes the state token, exchanges the code
// with the provider, and creates the principal's directory record on first
// login using the role the state token carries.
func (s *AuthService) OAuthCallback(ctx context.Context, state, code string) (string, *domain.User, error) {
	nonce, role, err := s.parseStateToken(state)
	if err != nil {
		return "", nil, err
	}

	consumed, err := s.states.Consume(ctx, nonce)
	if err != nil {
		return "", nil, fmt.Errorf("%w: consume state nonce: %v", domain.ErrStorage, err)
	}
	if !consumed {
		return "", nil, domain.ErrStateTokenInvalid
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("%w: oauth exchange: %v", domain.ErrUpstream, err)
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	if err == domain.ErrUserNotFound {
		user, err = s.users.Create(ctx, &domain.User{
			ID:        uuid.New().String(),
			Name:      identity.Name,
			Email:     identity.Email,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		})
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.sessionToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) sessionToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseStateToken(state string) (nonce, role string, err error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", "", domain.ErrStateTokenInvalid
	}

	nonce, _ = claims["jti"].(string)
	role, _ = claims["role"].(string)
	if nonce == "" || !domain.IsValidRole(role) {
		return "", "", domain.ErrStateTokenInvalid
	}

	return nonce, role, nil
}
