package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/dummyjson"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storage"
)

const MessageInvalidCredentials = "Invalid credentials. Please check your username and password."

// Service manages the single signed-in session of this storefront.
type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*Session, error)
	IsAuthenticated(ctx context.Context) bool
	Register(ctx context.Context, input RegisterRequest) (*User, error)
}

type identityClient interface {
	Login(ctx context.Context, username, password string) (*dummyjson.LoginResponse, error)
	Register(ctx context.Context, input dummyjson.RegisterInput) (*dummyjson.RemoteUser, error)
}

// ServiceParams groups dependencies needed by the auth service.
type ServiceParams struct {
	Store  storage.Store
	Client identityClient
	Logger *logger.Logger
	Clock  func() time.Time
}

// No mutex: the remote client's 401 hook calls Logout from inside Login.
type service struct {
	store  storage.Store
	client identityClient
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("storage required")
	}
	if params.Client == nil {
		return nil, fmt.Errorf("identity client required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{store: params.Store, client: params.Client, logg: logg, now: clock}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) || pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MessageInvalidCredentials)
		}
		return nil, err
	}
	token := resp.BearerToken()
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response carried no token")
	}

	user := withDefaults(User{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Image:     resp.Image,
	}, s.now().UTC())

	if err := s.store.Set(ctx, storage.KeyUserToken, token); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save session token")
	}
	if err := storage.SaveJSON(ctx, s.store, storage.KeyAuthUser, user); err != nil {
		_ = s.store.Remove(ctx, storage.KeyUserToken)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save session user")
	}

	s.logg.Info(s.logg.WithUsername(ctx, user.Username), "user signed in")
	return newSession(token, user), nil
}

func (s *service) Logout(ctx context.Context) error {
	var errs []error
	for _, key := range []string{storage.KeyUserToken, storage.KeyAuthUser} {
		if err := s.store.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := multierr.Combine(errs...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	return nil
}

// Current returns the stored session. Missing, unreadable or expired
// sessions are reported as UNAUTHORIZED.
func (s *service) Current(ctx context.Context) (*Session, error) {
	token, err := StoredToken(ctx, s.store)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session token")
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}

	var user User
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyAuthUser, &user)
	switch {
	case errors.Is(err, storage.ErrCorrupt):
		s.logg.Warn(s.logg.WithStorageKey(ctx, storage.KeyAuthUser), "stored user unreadable, treating as signed out")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session user")
	case !found:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}

	if auth.Expired(token, s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return newSession(token, user), nil
}

func (s *service) IsAuthenticated(ctx context.Context) bool {
	_, err := s.Current(ctx)
	return err == nil
}

// Register proxies the demo user endpoint. Nothing is persisted and the
// caller is not signed in.
func (s *service) Register(ctx context.Context, input RegisterRequest) (*User, error) {
	remote, err := s.client.Register(ctx, dummyjson.RegisterInput{
		Username:  strings.TrimSpace(input.Username),
		Password:  input.Password,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	})
	if err != nil {
		return nil, err
	}
	user := withDefaults(User{
		ID:        remote.ID,
		Username:  remote.Username,
		Email:     remote.Email,
		FirstName: remote.FirstName,
		LastName:  remote.LastName,
		Image:     remote.Image,
	}, s.now().UTC())
	return &user, nil
}

// StoredToken reads the bearer token from storage. An absent token is an
// empty string, not an error.
func StoredToken(ctx context.Context, store storage.Store) (string, error) {
	token, err := store.Get(ctx, storage.KeyUserToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// TokenExpiry exposes the exp claim of an upstream token, if it has one.
func TokenExpiry(token string) (time.Time, bool) {
	return auth.Expiry(token)
}

func newSession(token string, user User) *Session {
	sess := &Session{Token: token, User: user}
	if exp, ok := TokenExpiry(token); ok {
		sess.ExpiresAt = &exp
	}
	return sess
}
