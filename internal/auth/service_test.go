package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgauth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/dummyjson"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/storage"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubIdentity struct {
	loginResp   *dummyjson.LoginResponse
	loginErr    error
	registered  dummyjson.RegisterInput
	registerErr error
}

func (s *stubIdentity) Login(ctx context.Context, username, password string) (*dummyjson.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResp, nil
}

func (s *stubIdentity) Register(ctx context.Context, input dummyjson.RegisterInput) (*dummyjson.RemoteUser, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = input
	return &dummyjson.RemoteUser{ID: 209, Username: input.Username, Email: input.Email, FirstName: input.FirstName, LastName: input.LastName}, nil
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := pkgauth.UpstreamClaims{UserID: 1, Username: "emilys"}
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newTestService(t *testing.T, client identityClient, store storage.Store) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Store: store, Client: client, Clock: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{Client: &stubIdentity{}}); err == nil {
		t.Fatal("expected error without store")
	}
	if _, err := NewService(ServiceParams{Store: storage.NewMemory()}); err == nil {
		t.Fatal("expected error without client")
	}
}

func TestLoginPersistsSessionWithDefaults(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	token := signedToken(t, fixedNow.Add(time.Hour))
	client := &stubIdentity{loginResp: &dummyjson.LoginResponse{ID: 1, Username: "emilys", Email: "emily@x.dummyjson.com", AccessToken: token}}
	svc := newTestService(t, client, store)

	sess, err := svc.Login(ctx, "emilys", "emilyspass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != token {
		t.Fatalf("unexpected token %q", sess.Token)
	}
	u := sess.User
	if u.Role != enums.RoleUser || !u.IsActive || !u.LastLogin.Equal(fixedNow) {
		t.Fatalf("defaults not applied: %+v", u)
	}
	if len(u.Permissions) != 1 || u.Permissions[0] != enums.PermissionViewContent {
		t.Fatalf("unexpected permissions %v", u.Permissions)
	}
	if sess.ExpiresAt == nil || !sess.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", sess.ExpiresAt)
	}

	stored, err := store.Get(ctx, storage.KeyUserToken)
	if err != nil || stored != token {
		t.Fatalf("token not persisted: %q %v", stored, err)
	}
	var persisted User
	if found, err := storage.LoadJSON(ctx, store, storage.KeyAuthUser, &persisted); !found || err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if persisted.Username != "emilys" {
		t.Fatalf("unexpected persisted user %+v", persisted)
	}
	if !svc.IsAuthenticated(ctx) {
		t.Fatal("expected authenticated after login")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	upstream := pkgerrors.New(pkgerrors.CodeValidation, "Invalid credentials")
	svc := newTestService(t, &stubIdentity{loginErr: upstream}, storage.NewMemory())

	_, err := svc.Login(context.Background(), "emilys", "wrong")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != MessageInvalidCredentials {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestLoginPassesThroughTransportErrors(t *testing.T) {
	upstream := pkgerrors.New(pkgerrors.CodeDependency, dummyjson.MessageNoResponse)
	svc := newTestService(t, &stubIdentity{loginErr: upstream}, storage.NewMemory())

	_, err := svc.Login(context.Background(), "emilys", "emilyspass")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := newTestService(t, &stubIdentity{}, storage.NewMemory())
	if _, err := svc.Login(context.Background(), " ", "x"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "emilys", ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogoutClearsBothKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	client := &stubIdentity{loginResp: &dummyjson.LoginResponse{ID: 1, Username: "emilys", Token: "opaque"}}
	svc := newTestService(t, client, store)

	if _, err := svc.Login(ctx, "emilys", "emilyspass"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	for _, key := range []string{storage.KeyUserToken, storage.KeyAuthUser} {
		if _, err := store.Get(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected %s removed, got %v", key, err)
		}
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatal("expected signed out")
	}
}

func TestCurrentRequiresTokenAndUser(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestService(t, &stubIdentity{}, store)

	if _, err := svc.Current(ctx); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized with empty storage, got %v", err)
	}

	_ = store.Set(ctx, storage.KeyUserToken, "opaque")
	if svc.IsAuthenticated(ctx) {
		t.Fatal("token without user must not authenticate")
	}

	_ = store.Set(ctx, storage.KeyAuthUser, "{broken")
	if svc.IsAuthenticated(ctx) {
		t.Fatal("corrupt user must not authenticate")
	}

	_ = storage.SaveJSON(ctx, store, storage.KeyAuthUser, User{Username: "emilys"})
	sess, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if sess.ExpiresAt != nil {
		t.Fatalf("opaque token should have no expiry, got %v", sess.ExpiresAt)
	}
}

func TestCurrentRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := newTestService(t, &stubIdentity{}, store)

	_ = store.Set(ctx, storage.KeyUserToken, signedToken(t, fixedNow.Add(-time.Minute)))
	_ = storage.SaveJSON(ctx, store, storage.KeyAuthUser, User{Username: "emilys"})

	if _, err := svc.Current(ctx); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected expired session to be unauthorized, got %v", err)
	}
}

func TestRegisterAppliesDefaults(t *testing.T) {
	client := &stubIdentity{}
	svc := newTestService(t, client, storage.NewMemory())

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: " newbie ", Password: "secret1", Email: "New@Example.com", FirstName: "New", LastName: "Bie",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if client.registered.Username != "newbie" || client.registered.Email != "new@example.com" {
		t.Fatalf("unexpected upstream input %+v", client.registered)
	}
	if user.ID != 209 || user.Role != enums.RoleUser || !user.IsActive {
		t.Fatalf("unexpected user %+v", user)
	}
	if svc.IsAuthenticated(context.Background()) {
		t.Fatal("register must not sign the user in")
	}
}

func TestPermissionHelpers(t *testing.T) {
	user := withDefaults(User{Username: "u"}, fixedNow)
	if !user.HasPermission(enums.PermissionViewContent) {
		t.Fatal("default user should view content")
	}
	if user.HasPermission(enums.PermissionManageUsers) {
		t.Fatal("default user should not manage users")
	}
	admin := User{Role: enums.RoleAdmin}
	if !admin.HasPermission(enums.PermissionManageUsers) || !admin.HasRole(enums.RoleAdmin) {
		t.Fatal("admin holds every permission")
	}
	if user.HasRole(enums.RoleManager) {
		t.Fatal("unexpected role match")
	}
}

func TestStoredToken(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	token, err := StoredToken(ctx, store)
	if err != nil || token != "" {
		t.Fatalf("expected empty token, got %q %v", token, err)
	}
	_ = store.Set(ctx, storage.KeyUserToken, "abc")
	if token, _ := StoredToken(ctx, store); token != "abc" {
		t.Fatalf("unexpected token %q", token)
	}
}
