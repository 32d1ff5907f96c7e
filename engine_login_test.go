package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/authcore/token"
)

func TestAuthenticateSuccess(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, nil)
	seeded := seedUser(t, engine, users, "alice@example.com", "correct-horse")

	user, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != seeded.ID {
		t.Fatalf("resolved wrong user: got %d want %d", user.ID, seeded.ID)
	}
}

func TestAuthenticateStampsLastLoginInMemory(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, nil)
	seeded := seedUser(t, engine, users, "alice@example.com", "correct-horse")

	user, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.LastLogin.IsZero() {
		t.Fatal("last login not stamped on authenticated user")
	}

	// Committing the stamp is the caller's transaction boundary. LoginUser
	// does it; Authenticate alone must not.
	if !users.mustGet(t, seeded.ID).LastLogin.IsZero() {
		t.Fatal("authenticate persisted last login")
	}
}

func TestAuthenticateWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, nil)
	seedUser(t, engine, users, "alice@example.com", "correct-horse")

	_, errWrongPass := engine.Authenticate(context.Background(), "alice@example.com", "wrong")
	_, errNoUser := engine.Authenticate(context.Background(), "nobody@example.com", "whatever")

	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v want ErrInvalidCredentials", errWrongPass)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v want ErrInvalidCredentials", errNoUser)
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, nil)
	seeded := seedUser(t, engine, users, "alice@example.com", "correct-horse")
	deactivate(t, users, seeded.ID)

	// Indistinguishable from a bad password; disabled accounts must not be
	// discoverable through the login endpoint.
	_, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v want ErrInvalidCredentials", err)
	}
}

func TestLoginUserIssuesTokenPair(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, nil)
	seeded := seedUser(t, engine, users, "alice@example.com", "correct-horse",
		Role{ID: 1, Name: "editor"}, Role{ID: 2, Name: "admin"}, Role{ID: 3, Name: "editor"})

	result, err := engine.LoginUser(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.TokenType != "bearer" {
		t.Fatalf("token type: got %q", result.TokenType)
	}

	claims, err := engine.tokens.Parse(result.AccessToken, true)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Type != token.KindAccess {
		t.Fatalf("access token kind: got %q", claims.Type)
	}
	if claims.Subject != seeded.SubjectID() {
		t.Fatalf("subject: got %q want %q", claims.Subject, seeded.SubjectID())
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" || claims.Roles[1] != "editor" {
		t.Fatalf("roles not sorted and deduplicated: %v", claims.Roles)
	}

	refreshClaims, err := engine.tokens.Parse(result.RefreshToken, true)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if refreshClaims.Type != token.KindRefresh {
		t.Fatalf("refresh token kind: got %q", refreshClaims.Type)
	}
	if refreshClaims.ID == claims.ID {
		t.Fatal("access and refresh tokens share a jti")
	}

	stored := users.mustGet(t, seeded.ID)
	if stored.LastLogin.IsZero() {
		t.Fatal("last login not stamped")
	}
}

func TestLoginRateLimited(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Security.EnableLoginThrottle = true
		cfg.Security.MaxLoginAttempts = 2
	})
	seedUser(t, engine, users, "alice@example.com", "correct-horse")

	for i := 0; i < 3; i++ {
		if _, err := engine.Authenticate(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: got %v want ErrInvalidCredentials", i, err)
		}
	}

	// Budget exhausted: even the correct password is rejected until cooldown.
	_, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, ErrLoginRateLimited) {
		t.Fatalf("got %v want ErrLoginRateLimited", err)
	}
}

func TestLoginThrottleResetsOnSuccess(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Security.EnableLoginThrottle = true
		cfg.Security.MaxLoginAttempts = 3
	})
	seedUser(t, engine, users, "alice@example.com", "correct-horse")

	if _, err := engine.Authenticate(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v want ErrInvalidCredentials", err)
	}
	if _, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	// Counter cleared: the full budget is available again.
	for i := 0; i < 3; i++ {
		if _, err := engine.Authenticate(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d after reset: got %v want ErrInvalidCredentials", i, err)
		}
	}
}

func TestLoginFailureBackendDown(t *testing.T) {
	engine, users, _, _ := newTestEngine(t, nil)
	users.getByEmailErr = errors.New("db down")

	_, err := engine.Authenticate(context.Background(), "alice@example.com", "correct-horse")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("got %v want ErrServiceUnavailable", err)
	}
}
