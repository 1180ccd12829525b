package shared

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	_ "github.com/atrium-suite/atrium/testing"
)

func newSessionStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	principal, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if principal.UserID != "u1" {
		t.Fatalf("expected user u1, got %q", principal.UserID)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)

	if _, err := store.Resolve(context.Background(), "no-such-token"); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveExpiredPayloadDeletesKey(t *testing.T) {
	store, mr := newSessionStore(t, time.Hour)
	ctx := context.Background()

	payload, _ := json.Marshal(sessionPayload{
		UserID:    "u1",
		IssuedAt:  time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	})
	mr.Set("session:stale", string(payload))

	if _, err := store.Resolve(ctx, "stale"); err != ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if mr.Exists("session:stale") {
		t.Fatal("expected expired session key to be deleted")
	}
}

func TestLoadParsesBearerHeader(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	principal, err := store.Load(ctx, req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if principal.UserID != "u1" {
		t.Fatalf("expected user u1, got %q", principal.UserID)
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, err := store.Load(ctx, req); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for non-bearer scheme, got %v", err)
	}
}

func TestDestroyRemovesSession(t *testing.T) {
	store, _ := newSessionStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy session: %v", err)
	}
	if _, err := store.Resolve(ctx, token); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated after destroy, got %v", err)
	}
}
