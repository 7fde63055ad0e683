package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/otienod/zonedash/internal/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, logger.Discard())
}

// ============================================================
// SignIn
// ============================================================

func TestSignInJSONString(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != signinPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jdoe" || pass != "secret" {
			t.Errorf("basic auth not forwarded: %s/%s", user, pass)
		}
		json.NewEncoder(w).Encode("header.payload.sig")
	}))

	token, err := c.SignIn(context.Background(), "jdoe", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if token != "header.payload.sig" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestSignInTokenObject(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "abc.def.ghi"})
	}))

	token, err := c.SignIn(context.Background(), "jdoe", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestSignInRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.SignIn(context.Background(), "jdoe", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// ============================================================
// FetchProfile
// ============================================================

func TestFetchProfile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != graphqlPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("missing bearer header, got %q", got)
		}
		var req struct {
			Query string `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if !strings.Contains(req.Query, "moduleXP") {
			t.Error("query missing moduleXP alias")
		}
		w.Write([]byte(`{"data": {
			"moduleXP": [{"type":"xp","amount":100,"createdAt":"2024-01-01","path":"/kisumu/module/a"}],
			"user": [{"id":1,"login":"jdoe"}]
		}}`))
	}))

	raw, err := c.FetchProfile(context.Background(), "tok", "kisumu")
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.ModuleXP) != 1 || raw.Users[0].Login != "jdoe" {
		t.Fatalf("unexpected profile: %+v", raw)
	}
}

func TestFetchProfileJWTError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "Could not verify JWT: JWSError"}]}`))
	}))

	_, err := c.FetchProfile(context.Background(), "stale", "kisumu")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestFetchProfileGraphQLError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "field not found"}]}`))
	}))

	_, err := c.FetchProfile(context.Background(), "tok", "kisumu")
	if err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected plain graphql error, got %v", err)
	}
}

func TestFetchProfileRetriesServerErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data": {"user": [{"id":1,"login":"jdoe"}]}}`))
	}))

	raw, err := c.FetchProfile(context.Background(), "tok", "kisumu")
	if err != nil {
		t.Fatal(err)
	}
	if attempts < 3 {
		t.Fatalf("expected retries, got %d attempts", attempts)
	}
	if raw.Users[0].Login != "jdoe" {
		t.Fatalf("unexpected profile: %+v", raw)
	}
}

func TestFetchProfileEmptyData(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	raw, err := c.FetchProfile(context.Background(), "tok", "kisumu")
	if err != nil {
		t.Fatal(err)
	}
	if len(raw.ModuleXP) != 0 || len(raw.Users) != 0 {
		t.Fatalf("expected empty profile, got %+v", raw)
	}
}

// ============================================================
// Query builder
// ============================================================

func TestProfileQueryCampus(t *testing.T) {
	q := ProfileQuery("kisumu")
	if !strings.Contains(q, `"/kisumu/module/%"`) {
		t.Fatalf("campus not interpolated:\n%s", q)
	}
	if !strings.Contains(q, "auditsReceived") || !strings.Contains(q, "totalUpBonus") {
		t.Fatal("query missing expected aliases")
	}
	if strings.Contains(q, "%!") {
		t.Fatalf("format escape broke the query:\n%s", q)
	}
}
