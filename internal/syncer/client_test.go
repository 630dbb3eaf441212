package syncer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tester",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestClient_CheckToken(t *testing.T) {
	valid := NewClient("http://example.invalid", signedToken(t, time.Now().Add(time.Hour)))
	if err := valid.CheckToken(); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}

	expired := NewClient("http://example.invalid", signedToken(t, time.Now().Add(-time.Hour)))
	if err := expired.CheckToken(); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: got %v, want ErrTokenExpired", err)
	}

	empty := NewClient("http://example.invalid", "")
	if err := empty.CheckToken(); err == nil {
		t.Error("empty token accepted")
	}
}

func TestClient_Push(t *testing.T) {
	var gotPath, gotAuth, gotClientID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotClientID = r.Header.Get("X-Client-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	if err := c.Push(context.Background(), CollectionAssets, 7, map[string]string{"name": "n"}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if gotPath != "/api/v1/sync/assets/7" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if gotClientID == "" {
		t.Error("client instance ID header missing")
	}
}

func TestClient_Push_ConflictIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	err := c.Push(context.Background(), CollectionUsers, 1, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("conflict retried: %d calls, want 1", n)
	}
}

func TestClient_Push_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	if err := c.Push(context.Background(), CollectionAssets, 1, nil); err != nil {
		t.Fatalf("Push after retries: %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls: got %d, want 3", n)
	}
}

func TestClient_Push_BadRequestFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	err := c.Push(context.Background(), CollectionAssets, 1, nil)
	if err == nil || errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want a non-conflict rejection", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("4xx retried: %d calls, want 1", n)
	}
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Error("Ping against a closed server succeeded")
	}
}
