package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds["username"] != "jdoe" || creds["password"] != "hunter2" {
			t.Fatalf("unexpected credentials: %+v", creds)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer srv.Close()

	tokenFile := filepath.Join(t.TempDir(), "token")
	t.Setenv("ASSETDB_API_URL", srv.URL)
	t.Setenv("ASSETDB_TOKEN_FILE", tokenFile)

	cmd := loginCmd()
	_ = cmd.Flags().Set("username", "jdoe")
	_ = cmd.Flags().Set("password", "hunter2")

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("login: %v", err)
	}

	saved, err := os.ReadFile(tokenFile)
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	if string(saved) != "issued-token" {
		t.Errorf("stored token: got %q", saved)
	}
}

func TestLogin_ServerRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	t.Setenv("ASSETDB_API_URL", srv.URL)
	t.Setenv("ASSETDB_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))

	cmd := loginCmd()
	_ = cmd.Flags().Set("username", "jdoe")
	_ = cmd.Flags().Set("password", "wrong")

	if err := cmd.RunE(cmd, nil); err == nil {
		t.Fatal("rejected login did not error")
	}
}

func TestLogout_RemovesToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("tok"), 0600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	t.Setenv("ASSETDB_TOKEN_FILE", tokenFile)

	cmd := logoutCmd()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := os.Stat(tokenFile); !os.IsNotExist(err) {
		t.Errorf("token file still present: %v", err)
	}
}
