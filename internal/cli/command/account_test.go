package command

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestAccountCreate(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	var gotBody map[string]any
	server.handle("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		successResponse(w, http.StatusCreated, map[string]any{
			"id":           1,
			"username":     "alice",
			"display_name": "Alice",
			"role":         "seller",
		})
	})

	ctx := makeTestContext(server, map[string]any{
		"username":     "alice",
		"password":     "hunter22",
		"display-name": "Alice",
	}, nil)

	if err := accountCreate(ctx); err != nil {
		t.Fatalf("accountCreate() error = %v", err)
	}
	if gotBody["username"] != "alice" {
		t.Errorf("request username = %v, want alice", gotBody["username"])
	}
	if gotBody["display_name"] != "Alice" {
		t.Errorf("request display_name = %v, want Alice", gotBody["display_name"])
	}
}

func TestAccountCreate_UsernameTaken(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	server.handle("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusConflict, "SG-USER-4090", "username already exists")
	})

	ctx := makeTestContext(server, map[string]any{
		"username": "alice",
		"password": "hunter22",
	}, nil)

	err := accountCreate(ctx)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := err.Error(); got != "[SG-USER-4090] username already exists" {
		t.Errorf("error = %q", got)
	}
}

func TestAccountLogin_SavesToken(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	server.handle("/api/login", func(w http.ResponseWriter, r *http.Request) {
		successResponse(w, http.StatusOK, map[string]any{
			"token": "sgss-fresh",
			"user": map[string]any{
				"id":       1,
				"username": "alice",
				"role":     "seller",
			},
		})
	})

	tokenFile := filepath.Join(t.TempDir(), "token")
	ctx := makeTestContext(server, map[string]any{
		"username":   "alice",
		"password":   "hunter22",
		"token-file": tokenFile,
	}, nil)

	if err := accountLogin(ctx); err != nil {
		t.Fatalf("accountLogin() error = %v", err)
	}

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		t.Fatalf("token file not written: %v", err)
	}
	if got := string(data); got != "sgss-fresh\n" {
		t.Errorf("token file = %q, want sgss-fresh", got)
	}
}

func TestAccountLogout_ClearsToken(t *testing.T) {
	server := newMockServer()
	defer server.Close()

	server.handle("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Token") != "sgss-test" {
			t.Errorf("X-Session-Token = %q, want sgss-test", r.Header.Get("X-Session-Token"))
		}
		successResponse(w, http.StatusOK, nil)
	})

	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("sgss-old\n"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx := makeTestContext(server, map[string]any{
		"token-file": tokenFile,
	}, nil)

	if err := accountLogout(ctx); err != nil {
		t.Fatalf("accountLogout() error = %v", err)
	}
	if _, err := os.Stat(tokenFile); !os.IsNotExist(err) {
		t.Error("token file still exists after logout")
	}
}
