package connection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		wantPrefix string
	}{
		{"with http prefix", "http://localhost:8082", "http://localhost:8082"},
		{"with https prefix", "https://localhost:8082", "https://localhost:8082"},
		{"without prefix", "localhost:8082", "http://localhost:8082"},
		{"hostname only", "shop.example.com", "http://shop.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(tt.server, "sgss-abc")
			if client.BaseURL() != tt.wantPrefix {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantPrefix)
			}
		})
	}
}

func TestHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if r.Header.Get("X-Session-Token") != "sgss-abc" {
			t.Errorf("X-Session-Token = %q, want %q", r.Header.Get("X-Session-Token"), "sgss-abc")
		}
		if r.Header.Get("User-Agent") != "stallgate-cli/1.0" {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), "stallgate-cli/1.0")
		}
		if r.URL.Path != "/api/cart" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/api/cart")
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "sgss-abc")
	resp, err := client.Get(context.Background(), "/api/cart")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestHTTPClient_Post(t *testing.T) {
	type requestBody struct {
		Name     string `json:"name"`
		Quantity int64  `json:"quantity"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want %q", r.Header.Get("Content-Type"), "application/json")
		}

		var body requestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body.Name != "phone" || body.Quantity != 5 {
			t.Errorf("body = %+v, want {Name:phone Quantity:5}", body)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "sgss-abc")
	resp, err := client.Post(context.Background(), "/api/items", requestBody{Name: "phone", Quantity: 5})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
}

func TestHTTPClient_Post_NilBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("Content-Type should be empty for nil body, got %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "sgss-abc")
	resp, err := client.Post(context.Background(), "/api/logout", nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	defer resp.Body.Close()
}

func TestHTTPClient_NoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Token") != "" {
			t.Errorf("X-Session-Token should be empty, got %q", r.Header.Get("X-Session-Token"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "")
	resp, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer resp.Body.Close()
}

func TestParseResponse_Success(t *testing.T) {
	type loginData struct {
		Token string `json:"token"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success","request_id":"r1","data":{"token":"sgss-xyz"}}`))
	}))
	defer server.Close()

	resp, _ := http.Get(server.URL)

	var result loginData
	if err := ParseResponse(resp, &result); err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if result.Token != "sgss-xyz" {
		t.Errorf("token = %q, want sgss-xyz", result.Token)
	}
}

func TestParseResponse_Error(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErrMsg string
	}{
		{
			name:       "with error envelope",
			status:     409,
			body:       `{"status":"error","code":"SG-USR-4090","message":"username already taken"}`,
			wantErrMsg: "[SG-USR-4090] username already taken",
		},
		{
			name:       "without error envelope",
			status:     500,
			body:       `not json`,
			wantErrMsg: "status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, _ := http.Get(server.URL)
			err := ParseResponse(resp, nil)

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrMsg) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrMsg)
			}
		})
	}
}

func TestParseResponse_NilTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success","data":{"ignored":true}}`))
	}))
	defer server.Close()

	resp, _ := http.Get(server.URL)
	if err := ParseResponse(resp, nil); err != nil {
		t.Errorf("ParseResponse with nil target should not error: %v", err)
	}
}
