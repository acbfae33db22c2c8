package command

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// mockServer creates a test HTTP server with custom handlers.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

func newMockServer() *mockServer {
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for pattern, handler := range m.handlers {
			if strings.HasPrefix(r.URL.Path, pattern) {
				handler(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	return m
}

// handle registers a handler for a path prefix.
func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.handlers[pattern] = handler
}

// successResponse writes a success envelope with data.
func successResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "success",
		"request_id": "test-request",
		"data":       data,
	})
}

// errorResponse writes an error envelope.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "error",
		"code":       code,
		"message":    message,
		"request_id": "test-request",
	})
}

// makeTestContext builds a CLI context pointed at the mock server.
// extraFlags supplies command-level flags by name; args become
// positional arguments.
func makeTestContext(server *mockServer, extraFlags map[string]any, args []string) *cli.Context {
	app := &cli.App{
		Name:  "test",
		Flags: globalFlags(),
	}

	allFlags := append([]cli.Flag{}, globalFlags()...)

	existing := make(map[string]bool)
	for _, f := range allFlags {
		for _, name := range f.Names() {
			existing[name] = true
		}
	}

	for name, val := range extraFlags {
		if existing[name] {
			continue
		}
		switch v := val.(type) {
		case string:
			allFlags = append(allFlags, &cli.StringFlag{Name: name, Value: v})
		case int64:
			allFlags = append(allFlags, &cli.Int64Flag{Name: name, Value: v})
		case float64:
			allFlags = append(allFlags, &cli.Float64Flag{Name: name, Value: v})
		case bool:
			allFlags = append(allFlags, &cli.BoolFlag{Name: name, Value: v})
		case []string:
			allFlags = append(allFlags, &cli.StringSliceFlag{Name: name})
		}
		existing[name] = true
	}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range allFlags {
		f.Apply(set)
	}

	cliArgs := []string{"--server", server.URL, "--token", "sgss-test"}
	for name, val := range extraFlags {
		switch v := val.(type) {
		case string:
			if v != "" {
				cliArgs = append(cliArgs, "--"+name, v)
			}
		case int64:
			cliArgs = append(cliArgs, "--"+name, strconv.FormatInt(v, 10))
		case float64:
			cliArgs = append(cliArgs, "--"+name, fmt.Sprintf("%g", v))
		case bool:
			if v {
				cliArgs = append(cliArgs, "--"+name)
			}
		case []string:
			for _, s := range v {
				cliArgs = append(cliArgs, "--"+name, s)
			}
		}
	}
	cliArgs = append(cliArgs, args...)

	set.Parse(cliArgs)

	return cli.NewContext(app, set, nil)
}

// sampleItem returns item data the way the server reports it.
func sampleItem() map[string]any {
	return map[string]any{
		"category":    3,
		"id":          1,
		"seller_id":   7,
		"name":        "phone",
		"keywords":    []string{"apple", "smartphone"},
		"condition":   "new",
		"price":       499.0,
		"quantity":    5,
		"thumbs_up":   2,
		"thumbs_down": 0,
	}
}
