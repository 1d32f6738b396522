package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/covenantlabs/covenant/pkg/module"
)

func muxRecordingPath(captured *string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		*captured = r.URL.Path
	})
	return mux
}

func TestNew(t *testing.T) {
	t.Run("keeps a single-segment prefix", func(t *testing.T) {
		m := module.New("/api", http.NewServeMux())
		if m.Prefix() != "/api" {
			t.Errorf("Prefix() = %q, want /api", m.Prefix())
		}
	})

	t.Run("panics on malformed prefixes", func(t *testing.T) {
		for _, prefix := range []string{"", "api", "/api/v1"} {
			t.Run(prefix, func(t *testing.T) {
				defer func() {
					if recover() == nil {
						t.Errorf("New(%q) did not panic", prefix)
					}
				}()
				module.New(prefix, http.NewServeMux())
			})
		}
	})
}

func TestServeStripsPrefix(t *testing.T) {
	var inner string
	m := module.New("/api", muxRecordingPath(&inner))

	tests := []struct {
		path string
		want string
	}{
		{"/api/documents/42", "/documents/42"},
		{"/api", "/"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		m.Serve(rec, httptest.NewRequest("GET", tt.path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", tt.path, rec.Code)
		}
		if inner != tt.want {
			t.Errorf("%s: inner path = %q, want %q", tt.path, inner, tt.want)
		}
	}
}

func TestUseWrapsServe(t *testing.T) {
	var inner string
	m := module.New("/api", muxRecordingPath(&inner))

	var order []string
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "middleware")
			next.ServeHTTP(w, r)
		})
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api", nil))

	if len(order) != 1 {
		t.Fatal("middleware did not run")
	}
	if inner != "/" {
		t.Errorf("inner path = %q, want / after middleware", inner)
	}
}

func TestRouterDispatch(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	})

	docsMux := http.NewServeMux()
	docsMux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("docs"))
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.Mount(module.New("/docs", docsMux))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	tests := []struct {
		path string
		want string
	}{
		{"/api/health", "api"},
		{"/docs", "docs"},
		{"/healthz", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouterTrimsTrailingSlash(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", mux))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/documents/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 after trailing slash trim", rec.Code)
	}
}
