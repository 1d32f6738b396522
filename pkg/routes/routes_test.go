package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/covenantlabs/covenant/pkg/routes"
)

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: okHandler("list")},
			{Method: "GET", Pattern: "/{id}", Handler: okHandler("find")},
			{Method: "POST", Pattern: "", Handler: okHandler("create")},
		},
	})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/documents", "list"},
		{"GET", "/documents/42", "find"},
		{"POST", "/documents", "create"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != tt.want {
				t.Errorf("routed to %q handler, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/api",
		Children: []routes.Group{
			{
				Prefix: "/analyses",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{id}", Handler: okHandler("analysis")},
				},
			},
			{
				Prefix: "/parties",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/document/{id}", Handler: okHandler("parties")},
				},
			},
		},
	})

	for path, want := range map[string]string{
		"/api/analyses/abc":        "analysis",
		"/api/parties/document/xy": "parties",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
		if got := rec.Body.String(); got != want {
			t.Errorf("%s routed to %q handler, want %q", path, got, want)
		}
	}
}

func TestRegisterMethodScoping(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: okHandler("find")},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/documents/42", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405 for unregistered method", rec.Code)
	}
}
