package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront/internal/auth"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/metrics"
)

type stubSessions struct {
	sess *auth.Session
}

func (s stubSessions) Current(context.Context) (*auth.Session, error) {
	if s.sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}
	return s.sess, nil
}

func TestRequireSession(t *testing.T) {
	var seen *auth.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	RequireSession(stubSessions{}, nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	sess := &auth.Session{Token: "t", User: auth.User{Username: "emilys"}}
	rec = httptest.NewRecorder()
	RequireSession(stubSessions{sess: sess}, nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || seen != sess {
		t.Fatalf("expected session in context, status %d", rec.Code)
	}
}

func TestOptionalSessionNeverRejects(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SessionFromContext(r.Context()) != nil {
			t.Fatal("expected no session")
		}
	})
	OptionalSession(stubSessions{}, nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Fatal("handler should run without a session")
	}
}

func TestRequestIDEchoesOrMints(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = RequestIDFromContext(r.Context()) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	RequestID(nil)(next).ServeHTTP(rec, req)
	if got != "abc-123" || rec.Header().Get(requestIDHeader) != "abc-123" {
		t.Fatalf("expected propagated id, got %q", got)
	}

	rec = httptest.NewRecorder()
	RequestID(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" || got == "abc-123" || rec.Header().Get(requestIDHeader) != got {
		t.Fatalf("expected minted id, got %q", got)
	}
}

func TestRecovererReturns500(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("kaboom") })
	rec := httptest.NewRecorder()
	Recoverer(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestLoggingRecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Logging(nil, m))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/items/{id}" && labels["status"] == "202" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected request counted under the route pattern")
	}
}
