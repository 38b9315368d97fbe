package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type sampleBody struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"widget","count":2}`))
	var out sampleBody
	if err := DecodeJSONBody(req, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Name != "widget" || out.Count != 2 {
		t.Fatalf("unexpected body %+v", out)
	}
}

func TestDecodeJSONBodyValidationDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":0}`))
	var out sampleBody
	typed := pkgerrors.As(DecodeJSONBody(req, &out))
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", typed)
	}
	details := typed.Details().(map[string]string)
	if details["name"] != "is required" || details["count"] != "must be at least 1" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyStrictness(t *testing.T) {
	body := `{"name":"widget","count":1,"isLocal":true}`
	var out sampleBody
	if err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &out); err == nil {
		t.Fatal("strict decode should reject unknown fields")
	}
	if err := DecodeJSONBodyLenient(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &out); err != nil {
		t.Fatalf("lenient decode should accept unknown fields: %v", err)
	}
}

func TestParseQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&min=9.99&bad=x", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 100); err != nil || v != 3 {
		t.Fatalf("unexpected page %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "limit", 10, 1, 100); err != nil || v != 10 {
		t.Fatalf("expected default, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 1, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
	if _, err := ParseQueryInt(req, "page", 1, 1, 2); err == nil {
		t.Fatal("expected range error")
	}

	lo, err := ParseQueryDecimal(req, "min")
	if err != nil || lo == nil || lo.String() != "9.99" {
		t.Fatalf("unexpected decimal %v %v", lo, err)
	}
	if v, err := ParseQueryDecimal(req, "max"); err != nil || v != nil {
		t.Fatalf("absent decimal should be nil, got %v %v", v, err)
	}
	if _, err := ParseQueryDecimal(req, "bad"); err == nil {
		t.Fatal("expected decimal error")
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?refresh=true&off=0&bad=maybe", nil)
	if v, err := ParseQueryBool(req, "refresh"); err != nil || !v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(req, "off"); err != nil || v {
		t.Fatalf("expected false, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(req, "missing"); err != nil || v {
		t.Fatalf("absent flag should be false, got %v %v", v, err)
	}
	if _, err := ParseQueryBool(req, "bad"); err == nil {
		t.Fatal("expected boolean error")
	}
}

func TestURLParamID(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.WithValue(context.Background(), chi.RouteCtxKey, rctx))
	if id, err := URLParamID(req, "id"); err != nil || id != 42 {
		t.Fatalf("unexpected id %d %v", id, err)
	}

	rctx = chi.NewRouteContext()
	rctx.URLParams.Add("id", "-1")
	req = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.WithValue(context.Background(), chi.RouteCtxKey, rctx))
	if _, err := URLParamID(req, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"  hello world  ", 5, "hello"},
		{"crème brûlée", 5, "crème"},
		{"line one\nline\x00 two\x07", 0, "line one\nline two"},
		{"ab cd", 3, "ab"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in, tc.max); got != tc.want {
			t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
