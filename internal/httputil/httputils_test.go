package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractAccessToken(t *testing.T) {
	var tests = map[string]string{
		"Bearer abc":  "abc",
		"bearer  abc": "abc",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for header, want := range tests {
		var r = httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", header)
		if got := ExtractAccessToken(r); got != want {
			t.Fatalf("ExtractAccessToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestAllowCORS(t *testing.T) {
	var r = httptest.NewRequest(http.MethodOptions, "/birthdays", nil)
	r.Header.Set("Origin", "https://intranet.example.com")
	r.Header.Set("Access-Control-Request-Headers", "Authorization")
	var w = httptest.NewRecorder()

	AllowCORS(w, r, []string{http.MethodGet, http.MethodOptions}, false)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://intranet.example.com" {
		t.Fatalf("Allow-Origin=%q", got)
	}
	if got := w.Header().Get("Allow"); got != "GET, OPTIONS" {
		t.Fatalf("Allow=%q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization" {
		t.Fatalf("Allow-Headers=%q", got)
	}
}

func TestCacheHeaders(t *testing.T) {
	var w = httptest.NewRecorder()
	Cache(w, time.Hour)
	if got := w.Header().Get("Cache-Control"); got != "private, max-age=3600" {
		t.Fatalf("Cache-Control=%q", got)
	}

	w = httptest.NewRecorder()
	NoCache(w)
	if got := w.Header().Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Fatalf("Cache-Control=%q", got)
	}
}

func TestTiming(t *testing.T) {
	var timing = NewTiming()
	timing.Start("refresh")
	timing.Stop("refresh")
	timing.Start("list")
	timing.Stop("list")

	var w = httptest.NewRecorder()
	timing.Report(w)
	var values = strings.Split(w.Header().Get("Server-Timing"), ",")
	if len(values) != 2 || !strings.HasPrefix(values[0], "list;dur=") || !strings.HasPrefix(values[1], "refresh;dur=") {
		t.Fatalf("Server-Timing=%v", values)
	}
}
