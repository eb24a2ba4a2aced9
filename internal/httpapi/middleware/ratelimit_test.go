package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	l := newLimiter(1, 2, time.Minute)
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	h := rateLimit(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Fatalf("want Retry-After 1 got %q", rr.Header().Get("Retry-After"))
	}

	// other clients have their own bucket
	other := httptest.NewRequest("GET", "/", nil)
	other.RemoteAddr = "5.6.7.8:1234"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != 200 {
		t.Fatalf("other client: want 200 got %d", rr.Code)
	}

	now = now.Add(1100 * time.Millisecond)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != 200 {
		t.Fatalf("want 200 after refill got %d", rr2.Code)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(0, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	for i := 0; i < 10; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != http.StatusTeapot {
			t.Fatalf("want 418 got %d", rr.Code)
		}
	}
}

func TestLimiter_SweepsIdleBuckets(t *testing.T) {
	l := newLimiter(1, 1, time.Minute)
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("a")
	l.allow("b")
	now = now.Add(2 * time.Minute)
	l.allow("c")

	if len(l.m) != 1 {
		t.Fatalf("want 1 bucket after sweep, got %d", len(l.m))
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.5"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		remote  string
		xff     string
		trusted []netip.Prefix
		want    string
	}{
		{"no proxy", "10.0.0.1:5555", "", nil, "10.0.0.1"},
		{"xff ignored without trusted proxies", "203.0.113.7:1", "198.51.100.1", nil, "203.0.113.7"},
		{"xff ignored from untrusted peer", "203.0.113.7:1", "198.51.100.1", trusted, "203.0.113.7"},
		{"trusted peer", "10.0.0.1:5555", "203.0.113.9", trusted, "203.0.113.9"},
		{"spoofed left hop skipped", "10.0.0.1:5555", "1.1.1.1, 203.0.113.9", trusted, "203.0.113.9"},
		{"chained trusted proxies", "10.0.0.1:5555", "203.0.113.9, 192.168.1.5", trusted, "203.0.113.9"},
		{"trusted peer without xff", "10.0.0.1:5555", "", trusted, "10.0.0.1"},
	}
	for _, c := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = c.remote
		if c.xff != "" {
			req.Header.Set("X-Forwarded-For", c.xff)
		}
		if got := clientIP(req, c.trusted); got != c.want {
			t.Fatalf("%s: clientIP=%q want %q", c.name, got, c.want)
		}
	}
}

func TestRateLimit_RotatingXFFDoesNotEscapeBucket(t *testing.T) {
	l := newLimiter(1, 1, time.Minute)
	now := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	h := rateLimit(l, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 429 || codes[2] != 429 {
		t.Fatalf("codes=%v, want [200 429 429]", codes)
	}
}

func TestParseTrustedProxies_Rejects(t *testing.T) {
	if _, err := ParseTrustedProxies([]string{"not-an-ip"}); err == nil {
		t.Fatal("want error")
	}
	if _, err := ParseTrustedProxies([]string{"10.0.0.0/99"}); err == nil {
		t.Fatal("want error")
	}
}
