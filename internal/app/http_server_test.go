package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hubstaff-report/internal/config"
)

// newUpstream fakes the Hubstaff API with one organization and one hour of tracked time.
func newUpstream(t *testing.T, acceptSignin bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v454/account/signin", func(w http.ResponseWriter, r *http.Request) {
		if !acceptSignin {
			http.Error(w, `{"error":"invalid_email_or_password"}`, http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"auth_token":"tok"}`)
	})
	mux.HandleFunc("/v454/institution", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"organizations":[{"id":1,"name":"Acme"}]}`)
	})
	mux.HandleFunc("/v454/institution/1/operations/by_day", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("DateStart") == "" || r.Header.Get("DateStop") == "" {
			t.Errorf("missing date headers")
		}
		io.WriteString(w, `{"daily_activities":[{"id":1,"date":"2024-09-02","user_id":1,"project_id":1,"tracked":3600}],
			"users":[{"id":1,"name":"Jane"}],"projects":[{"id":1,"name":"Rocket"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, baseURL string) *App {
	t.Helper()
	var cfg config.Config
	cfg.Hubstaff.BaseURL = baseURL
	cfg.Hubstaff.Email = "me@example.com"
	cfg.Hubstaff.Password = "secret"
	cfg.Hubstaff.AppToken = "app"
	cfg.Hubstaff.Timeout = 5 * time.Second

	a, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	a.Now = func() time.Time { return time.Date(2024, 9, 3, 8, 0, 0, 0, time.Local) }
	return a
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHTTPServer_Healthz(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:0")
	rec := get(t, a.HTTPServer(":0").Handler, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTPServer_Report(t *testing.T) {
	upstream := newUpstream(t, true)
	a := newTestApp(t, upstream.URL)

	rec := get(t, a.HTTPServer(":0").Handler, "/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Hubstaff report 2024-09-02", "Acme", "Rocket", "Jane", "1:00:00"} {
		if !strings.Contains(body, want) {
			t.Errorf("report is missing %q", want)
		}
	}
}

func TestHTTPServer_ReportErrors(t *testing.T) {
	cases := []struct {
		name   string
		accept bool
		target string
		want   int
	}{
		{"invalid date", true, "/report?date_start=2024-13-40", http.StatusBadRequest},
		{"start after end", true, "/report?date_start=2024-09-03&date_end=2024-09-02", http.StatusBadRequest},
		{"rejected credentials", false, "/report?date_start=2024-09-02", http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			upstream := newUpstream(t, tc.accept)
			a := newTestApp(t, upstream.URL)
			rec := get(t, a.HTTPServer(":0").Handler, tc.target)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHTTPServer_MethodNotAllowed(t *testing.T) {
	a := newTestApp(t, "http://127.0.0.1:0")
	rec := httptest.NewRecorder()
	a.HTTPServer(":0").Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/report", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
