package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := WithToken(context.Background(), "tok123")
	if err := c.Get(ctx, "admin/consultations", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "Bearer tok123")
	}
}

func TestErrorNormalization(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "message field", status: 422, body: `{"message":"slot already taken"}`, wantMsg: "slot already taken"},
		{name: "error field", status: 404, body: `{"error":"not found"}`, wantMsg: "not found"},
		{name: "message wins over error", status: 400, body: `{"message":"first","error":"second"}`, wantMsg: "first"},
		{name: "no body", status: 500, body: ``, wantMsg: "backend returned status 500"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			err := New(srv.URL).Get(context.Background(), "x", nil, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != c.status {
				t.Fatalf("StatusCode = %d, want %d", apiErr.StatusCode, c.status)
			}
			if apiErr.Error() != c.wantMsg {
				t.Fatalf("Error() = %q, want %q", apiErr.Error(), c.wantMsg)
			}
			if apiErr.Transport() {
				t.Fatal("HTTP error should not report as transport failure")
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	// closed server, connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := New(srv.URL).Get(context.Background(), "x", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if !apiErr.Transport() {
		t.Fatal("expected transport failure")
	}
}

func TestMultipartUpload(t *testing.T) {
	var gotField, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Error(err)
		}
		gotField = r.FormValue("slot_date")
		if fhs := r.MultipartForm.File["pathology_reports[]"]; len(fhs) == 1 {
			gotFile = fhs[0].Filename
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	fields := url.Values{"slot_date": {"2025-04-10"}}
	files := []FileUpload{{Field: "pathology_reports[]", Name: "report.pdf", Content: []byte("pdf")}}
	if err := New(srv.URL).PostMultipart(context.Background(), "patients/appointments", fields, files, nil); err != nil {
		t.Fatal(err)
	}
	if gotField != "2025-04-10" {
		t.Fatalf("slot_date = %q", gotField)
	}
	if gotFile != "report.pdf" {
		t.Fatalf("file name = %q", gotFile)
	}
}
