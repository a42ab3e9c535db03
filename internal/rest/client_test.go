package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		URL:     server.URL,
		APIKey:  "test-key",
		Session: Session{ProjectID: 119, ProjectName: "demo"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestDoSetsAuthHeader(t *testing.T) {
	var gotAuth, gotAccept string
	r := chi.NewRouter()
	r.Get("/hopsworks-api/api/variables/{name}", func(w http.ResponseWriter, req *http.Request) {
		gotAuth = req.Header.Get("Authorization")
		gotAccept = req.Header.Get("Accept")
		w.Write([]byte(`{"successMessage":"ok"}`))
	})
	client, _ := newTestClient(t, r)

	var out struct {
		SuccessMessage string `json:"successMessage"`
	}
	err := client.DoJSON(context.Background(), Request{
		Method: http.MethodGet,
		Path:   []string{"variables", "service_discovery_domain"},
	}, &out)
	if err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if gotAuth != "ApiKey test-key" {
		t.Errorf("authorization = %q, want ApiKey test-key", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
	if out.SuccessMessage != "ok" {
		t.Errorf("decoded message = %q", out.SuccessMessage)
	}
}

func TestDoEscapesPathSegments(t *testing.T) {
	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.EscapedPath()
		w.Write([]byte(`{}`))
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   []string{"project", "119", "models", "fraud model_1"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	want := "/hopsworks-api/api/project/119/models/fraud%20model_1"
	if gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestDoRejectsEmptySegment(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: []string{"project", ""}})
	if err == nil {
		t.Fatal("empty path segment should fail before any request is sent")
	}
}

func TestDoParsesErrorEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/hopsworks-api/api/project/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorCode":120004,"errorMsg":"Feature store not found","usrMsg":"check the id"}`))
	})
	client, _ := newTestClient(t, r)

	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: []string{"project", "0"}})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.ErrorCode != 120004 {
		t.Errorf("error code = %d", apiErr.ErrorCode)
	}
	if apiErr.UserMsg != "check the id" {
		t.Errorf("user msg = %q", apiErr.UserMsg)
	}
	if IsNotFound(err) {
		t.Error("400 must not be not-found")
	}
}

func TestDoNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: []string{"nope"}})
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
}

func TestDoSendsBodyWithContentType(t *testing.T) {
	var gotContentType, gotBody string
	r := chi.NewRouter()
	r.Put("/hopsworks-api/api/models/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotContentType = req.Header.Get("Content-Type")
		buf, _ := io.ReadAll(req.Body)
		gotBody = string(buf)
		w.Write([]byte(`{}`))
	})
	client, _ := newTestClient(t, r)

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   []string{"models", "fraud_1"},
		Body:   []byte(`{"name":"fraud"}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody != `{"name":"fraud"}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDoExtraHeaders(t *testing.T) {
	var gotHeader string
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotHeader = req.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    []string{"elastic", "jwt", "119"},
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotHeader != "application/json" {
		t.Errorf("header = %q", gotHeader)
	}
}

func TestNewValidatesURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("missing url should fail")
	}
	if _, err := New(Config{URL: "demo.hopsworks.ai"}); err == nil {
		t.Error("url without scheme should fail")
	}
}
