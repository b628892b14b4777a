package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func recordingServer(t *testing.T, response string) (*httptest.Server, *map[string]any, *string) {
	t.Helper()
	var decoded map[string]any
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read request body: %v", err)
		}
		raw = string(body)
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		fmt.Fprint(w, response)
	}))
	return srv, &decoded, &raw
}

func TestSubmitStart(t *testing.T) {
	srv, got, _ := recordingServer(t, `{}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := c.SubmitStart(context.Background(), "42", "Alice", at, []string{"Staff"})
	if err != nil {
		t.Fatalf("SubmitStart() error = %v", err)
	}
	if res.Error {
		t.Errorf("Result.Error = true, want false")
	}

	req := *got
	if req["type"] != "start" {
		t.Errorf("type = %v, want start", req["type"])
	}
	if req["userId"] != "42" {
		t.Errorf("userId = %v, want 42", req["userId"])
	}
	if req["name"] != "Alice" {
		t.Errorf("name = %v, want Alice", req["name"])
	}
	if req["date"] != "2024-03-01T12:00:00Z" {
		t.Errorf("date = %v, want 2024-03-01T12:00:00Z", req["date"])
	}
	if req["start"] != req["date"] {
		t.Errorf("start = %v, want same as date %v", req["start"], req["date"])
	}
	wantDisplay := at.In(paris).Format(displayDateLayout)
	if req["displayDate"] != wantDisplay {
		t.Errorf("displayDate = %v, want %v", req["displayDate"], wantDisplay)
	}
	roles, ok := req["roles"].([]any)
	if !ok || !reflect.DeepEqual(roles, []any{"Staff"}) {
		t.Errorf("roles = %v, want [Staff]", req["roles"])
	}
}

func TestSubmitStartEmptyRoles(t *testing.T) {
	srv, _, raw := recordingServer(t, `{}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SubmitStart(context.Background(), "42", "Alice", time.Now(), nil); err != nil {
		t.Fatalf("SubmitStart() error = %v", err)
	}
	// The sheet expects the roles key even for a member with no roles.
	if !strings.Contains(*raw, `"roles":[]`) {
		t.Errorf("request body %q does not carry an empty roles array", *raw)
	}
}

func TestSubmitEnd(t *testing.T) {
	srv, got, raw := recordingServer(t, `{"hours":1,"salary":15}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	at := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)
	res, err := c.SubmitEnd(context.Background(), "42", "Alice", at)
	if err != nil {
		t.Fatalf("SubmitEnd() error = %v", err)
	}
	if res.Error {
		t.Errorf("Result.Error = true, want false")
	}
	if res.Hours != 1 {
		t.Errorf("Hours = %v, want 1", res.Hours)
	}
	if res.Salary != 15 {
		t.Errorf("Salary = %v, want 15", res.Salary)
	}

	req := *got
	if req["type"] != "end" {
		t.Errorf("type = %v, want end", req["type"])
	}
	if req["end"] != "2024-03-01T13:00:00Z" {
		t.Errorf("end = %v, want 2024-03-01T13:00:00Z", req["end"])
	}
	if strings.Contains(*raw, "roles") {
		t.Errorf("end request %q must not carry roles", *raw)
	}
}

func TestSubmitBusinessRejection(t *testing.T) {
	srv, _, _ := recordingServer(t, `{"error":true}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.SubmitStart(context.Background(), "42", "Alice", time.Now(), nil)
	if err != nil {
		t.Fatalf("SubmitStart() error = %v, a business rejection is not a transport error", err)
	}
	if !res.Error {
		t.Errorf("Result.Error = false, want true")
	}
}

func TestSubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SubmitEnd(context.Background(), "42", "Alice", time.Now()); err == nil {
		t.Errorf("SubmitEnd() against a dead server: expected error, got nil")
	}
}

func TestSubmitUnparseableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SubmitEnd(context.Background(), "42", "Alice", time.Now()); err == nil {
		t.Errorf("SubmitEnd() with unparseable response: expected error, got nil")
	}
}

func TestSubmitValidation(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SubmitStart(context.Background(), "", "Alice", time.Now(), nil); err == nil {
		t.Errorf("SubmitStart() without userID: expected error, got nil")
	}
	if _, err := c.SubmitStart(context.Background(), "42", "Alice", time.Time{}, nil); err == nil {
		t.Errorf("SubmitStart() with zero instant: expected error, got nil")
	}
	if _, err := c.SubmitEnd(context.Background(), "", "Alice", time.Now()); err == nil {
		t.Errorf("SubmitEnd() without userID: expected error, got nil")
	}
	if called {
		t.Errorf("invalid punches must not reach the record store")
	}
}
