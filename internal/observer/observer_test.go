package observer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questor-ai/questor/internal/observer"
)

func TestEmitPostsSignedPayload(t *testing.T) {
	var gotBody []byte
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := observer.New(srv.URL, "s3cret", nil)
	e.Client = srv.Client()
	e.Emit(context.Background(), observer.EventStart, map[string]string{"task": "What is X"})

	var decoded struct {
		Type      string         `json:"type"`
		Data      map[string]any `json:"data"`
		Timestamp string         `json:"timestamp"`
	}
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("payload not JSON: %v\n%s", err, gotBody)
	}
	if decoded.Type != "start" || decoded.Data["task"] != "What is X" || decoded.Timestamp == "" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
	if !observer.VerifySignature(gotBody, gotSig, "s3cret") {
		t.Fatalf("signature does not verify: %s", gotSig)
	}
	if observer.VerifySignature(gotBody, gotSig, "other") {
		t.Fatal("signature verified with wrong secret")
	}
}

func TestEmitSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	e := observer.New(srv.URL, "", nil)
	e.Client = srv.Client()
	// Must not panic or error out.
	e.Emit(context.Background(), observer.EventError, map[string]string{"error": "x"})
}

func TestEmitNoURLIsNoop(t *testing.T) {
	e := observer.New("", "", nil)
	e.Emit(context.Background(), observer.EventComplete, nil)
}

func TestEmitUnreachableHostIsSwallowed(t *testing.T) {
	e := observer.New("http://127.0.0.1:1/callback", "", nil)
	e.Emit(context.Background(), observer.EventIteration, nil)
}
