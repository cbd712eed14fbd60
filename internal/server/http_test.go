package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

func TestClientStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, yerrors.ErrInvalidLoginPassword},
		{http.StatusNotFound, yerrors.ErrNotFound},
		{http.StatusInternalServerError, yerrors.ErrRemoteRejected},
		{http.StatusBadRequest, yerrors.ErrRemoteRejected},
	}

	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))

		client, err := NewClient(srv.URL, srv.Client())
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if _, err := client.FetchFolder(context.Background(), "some-id"); !errors.Is(err, c.want) {
			t.Errorf("Status %d: expected %v, got: %v", c.status, c.want, err)
		}
		srv.Close()
	}
}

func TestClientSessionToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/account/signup":
			w.Header().Set("X-Session-Token", "session-abc")
			w.WriteHeader(http.StatusOK)
		case "/api/vault/folders/root-id":
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(FolderListing{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if err := client.Signup(context.Background(), Account{Identifier: "user@example.com"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if _, err := client.FetchFolder(context.Background(), "root-id"); err != nil {
		t.Fatalf("FetchFolder failed: %v", err)
	}

	if gotAuth != "Bearer session-abc" {
		t.Errorf("Expected the session token on later requests, got Authorization %q", gotAuth)
	}
}

func TestClientChunkRoundTrip(t *testing.T) {
	stored := make(map[string][]byte)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/vault/uploads":
			json.NewEncoder(w).Encode(map[string]string{"id": "up-1"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/vault/uploads/up-1/chunks/1":
			data, _ := io.ReadAll(r.Body)
			stored["1"] = data
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/api/vault/items/up-1/chunks/1":
			w.Write(stored["1"])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	ctx := context.Background()

	id, err := client.InitUpload(ctx, UploadMetadata{Name: "obj", Chunks: 1})
	if err != nil {
		t.Fatalf("InitUpload failed: %v", err)
	}
	if id != "up-1" {
		t.Errorf("Expected upload id %q, got %q", "up-1", id)
	}

	payload := []byte("opaque ciphertext bytes")
	if err := client.UploadChunk(ctx, id, 1, payload); err != nil {
		t.Fatalf("UploadChunk failed: %v", err)
	}

	got, err := client.DownloadChunk(ctx, id, 1)
	if err != nil {
		t.Fatalf("DownloadChunk failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Chunk round trip through the HTTP client mutated the bytes")
	}
}

func TestClientRejectsInvalidURL(t *testing.T) {
	if _, err := NewClient("://not a url", nil); err == nil {
		t.Error("Expected an error for an invalid base URL")
	}
}
