package transfer

import (
	"bytes"
	"context"
	"errors"
	mathrand "math/rand"
	"testing"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	return key
}

// testPayload returns size deterministic pseudo-random bytes.
func testPayload(size int) []byte {
	data := make([]byte, size)
	mathrand.New(mathrand.NewSource(42)).Read(data)
	return data
}

func uploadedItem(t *testing.T, remote *server.Memory, itemID string) server.VaultItem {
	t.Helper()
	listing, err := remote.FetchFolder(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchFolder failed: %v", err)
	}
	for _, item := range listing.Items {
		if item.ID == itemID {
			return item
		}
	}
	t.Fatalf("Item %s not found after upload", itemID)
	return server.VaultItem{}
}

func TestChunkCount(t *testing.T) {
	cases := []struct {
		size int64
		want int
	}{
		{0, 1},
		{1, 1},
		{ChunkSize - 1, 1},
		{ChunkSize, 1},
		{ChunkSize + 1, 2},
		{25_000_000, 3},
		{3 * ChunkSize, 3},
	}
	for _, c := range cases {
		if got := ChunkCount(c.size); got != c.want {
			t.Errorf("ChunkCount(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	// Three chunks: two full, one partial.
	payload := testPayload(25_000_000)

	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "payload"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if transfer.State() != Complete {
		t.Errorf("Expected state %v, got %v", Complete, transfer.State())
	}

	item := uploadedItem(t, remote, transfer.ID())
	if item.Chunks != 3 {
		t.Errorf("Expected 3 chunks, got %d", item.Chunks)
	}
	if item.Size != int64(len(payload)) {
		t.Errorf("Expected size %d, got %d", len(payload), item.Size)
	}

	var out bytes.Buffer
	down, err := engine.Download(context.Background(), item.ID, item.Chunks, key, &out)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if down.State() != Complete {
		t.Errorf("Expected state %v, got %v", Complete, down.State())
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("Downloaded object is not byte-identical to the upload")
	}
}

func TestUploadEmptyObject(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "empty"}, key, bytes.NewReader(nil), 0)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	item := uploadedItem(t, remote, transfer.ID())
	if item.Chunks != 1 {
		t.Errorf("Expected an empty object to occupy 1 chunk, got %d", item.Chunks)
	}

	var out bytes.Buffer
	if _, err := engine.Download(context.Background(), item.ID, item.Chunks, key, &out); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected empty download, got %d bytes", out.Len())
	}
}

func TestChunkBoundaryExactMultiple(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	payload := testPayload(2 * ChunkSize)

	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "exact"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	item := uploadedItem(t, remote, transfer.ID())
	if item.Chunks != 2 {
		t.Errorf("Expected 2 chunks for an exact multiple, got %d", item.Chunks)
	}

	var out bytes.Buffer
	if _, err := engine.Download(context.Background(), item.ID, item.Chunks, key, &out); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("Downloaded object is not byte-identical to the upload")
	}
}

func TestDownloadTamperedChunkAborts(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	payload := testPayload(25_000_000)
	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "payload"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	remote.TamperChunk(transfer.ID(), 2)

	var out bytes.Buffer
	down, err := engine.Download(context.Background(), transfer.ID(), 3, key, &out)
	if !errors.Is(err, yerrors.ErrCorruptData) {
		t.Fatalf("Expected ErrCorruptData, got: %v", err)
	}
	if down.State() != Failed {
		t.Errorf("Expected state %v, got %v", Failed, down.State())
	}
	// Chunk 1 was intact and may have been written; the tampered chunk
	// must not have contributed any bytes.
	if out.Len() > ChunkSize {
		t.Errorf("Tampered chunk leaked output: %d bytes written", out.Len())
	}
}

func TestDownloadWithWrongKeyAborts(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	payload := testPayload(1024)
	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "payload"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	var out bytes.Buffer
	if _, err := engine.Download(context.Background(), transfer.ID(), 1, testKey(t), &out); !errors.Is(err, yerrors.ErrCorruptData) {
		t.Errorf("Expected ErrCorruptData with wrong key, got: %v", err)
	}
}

func TestUploadCancellation(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := testPayload(25_000_000)
	transfer, err := engine.Upload(ctx, server.UploadMetadata{Name: "payload"}, key, bytes.NewReader(payload), int64(len(payload)))
	if !errors.Is(err, yerrors.ErrTransferAborted) {
		t.Fatalf("Expected ErrTransferAborted, got: %v", err)
	}
	if transfer.State() != Failed {
		t.Errorf("Expected state %v, got %v", Failed, transfer.State())
	}
}

func TestDownloadCancellation(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	payload := testPayload(1024)
	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "payload"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if _, err := engine.Download(ctx, transfer.ID(), 1, key, &out); !errors.Is(err, yerrors.ErrTransferAborted) {
		t.Errorf("Expected ErrTransferAborted, got: %v", err)
	}
}

func TestPreview(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	payload := testPayload(4096)
	transfer, err := engine.Upload(context.Background(), server.UploadMetadata{Name: "small"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	got, err := engine.Preview(context.Background(), transfer.ID(), 1, key)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Preview did not reproduce the payload")
	}
}

func TestPreviewRejectsLargeObjects(t *testing.T) {
	engine := New(server.NewMemory())
	if _, err := engine.Preview(context.Background(), "any", MaxPreviewChunks+1, testKey(t)); err == nil {
		t.Error("Expected preview of an oversized object to be rejected")
	}
}

func TestUploadSendRoundTrip(t *testing.T) {
	remote := server.NewMemory()
	engine := New(remote)
	key := testKey(t)

	payload := testPayload(2048)
	transfer, err := engine.UploadSend(context.Background(), server.SendMetadata{Name: "sent"}, key, bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("UploadSend failed: %v", err)
	}

	meta, err := remote.FetchSend(context.Background(), transfer.ID())
	if err != nil {
		t.Fatalf("FetchSend failed: %v", err)
	}
	if meta.Chunks != 1 {
		t.Errorf("Expected 1 chunk, got %d", meta.Chunks)
	}

	var out bytes.Buffer
	if _, err := engine.Download(context.Background(), transfer.ID(), meta.Chunks, key, &out); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !bytes.Equal(out.Bytes(), payload) {
		t.Error("Downloaded send is not byte-identical to the upload")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Idle:              "idle",
		MetadataSubmitted: "metadata-submitted",
		Transferring:      "transferring",
		Complete:          "complete",
		Failed:            "failed",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
