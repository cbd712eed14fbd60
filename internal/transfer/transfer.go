package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/skynet-05/yeetfile-sub000/internal/crypto"
	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
	"github.com/skynet-05/yeetfile-sub000/internal/server"
)

const (
	// ChunkSize is the fixed plaintext chunk size for vault transfers.
	// Interoperability constant: chunk boundaries are part of the stored
	// object layout.
	ChunkSize = 10_000_000

	// MaxConcurrentChunks bounds how many chunk uploads are in flight at
	// once within a single transfer.
	MaxConcurrentChunks = 3

	// MaxPreviewChunks bounds the whole-object preview path. Larger
	// objects must be streamed to a sink instead of held in memory.
	MaxPreviewChunks = 5
)

// State tracks a transfer through its lifecycle.
type State int

const (
	Idle State = iota
	MetadataSubmitted
	Transferring
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case MetadataSubmitted:
		return "metadata-submitted"
	case Transferring:
		return "transferring"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChunkCount returns how many chunks a plaintext of the given size
// occupies. Empty objects still occupy one (empty) chunk so the server
// has a final index to finalize on.
func ChunkCount(size int64) int {
	if size <= 0 {
		return 1
	}
	return int((size + ChunkSize - 1) / ChunkSize)
}

// Transfer is one upload or download in progress. State transitions are
// Idle -> MetadataSubmitted -> Transferring -> Complete | Failed.
type Transfer struct {
	mu    sync.Mutex
	id    string
	state State
}

// ID returns the server-assigned transfer id, empty until metadata
// submission succeeds.
func (t *Transfer) ID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// State returns the transfer's current state.
func (t *Transfer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transfer) set(state State) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

func (t *Transfer) setID(id string) {
	t.mu.Lock()
	t.id = id
	t.mu.Unlock()
}

// Engine moves encrypted chunks between the client and the server. It
// holds no key state of its own: every call takes the resolved content
// key from the caller.
type Engine struct {
	remote server.Remote
}

// New returns an Engine backed by the given server.
func New(remote server.Remote) *Engine {
	return &Engine{remote: remote}
}

// Upload splits src into fixed-size chunks, encrypts each independently
// under key with a fresh nonce, and uploads them tagged with 1-based
// indices. Metadata is submitted first and must succeed before any chunk
// moves. Up to MaxConcurrentChunks chunks are in flight at once, except
// that the final chunk is held back until every prior chunk is
// acknowledged, because the server finalizes the object on the last
// index. Any chunk failure fails the whole transfer; there is no resume.
//
// meta.Chunks and meta.Size are filled in from size. Cancellation is
// honored between chunks; an in-flight encryption runs to completion.
func (e *Engine) Upload(ctx context.Context, meta server.UploadMetadata, key []byte, src io.Reader, size int64) (*Transfer, error) {
	t := &Transfer{state: Idle}

	meta.Chunks = ChunkCount(size)
	meta.Size = size

	id, err := e.remote.InitUpload(ctx, meta)
	if err != nil {
		t.set(Failed)
		return t, fmt.Errorf("submitting upload metadata: %w", err)
	}
	t.setID(id)
	t.set(MetadataSubmitted)

	upload := func(ctx context.Context, index int, data []byte) error {
		return e.remote.UploadChunk(ctx, id, index, data)
	}
	if err := e.sendChunks(ctx, t, key, src, size, meta.Chunks, upload); err != nil {
		t.set(Failed)
		return t, err
	}

	t.set(Complete)
	return t, nil
}

// UploadSend is the account-free variant: same chunk pipeline, different
// metadata endpoint and a key derived out of band.
func (e *Engine) UploadSend(ctx context.Context, meta server.SendMetadata, key []byte, src io.Reader, size int64) (*Transfer, error) {
	t := &Transfer{state: Idle}

	meta.Chunks = ChunkCount(size)
	meta.Size = size

	id, err := e.remote.InitSend(ctx, meta)
	if err != nil {
		t.set(Failed)
		return t, fmt.Errorf("submitting send metadata: %w", err)
	}
	t.setID(id)
	t.set(MetadataSubmitted)

	upload := func(ctx context.Context, index int, data []byte) error {
		return e.remote.UploadChunk(ctx, id, index, data)
	}
	if err := e.sendChunks(ctx, t, key, src, size, meta.Chunks, upload); err != nil {
		t.set(Failed)
		return t, err
	}

	t.set(Complete)
	return t, nil
}

type chunkUploadFunc func(ctx context.Context, index int, data []byte) error

func (e *Engine) sendChunks(ctx context.Context, t *Transfer, key []byte, src io.Reader, size int64, chunks int, upload chunkUploadFunc) error {
	t.set(Transferring)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentChunks)

	remaining := size
	for index := 1; index < chunks; index++ {
		if err := gctx.Err(); err != nil {
			// Drain in-flight uploads before reporting; their error wins
			// over the bare cancellation if the group already failed.
			if gerr := g.Wait(); gerr != nil {
				return gerr
			}
			return abortErr(ctx, err)
		}

		encrypted, err := readAndEncryptChunk(key, src, ChunkSize)
		if err != nil {
			_ = g.Wait()
			return err
		}
		remaining -= ChunkSize

		index := index
		g.Go(func() error {
			if err := upload(gctx, index, encrypted); err != nil {
				return fmt.Errorf("uploading chunk %d: %w", index, err)
			}
			return nil
		})
	}

	// All prior chunks must be acknowledged before the final index is
	// sent: the server finalizes the object on receipt of the last chunk.
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return abortErr(ctx, err)
	}

	encrypted, err := readAndEncryptChunk(key, src, remaining)
	if err != nil {
		return err
	}
	if err := upload(ctx, chunks, encrypted); err != nil {
		return fmt.Errorf("uploading final chunk %d: %w", chunks, err)
	}
	return nil
}

func readAndEncryptChunk(key []byte, src io.Reader, max int64) ([]byte, error) {
	if max < 0 {
		max = 0
	}
	if max > ChunkSize {
		max = ChunkSize
	}
	plaintext := make([]byte, max)
	n, err := io.ReadFull(src, plaintext)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading chunk: %w", err)
	}
	return crypto.Encrypt(key, plaintext[:n])
}

// Download fetches chunks strictly in order starting at index 1,
// decrypting each and writing it to dst before requesting the next.
// Sequential fetching preserves output ordering without buffering the
// whole object. A decryption failure aborts with ErrCorruptData and
// writes nothing for the failed chunk.
func (e *Engine) Download(ctx context.Context, itemID string, chunks int, key []byte, dst io.Writer) (*Transfer, error) {
	t := &Transfer{id: itemID, state: Transferring}

	for index := 1; index <= chunks; index++ {
		if err := ctx.Err(); err != nil {
			t.set(Failed)
			return t, abortErr(ctx, err)
		}

		data, err := e.remote.DownloadChunk(ctx, itemID, index)
		if err != nil {
			t.set(Failed)
			return t, fmt.Errorf("fetching chunk %d: %w", index, err)
		}

		plaintext, err := crypto.Decrypt(key, data)
		if err != nil {
			t.set(Failed)
			return t, fmt.Errorf("chunk %d: %w", index, err)
		}
		if _, err := dst.Write(plaintext); err != nil {
			t.set(Failed)
			return t, fmt.Errorf("writing chunk %d: %w", index, err)
		}
	}

	t.set(Complete)
	return t, nil
}

// Preview fetches and decrypts a small object entirely in memory, for
// rendering without a sink. Objects above MaxPreviewChunks must use
// Download instead.
func (e *Engine) Preview(ctx context.Context, itemID string, chunks int, key []byte) ([]byte, error) {
	if chunks > MaxPreviewChunks {
		return nil, fmt.Errorf("object has %d chunks, preview is limited to %d", chunks, MaxPreviewChunks)
	}

	var buf preallocBuffer
	if _, err := e.Download(ctx, itemID, chunks, key, &buf); err != nil {
		return nil, err
	}
	return buf.data, nil
}

func abortErr(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %v", yerrors.ErrTransferAborted, err)
	}
	return err
}

type preallocBuffer struct {
	data []byte
}

func (b *preallocBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
