package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	yerrors "github.com/skynet-05/yeetfile-sub000/internal/errors"
)

// Client talks to a yeetfile server over HTTP. It performs no automatic
// retries: a failed metadata, chunk, or grant call surfaces immediately
// so the caller decides whether and what to retry.
type Client struct {
	base *url.URL
	http *http.Client

	// session token returned by signup/login, sent on every request.
	token string
}

// NewClient builds a Client for the given base URL, e.g.
// "https://yeetfile.example.com". A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}, nil
}

func (c *Client) Signup(ctx context.Context, account Account) error {
	return c.postJSON(ctx, "/api/account/signup", account, nil)
}

func (c *Client) Login(ctx context.Context, identifier string, verifier []byte) (*Account, error) {
	req := Account{Identifier: identifier, Verifier: verifier}
	var out Account
	if err := c.postJSON(ctx, "/api/account/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFolder(ctx context.Context, folder VaultFolder) (string, error) {
	var out VaultFolder
	if err := c.postJSON(ctx, "/api/vault/folders", folder, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) FetchFolder(ctx context.Context, folderID string) (*FolderListing, error) {
	var out FolderListing
	if err := c.getJSON(ctx, "/api/vault/folders/"+url.PathEscape(folderID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameFolder(ctx context.Context, folderID, name string) error {
	body := map[string]string{"name": name}
	return c.doJSON(ctx, http.MethodPut, "/api/vault/folders/"+url.PathEscape(folderID), body, nil)
}

func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/vault/folders/"+url.PathEscape(folderID), nil, nil)
}

func (c *Client) InitUpload(ctx context.Context, meta UploadMetadata) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/vault/uploads", meta, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) UploadChunk(ctx context.Context, transferID string, index int, data []byte) error {
	path := "/api/vault/uploads/" + url.PathEscape(transferID) + "/chunks/" + strconv.Itoa(index)
	return c.doBinary(ctx, http.MethodPost, path, data)
}

func (c *Client) DownloadChunk(ctx context.Context, itemID string, index int) ([]byte, error) {
	path := "/api/vault/items/" + url.PathEscape(itemID) + "/chunks/" + strconv.Itoa(index)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chunk download failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/vault/items/"+url.PathEscape(itemID), nil, nil)
}

func (c *Client) CreateGrant(ctx context.Context, grant ShareGrant) (string, error) {
	var out ShareGrant
	if err := c.postJSON(ctx, "/api/share", grant, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) UpdateGrant(ctx context.Context, grantID string, canModify bool) error {
	body := map[string]bool{"canModify": canModify}
	return c.doJSON(ctx, http.MethodPut, "/api/share/"+url.PathEscape(grantID), body, nil)
}

func (c *Client) DeleteGrant(ctx context.Context, grantID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/share/"+url.PathEscape(grantID), nil, nil)
}

func (c *Client) PublicKey(ctx context.Context, identifier string) ([]byte, error) {
	var out struct {
		PublicKey []byte `json:"publicKey"`
	}
	path := "/api/account/pubkey?id=" + url.QueryEscape(identifier)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.PublicKey, nil
}

func (c *Client) InitSend(ctx context.Context, meta SendMetadata) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/send", meta, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) FetchSend(ctx context.Context, sendID string) (*SendMetadata, error) {
	var out SendMetadata
	if err := c.getJSON(ctx, "/api/send/"+url.PathEscape(sendID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	// Capture a refreshed session token if the server rotated it.
	if token := resp.Header.Get("X-Session-Token"); token != "" {
		c.token = token
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) doBinary(ctx context.Context, method, path string, data []byte) error {
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(data), "application/octet-stream")
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// checkStatus maps server responses to the error taxonomy. 401 on login
// means the verifier was wrong, which is a wrong password from the user's
// perspective, not a server fault.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return yerrors.ErrInvalidLoginPassword
	case resp.StatusCode == http.StatusNotFound:
		return yerrors.ErrNotFound
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s: %s", yerrors.ErrRemoteRejected, resp.Status, strings.TrimSpace(string(detail)))
	}
}

var _ Remote = (*Client)(nil)
