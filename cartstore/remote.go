package cartstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"drerwrk/model"
)

// RemoteBackend drives the cart API with a bearer credential. Nothing is
// mutated optimistically: every write is confirmed server-side and the store
// re-reads afterwards.
type RemoteBackend struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRemoteBackend(baseURL, token string) *RemoteBackend {
	return &RemoteBackend{baseURL: baseURL, token: token, client: http.DefaultClient}
}

func (b *RemoteBackend) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func (b *RemoteBackend) Load() ([]model.CartLine, error) {
	lines := []model.CartLine{}
	if err := b.do(http.MethodGet, "/api/cart", nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (b *RemoteBackend) Add(line model.CartLine) error {
	return b.do(http.MethodPost, "/api/cart", map[string]interface{}{"item": line}, nil)
}

func (b *RemoteBackend) SetQuantity(ref model.ItemRef, quantity int) error {
	return b.do(http.MethodPut, "/api/cart/"+url.PathEscape(ref.String()),
		map[string]int{"quantity": quantity}, nil)
}

func (b *RemoteBackend) Remove(ref model.ItemRef) error {
	return b.do(http.MethodDelete, "/api/cart/"+url.PathEscape(ref.String()), nil, nil)
}

func (b *RemoteBackend) Clear() error {
	return b.do(http.MethodDelete, "/api/cart", nil, nil)
}

// Sync submits the guest snapshot for the login-time max-wins merge and
// reports how many lines the server could not apply.
func (b *RemoteBackend) Sync(lines []model.CartLine) (int, error) {
	var result struct {
		Message       string `json:"message"`
		FailedCatalog int    `json:"failedCatalog"`
		FailedVirtual int    `json:"failedVirtual"`
	}
	err := b.do(http.MethodPost, "/api/cart/sync", model.SyncRequest{LocalCart: lines}, &result)
	if err != nil {
		return 0, err
	}
	return result.FailedCatalog + result.FailedVirtual, nil
}
