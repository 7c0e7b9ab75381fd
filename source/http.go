package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-category-cache/category"
)

const (
	// DefaultHTTPTimeout bounds a single upstream request.
	DefaultHTTPTimeout = 10 * time.Second

	// RequestIDHeader carries a fresh id on every upstream request.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 8 << 20
)

// HTTP fetches the category list from a JSON endpoint. The payload may be a
// bare array or an object with the array under "data".
type HTTP struct {
	url    string
	client *http.Client
	header http.Header
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) {
		h.header.Add(key, value)
	}
}

// NewHTTP creates an HTTP source for url.
func NewHTTP(url string, opts ...HTTPOption) (*HTTP, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, goerrors.New("category source url is required", goerrors.CategoryValidation).
			WithTextCode("SOURCE_URL_REQUIRED")
	}

	h := &HTTP{
		url:    url,
		client: &http.Client{Timeout: DefaultHTTPTimeout},
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// FetchCategories performs one GET request and decodes the payload.
func (h *HTTP) FetchCategories(ctx context.Context) ([]category.WireRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "build category request")
	}
	for key, values := range h.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "request categories")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "read category response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerrors.New(
			fmt.Sprintf("category endpoint returned %d", resp.StatusCode),
			goerrors.CategoryExternal,
		).WithTextCode("SOURCE_BAD_STATUS")
	}

	return decodePayload(body)
}

func decodePayload(body []byte) ([]category.WireRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, goerrors.New("empty category response", goerrors.CategoryExternal).
			WithTextCode("SOURCE_EMPTY_BODY")
	}

	var records []category.WireRecord
	if body[0] == '[' {
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "decode category list")
		}
		return records, nil
	}

	var envelope struct {
		Data []category.WireRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "decode category envelope")
	}
	if envelope.Data == nil {
		return nil, goerrors.New("category response has no data", goerrors.CategoryExternal).
			WithTextCode("SOURCE_NO_DATA")
	}
	return envelope.Data, nil
}
