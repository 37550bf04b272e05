package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/billed-app/billed/internal/bill"
)

// HTTPStore talks to a remote bill store over its resource-oriented HTTP API
type HTTPStore struct {
	baseURL  string
	email    string
	username string
	password string
	client   *http.Client
}

// Option configures an HTTPStore
type Option func(*HTTPStore)

// WithBasicAuth sends basic auth credentials with every request
func WithBasicAuth(username, password string) Option {
	return func(s *HTTPStore) {
		s.username = username
		s.password = password
	}
}

// WithClient replaces the underlying HTTP client
func WithClient(client *http.Client) Option {
	return func(s *HTTPStore) {
		s.client = client
	}
}

// NewHTTP creates a store client for the API at baseURL
func NewHTTP(baseURL string, opts ...Option) *HTTPStore {
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the API base URL the store talks to
func (s *HTTPStore) BaseURL() string {
	return s.baseURL
}

// Scoped returns a copy of the store whose listings are restricted to the
// given owner email. The session binds here, not in the pipelines.
func (s *HTTPStore) Scoped(email string) *HTTPStore {
	scoped := *s
	scoped.email = email
	return &scoped
}

// Bills returns the bills collection accessor
func (s *HTTPStore) Bills() Bills {
	return &httpBills{store: s}
}

type httpBills struct {
	store *HTTPStore
}

func (b *httpBills) do(req *http.Request) (*http.Response, error) {
	s := b.store
	if s.username != "" || s.password != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling bill store: %w", err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, NewTransportError(resp.StatusCode)
	}
	return resp, nil
}

// List fetches the raw bill records of the collection
func (b *httpBills) List(ctx context.Context) ([]bill.Bill, error) {
	endpoint := b.store.baseURL + "/api/bills"
	if b.store.email != "" {
		endpoint += "?email=" + url.QueryEscape(b.store.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building list request: %w", err)
	}

	resp, err := b.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var bills []bill.Bill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		return nil, fmt.Errorf("decoding bill list: %w", err)
	}
	return bills, nil
}

// Create uploads a receipt as a multipart payload and opens a bill for it
func (b *httpBills) Create(ctx context.Context, createReq CreateRequest) (*CreateResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, createReq.FileName))
	header.Set("Content-Type", createReq.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("building multipart payload: %w", err)
	}
	if _, err := part.Write(createReq.Data); err != nil {
		return nil, fmt.Errorf("writing receipt data: %w", err)
	}
	if err := writer.WriteField("email", createReq.Email); err != nil {
		return nil, fmt.Errorf("writing email field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.store.baseURL+"/api/bills", body)
	if err != nil {
		return nil, fmt.Errorf("building create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result CreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding create response: %w", err)
	}
	return &result, nil
}

// Update submits the completed bill fields for an existing record
func (b *httpBills) Update(ctx context.Context, updateReq UpdateRequest) (*bill.Bill, error) {
	payload, err := json.Marshal(updateReq.Fields)
	if err != nil {
		return nil, fmt.Errorf("encoding bill update: %w", err)
	}

	endpoint := b.store.baseURL + "/api/bills/" + url.PathEscape(updateReq.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var updated bill.Bill
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("decoding updated bill: %w", err)
	}
	return &updated, nil
}
