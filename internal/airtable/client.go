// Package airtable is a minimal REST client for the record store that
// owns every entity in the system. Records come back as loosely typed
// field bags; the accessor helpers on Record implement the dual-key
// probing the legacy base requires (old and new field names coexist in
// stored data, so callers must never assume a single canonical key).
package airtable

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
	"time"
)

const (
	// DefaultBaseURL is the record API root.
	DefaultBaseURL = "https://api.airtable.com/v0"
	// DefaultContentURL is the root for attachment uploads, which go
	// through a separate host.
	DefaultContentURL = "https://content.airtable.com/v0"

	defaultPageSize = 100
)

// Client talks to one base of the record store. Construct it once at
// startup and pass it to the repos; it is safe for concurrent use.
type Client struct {
	apiKey     string
	baseID     string
	baseURL    string
	contentURL string
	httpc      *http.Client
}

// Option tweaks a Client. Used by tests to point at a stub server.
type Option func(*Client)

// WithBaseURL overrides the record API root.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }

// WithContentURL overrides the attachment upload root.
func WithContentURL(u string) Option {
	return func(c *Client) { c.contentURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// NewClient builds a client for the given base.
func NewClient(apiKey, baseID string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseID:     baseID,
		baseURL:    DefaultBaseURL,
		contentURL: DefaultContentURL,
		httpc:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Record is one raw row: an id, the store's creation timestamp and an
// untyped field bag.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Sort orders a listing by one field.
type Sort struct {
	Field     string
	Direction string // "asc" or "desc"
}

// ListOptions narrow a List call. Zero value lists everything.
type ListOptions struct {
	// FilterByFormula is a formula in the store's query language.
	// Every dynamic string interpolated into it must have gone
	// through EscapeFormulaString.
	FilterByFormula string
	Sort            []Sort
	MaxRecords      int
	PageSize        int
	View            string
}

// Error is a non-2xx response from the store.
type Error struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

// IsNotFound reports whether err is the store's not-found condition.
func IsNotFound(err error) bool {
	ae, ok := err.(*Error)
	return ok && (ae.StatusCode == http.StatusNotFound || ae.Type == "NOT_FOUND")
}

// EscapeFormulaString escapes a value for interpolation inside a
// single-quoted formula literal. Backslashes must be doubled before
// quotes are escaped or the quote escapes themselves get mangled.
func EscapeFormulaString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// List fetches all records of a table matching opts, following the
// store's offset pagination until the listing is drained or MaxRecords
// is reached.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	q := url.Values{}
	if opts.FilterByFormula != "" {
		q.Set("filterByFormula", opts.FilterByFormula)
	}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			q.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
		}
	}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if opts.View != "" {
		q.Set("view", opts.View)
	}
	q.Set("pageSize", strconv.Itoa(pageSize))

	var all []Record
	offset := ""
	for {
		if offset != "" {
			q.Set("offset", offset)
		}
		u := c.tableURL(table) + "?" + q.Encode()

		var page listResponse
		if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			break
		}
		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			break
		}
		offset = page.Offset
	}
	if opts.MaxRecords > 0 && len(all) > opts.MaxRecords {
		all = all[:opts.MaxRecords]
	}
	return all, nil
}

// Get fetches one record by id. A not-found condition from the store
// is translated to (nil, nil); any other failure propagates.
func (c *Client) Get(ctx context.Context, table, id string) (*Record, error) {
	var rec Record
	err := c.do(ctx, http.MethodGet, c.tableURL(table)+"/"+url.PathEscape(id), nil, &rec)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Create inserts a record. No validation happens here; that is the
// caller's responsibility.
func (c *Client) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	var rec Record
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update patches the given fields of an existing record.
func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	var rec Record
	body := map[string]any{"fields": fields}
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table)+"/"+url.PathEscape(id), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table)+"/"+url.PathEscape(id), nil, nil)
}

// UploadAttachment attaches base64 file content to a field of an
// existing record. This is a secondary write: the owning record must
// already exist, and if this call fails the record remains without the
// attachment.
func (c *Client) UploadAttachment(ctx context.Context, recordID, field, base64Data, filename, contentType string) error {
	// Strip a data-URL prefix if the browser sent one.
	if i := strings.Index(base64Data, "base64,"); i >= 0 {
		base64Data = base64Data[i+len("base64,"):]
	}
	u := fmt.Sprintf("%s/%s/%s/%s/uploadAttachment",
		c.contentURL, c.baseID, url.PathEscape(recordID), url.PathEscape(field))
	body := map[string]any{
		"contentType": contentType,
		"file":        base64Data,
		"filename":    filename,
	}
	return c.do(ctx, http.MethodPost, u, body, nil)
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + c.baseID + "/" + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("airtable: encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	ae := &Error{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	// The store answers either {"error":{"type":...,"message":...}}
	// or {"error":"NOT_FOUND"}.
	var wrapped struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && len(wrapped.Error) > 0 {
		var detail struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if json.Unmarshal(wrapped.Error, &detail) == nil && detail.Type != "" {
			ae.Type = detail.Type
			ae.Message = detail.Message
			return ae
		}
		var s string
		if json.Unmarshal(wrapped.Error, &s) == nil {
			ae.Type = s
			return ae
		}
	}
	ae.Message = strings.TrimSpace(string(raw))
	return ae
}
