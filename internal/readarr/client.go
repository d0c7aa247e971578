// Package readarr is a typed client for the Readarr v1 HTTP API.
package readarr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mkaschner/lectern/internal/config"
)

// Client communicates with a Readarr server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// New creates a Readarr client. The underlying HTTP client carries no
// timeout; callers bound requests through their context.
func New(cfg config.ReadarrConfig, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg.URL, cfg.APIKey, &http.Client{}, logger)
}

// NewWithHTTPClient creates a Readarr client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With(slog.String("integration", "readarr")),
	}
}

// SystemStatus verifies connectivity by calling GET /api/v1/system/status.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var status SystemStatus
	if err := c.get(ctx, "/api/v1/system/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Lookup searches the remote catalog for books matching term.
func (c *Client) Lookup(ctx context.Context, term string) ([]Book, error) {
	var books []Book
	path := "/api/v1/book/lookup?term=" + url.QueryEscape(term)
	if err := c.get(ctx, path, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBooks returns the full Readarr book list.
func (c *Client) GetBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.get(ctx, "/api/v1/book", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook returns a single book by Readarr ID.
func (c *Client) GetBook(ctx context.Context, id int) (*Book, error) {
	var book Book
	if err := c.get(ctx, fmt.Sprintf("/api/v1/book/%d", id), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// AddBook submits an assembled payload to POST /api/v1/book and returns the
// created book record.
func (c *Client) AddBook(ctx context.Context, payload *BookPayload) (*Book, error) {
	var book Book
	if err := c.post(ctx, "/api/v1/book", payload, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// LookupAuthors searches the remote catalog for authors matching term.
func (c *Client) LookupAuthors(ctx context.Context, term string) ([]Author, error) {
	var authors []Author
	path := "/api/v1/author/lookup?term=" + url.QueryEscape(term)
	if err := c.get(ctx, path, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// GetQualityProfiles returns all configured quality profiles.
func (c *Client) GetQualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := c.get(ctx, "/api/v1/qualityprofile", &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetRootFolders returns all configured root folders.
func (c *Client) GetRootFolders(ctx context.Context) ([]RootFolder, error) {
	var folders []RootFolder
	if err := c.get(ctx, "/api/v1/rootfolder", &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// GetBookFiles returns the file records Readarr holds for a book.
func (c *Client) GetBookFiles(ctx context.Context, bookID int) ([]BookFile, error) {
	var files []BookFile
	if err := c.get(ctx, fmt.Sprintf("/api/v1/bookfile?bookId=%d", bookID), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// RefreshAuthor triggers a metadata refresh for an author. The refresh runs
// asynchronously on the Readarr side.
func (c *Client) RefreshAuthor(ctx context.Context, authorID int) (*CommandResponse, error) {
	cmd := CommandBody{Name: "RefreshAuthor", AuthorID: authorID}
	var resp CommandResponse
	if err := c.post(ctx, "/api/v1/command", cmd, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchBooks triggers a single batched acquisition search for the given books.
func (c *Client) SearchBooks(ctx context.Context, bookIDs []int) (*CommandResponse, error) {
	cmd := CommandBody{Name: "BookSearch", BookIDs: bookIDs}
	var resp CommandResponse
	if err := c.post(ctx, "/api/v1/command", cmd, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetQueue returns the download queue with book records included.
func (c *Client) GetQueue(ctx context.Context) (*Queue, error) {
	var queue Queue
	if err := c.get(ctx, "/api/v1/queue?includeBook=true", &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), result)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("failed to connect to readarr: %v", err)}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &Error{Message: fmt.Sprintf("decoding response: %v", err)}
		}
	}
	return nil
}

// apiError extracts an application error from a non-success response. Readarr
// error bodies usually carry a message field; fall back to the status text.
func (c *Client) apiError(resp *http.Response) *Error {
	message := http.StatusText(resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err == nil && len(raw) > 0 {
		var body struct {
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(raw, &body); jsonErr == nil && body.Message != "" {
			message = body.Message
		} else {
			var s string
			if jsonErr := json.Unmarshal(raw, &s); jsonErr == nil && s != "" {
				message = s
			}
		}
		c.logger.Debug("readarr error response",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
	}

	return &Error{Message: message, Status: resp.StatusCode}
}
