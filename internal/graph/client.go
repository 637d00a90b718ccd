// Package graph is a small Microsoft Graph client for SharePoint document
// libraries. A Client is bound to one bearer access token for its lifetime;
// it never refreshes the token.
//
// Paths passed to the *ByPath methods must already be encoded with
// pathx.EncodePath. The client never encodes them again.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/pathx"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"
	DefaultTimeout = 60 * time.Second
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
	base    http.RoundTripper
}

// WithBaseURL points the client at another Graph endpoint (national clouds, tests).
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout bounds the wait for response headers. Body transfer is not
// bounded, so large uploads on slow links are not cut off.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// NewClient returns a client that sends accessToken as a bearer token.
func NewClient(accessToken string, opts ...Option) *Client {
	o := &options{baseURL: DefaultBaseURL, timeout: DefaultTimeout, base: http.DefaultTransport}
	for _, fn := range opts {
		fn(o)
	}

	base := o.base
	if t, ok := base.(*http.Transport); ok && o.timeout > 0 {
		t = t.Clone()
		t.ResponseHeaderTimeout = o.timeout
		base = t
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	return &Client{
		baseURL: o.baseURL,
		http: &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: base},
		},
	}
}

// Site ids are produced by Graph and used verbatim; they contain commas
// but never slashes.
func (c *Client) driveRoot(siteID string) string {
	return c.baseURL + "/sites/" + siteID + "/drive/root"
}

// Item ids arrive from callers, so they are escaped into a single segment.
func (c *Client) driveItem(siteID, itemID string) string {
	return c.baseURL + "/sites/" + siteID + "/drive/items/" + url.PathEscape(itemID)
}

// byPath addresses an item relative to the drive root; suffix is appended
// after the closing colon (e.g. "/children", "/content").
func (c *Client) byPath(siteID, encodedPath, suffix string) string {
	if encodedPath == "" {
		return c.driveRoot(siteID) + suffix
	}
	if suffix == "" {
		return c.driveRoot(siteID) + ":/" + encodedPath
	}
	return c.driveRoot(siteID) + ":/" + encodedPath + ":" + suffix
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("graph: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph: %s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("graph: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	e := &Error{StatusCode: resp.StatusCode}
	var body errorBody
	if b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && json.Unmarshal(b, &body) == nil {
		e.Code = body.Error.Code
		e.Message = body.Error.Message
	}
	return e
}

// getAll follows @odata.nextLink until the collection is exhausted.
func getAll[T any](ctx context.Context, c *Client, rawURL string) ([]T, error) {
	var out []T
	for next := rawURL; next != ""; {
		var page collection[T]
		if err := c.do(ctx, http.MethodGet, next, nil, "", &page); err != nil {
			return nil, err
		}
		out = append(out, page.Value...)
		next = page.NextLink
	}
	return out, nil
}

// SearchSites finds sites whose name matches query.
func (c *Client) SearchSites(ctx context.Context, query string) ([]Site, error) {
	q := url.Values{"search": {query}}
	return getAll[Site](ctx, c, c.baseURL+"/sites?"+q.Encode())
}

// GetItemByPath fetches metadata for the item at encodedPath.
func (c *Client) GetItemByPath(ctx context.Context, siteID, encodedPath string) (*DriveItem, error) {
	var item DriveItem
	if err := c.do(ctx, http.MethodGet, c.byPath(siteID, encodedPath, ""), nil, "", &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateFolder creates name under encodedParent (the drive root when empty).
// On a name clash the store renames the new folder instead of failing.
func (c *Client) CreateFolder(ctx context.Context, siteID, encodedParent, name string) (*DriveItem, error) {
	payload, err := json.Marshal(createFolderRequest{Name: name, ConflictBehavior: "rename"})
	if err != nil {
		return nil, err
	}

	var item DriveItem
	err = c.do(ctx, http.MethodPost, c.byPath(siteID, encodedParent, "/children"), bytes.NewReader(payload), "application/json", &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PutContent creates (or replaces) the file at encodedPath with content.
// Simple upload; Graph caps it at 250 MB.
func (c *Client) PutContent(ctx context.Context, siteID, encodedPath string, content []byte) (*DriveItem, error) {
	var item DriveItem
	err := c.do(ctx, http.MethodPut, c.byPath(siteID, encodedPath, "/content"), bytes.NewReader(content), "application/octet-stream", &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem fetches an item by id.
func (c *Client) GetItem(ctx context.Context, siteID, itemID string) (*DriveItem, error) {
	var item DriveItem
	if err := c.do(ctx, http.MethodGet, c.driveItem(siteID, itemID), nil, "", &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetThumbnails lists the thumbnail sets of an item.
func (c *Client) GetThumbnails(ctx context.Context, siteID, itemID string) ([]ThumbnailSet, error) {
	return getAll[ThumbnailSet](ctx, c, c.driveItem(siteID, itemID)+"/thumbnails")
}

// ListChildrenByPath lists the children of the folder at encodedPath,
// thumbnails expanded.
func (c *Client) ListChildrenByPath(ctx context.Context, siteID, encodedPath string) ([]DriveItem, error) {
	return getAll[DriveItem](ctx, c, c.byPath(siteID, encodedPath, "/children")+"?$expand=thumbnails")
}

// ListChildren lists the children of a folder by id, thumbnails expanded.
func (c *Client) ListChildren(ctx context.Context, siteID, itemID string) ([]DriveItem, error) {
	return getAll[DriveItem](ctx, c, c.driveItem(siteID, itemID)+"/children?$expand=thumbnails")
}

// SearchItems runs the drive search below encodedFolder.
func (c *Client) SearchItems(ctx context.Context, siteID, encodedFolder, query string) ([]DriveItem, error) {
	q := pathx.EncodeSegment(strings.ReplaceAll(query, "'", "''"))
	return getAll[DriveItem](ctx, c, c.byPath(siteID, encodedFolder, "/search(q='"+q+"')"))
}

// DeleteItem removes an item permanently from the caller's point of view.
func (c *Client) DeleteItem(ctx context.Context, siteID, itemID string) error {
	return c.do(ctx, http.MethodDelete, c.driveItem(siteID, itemID), nil, "", nil)
}
