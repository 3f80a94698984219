package trout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/troutctl/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "troutctl/1.0"
)

// Client implements the channel, playlist, logo, catalog and metadata
// repositories against the channel server's JSON API.
// Requests are never retried; every failure is returned to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new channel server API client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the server root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CloseIdleConnections drops pooled keep-alive connections
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// request describes one API call
type request struct {
	op          string // operation name used in errors and logs
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

// doRequest performs an HTTP request and maps failures onto the domain error taxonomy
func (c *Client) doRequest(ctx context.Context, r request) ([]byte, error) {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, r.query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	c.logger.Debug("api request", "op", r.op, "method", r.method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "op", r.op, "error", err)
		return nil, &domain.APIError{Sentinel: domain.ErrTransport, Operation: r.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.APIError{Sentinel: domain.ErrTransport, Operation: r.op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(body)
		c.logger.Error("api request error", "op", r.op, "status", resp.StatusCode, "detail", msg)
		return nil, &domain.APIError{
			Sentinel:  sentinelForStatus(resp.StatusCode),
			Operation: r.op,
			Status:    resp.StatusCode,
			Message:   msg,
		}
	}

	return body, nil
}

// sentinelForStatus maps an HTTP status to the domain error it represents
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusConflict:
		return domain.ErrConflict
	case status >= 500:
		return domain.ErrTransport
	default:
		return domain.ErrValidation
	}
}

// doJSON sends in (if non-nil) as JSON and decodes the response into out (if non-nil)
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	r := request{op: op, method: method, path: path}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		r.body = bytes.NewReader(payload)
		r.contentType = "application/json"
	}

	body, err := c.doRequest(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("JSON parse error", "op", op, "error", err, "bodyLen", len(body))
		return &domain.APIError{Sentinel: domain.ErrTransport, Operation: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// =============================================================================
// Channels
// =============================================================================

// ListChannels returns every channel
func (c *Client) ListChannels(ctx context.Context) ([]*domain.Channel, error) {
	var dtos []channelDTO
	if err := c.doJSON(ctx, "list channels", http.MethodGet, "/api/channels", nil, &dtos); err != nil {
		return nil, err
	}
	return mapChannels(dtos), nil
}

// CreateChannel creates a channel. The ID is sent empty and assigned by the server.
func (c *Client) CreateChannel(ctx context.Context, ch *domain.Channel) (*domain.Channel, error) {
	in := toChannelDTO(ch)
	in.ID = ""
	var out channelDTO
	if err := c.doJSON(ctx, "create channel", http.MethodPost, "/api/channels", in, &out); err != nil {
		return nil, err
	}
	return mapChannel(out), nil
}

// UpdateChannel replaces the channel stored under id
func (c *Client) UpdateChannel(ctx context.Context, id string, ch *domain.Channel) (*domain.Channel, error) {
	in := toChannelDTO(ch)
	in.ID = id
	var out channelDTO
	path := "/api/channels/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "update channel", http.MethodPut, path, in, &out); err != nil {
		return nil, err
	}
	return mapChannel(out), nil
}

// DeleteChannel removes a channel
func (c *Client) DeleteChannel(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete channel", http.MethodDelete, "/api/channels/"+url.PathEscape(id), nil, nil)
}

// =============================================================================
// Playlists
// =============================================================================

// ListPlaylists returns every playlist
func (c *Client) ListPlaylists(ctx context.Context) ([]*domain.Playlist, error) {
	var dtos []playlistDTO
	if err := c.doJSON(ctx, "list playlists", http.MethodGet, "/api/playlists", nil, &dtos); err != nil {
		return nil, err
	}
	return mapPlaylists(dtos), nil
}

// CreatePlaylist creates a playlist; item order is the slice order
func (c *Client) CreatePlaylist(ctx context.Context, p *domain.Playlist) (*domain.Playlist, error) {
	in := toPlaylistDTO(p)
	in.ID = ""
	in.CreatedAt, in.UpdatedAt = nil, nil
	var out playlistDTO
	if err := c.doJSON(ctx, "create playlist", http.MethodPost, "/api/playlists", in, &out); err != nil {
		return nil, err
	}
	return mapPlaylist(out), nil
}

// UpdatePlaylist replaces the playlist stored under id
func (c *Client) UpdatePlaylist(ctx context.Context, id string, p *domain.Playlist) (*domain.Playlist, error) {
	in := toPlaylistDTO(p)
	in.ID = id
	var out playlistDTO
	path := "/api/playlists/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "update playlist", http.MethodPut, path, in, &out); err != nil {
		return nil, err
	}
	return mapPlaylist(out), nil
}

// DeletePlaylist removes a playlist. The server answers 409 while a channel uses it.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete playlist", http.MethodDelete, "/api/playlists/"+url.PathEscape(id), nil, nil)
}

// =============================================================================
// Logos
// =============================================================================

// UploadLogo uploads a logo for a channel as multipart field "file" and
// returns the server-relative reference it was stored under
func (c *Client) UploadLogo(ctx context.Context, channelID string, asset domain.LogoAsset) (domain.LogoRef, error) {
	const op = "upload logo"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, asset.Filename))
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := part.Write(asset.Data); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	body, err := c.doRequest(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        "/api/uploads/logo/" + url.PathEscape(channelID),
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}

	var out logoUploadDTO
	if err := json.Unmarshal(body, &out); err != nil || out.LogoURL == "" {
		return "", &domain.APIError{Sentinel: domain.ErrTransport, Operation: op, Err: errors.New("response carried no logo_url")}
	}
	return domain.LogoRef(out.LogoURL), nil
}

// DeleteLogo removes all uploaded logo files for a channel
func (c *Client) DeleteLogo(ctx context.Context, channelID string) error {
	return c.doJSON(ctx, "delete logo", http.MethodDelete, "/api/uploads/logo/"+url.PathEscape(channelID), nil, nil)
}

// =============================================================================
// Catalog
// =============================================================================

// Browse lists one catalog directory. Any failure is reported as domain.ErrBrowse
// alongside the underlying transport or validation error.
func (c *Client) Browse(ctx context.Context, path string) (domain.Listing, error) {
	var query url.Values
	if path != "" {
		query = url.Values{"path": {path}}
	}

	body, err := c.doRequest(ctx, request{op: "browse", method: http.MethodGet, path: "/api/media/browse", query: query})
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%w: %w", domain.ErrBrowse, err)
	}

	var dto browseDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.Listing{}, fmt.Errorf("%w: failed to parse response: %w", domain.ErrBrowse, err)
	}
	return mapListing(dto), nil
}

// =============================================================================
// Metadata & playback
// =============================================================================

// Version returns the server version
func (c *Client) Version(ctx context.Context) (string, error) {
	var out versionDTO
	if err := c.doJSON(ctx, "version", http.MethodGet, "/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// StreamURL returns the absolute master playlist URL of a channel
func (c *Client) StreamURL(channelID string) string {
	ch := domain.Channel{ID: channelID}
	return c.baseURL + ch.StreamPath()
}
