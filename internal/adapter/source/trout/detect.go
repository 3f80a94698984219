package trout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const probeTimeout = 10 * time.Second

// ServerInfo is what a successful probe learned about a server
type ServerInfo struct {
	URL     string // normalized base URL
	Version string
}

// Probe checks that serverURL answers like a channel server: /version must
// return a JSON version and /api/channels must be listable.
func Probe(ctx context.Context, serverURL string) (*ServerInfo, error) {
	// Normalize URL (remove trailing slash)
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if serverURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "http://" + serverURL
	}

	client := &http.Client{Timeout: probeTimeout}

	body, err := probeGet(ctx, client, serverURL+"/version")
	if err != nil {
		return nil, fmt.Errorf("version endpoint: %w", err)
	}
	var v versionDTO
	if err := json.Unmarshal(body, &v); err != nil || v.Version == "" {
		return nil, fmt.Errorf("not a channel server (unexpected /version response)")
	}

	body, err = probeGet(ctx, client, serverURL+"/api/channels")
	if err != nil {
		return nil, fmt.Errorf("channel API: %w", err)
	}
	var channels []channelDTO
	if err := json.Unmarshal(body, &channels); err != nil {
		return nil, fmt.Errorf("not a channel server (unexpected /api/channels response)")
	}

	return &ServerInfo{URL: serverURL, Version: v.Version}, nil
}

func probeGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
