package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const maxImageSize = 10 << 20 // 10 MB

var allowedImageMIMEs = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type setImageResult struct {
	DeckID  string `json:"deckId"`
	SlideID string `json:"slideId"`
	Bytes   int    `json:"bytes"`
}

func (s *Server) setSlideImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deckID, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slideID, err := req.RequireString("slide_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawURL, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var data []byte
	var mime string

	if strings.HasPrefix(rawURL, "data:") {
		data, mime, err = decodeImageDataURI(rawURL)
	} else {
		data, mime, err = fetchImageHTTP(rawURL)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(data) > maxImageSize {
		return mcp.NewToolResultError(fmt.Sprintf("image too large: %d bytes (max %d)", len(data), maxImageSize)), nil
	}
	if err := validateImageBytes(data, mime); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
	if _, err := s.svc.SetSlideImage(ctx, deckID, slideID, dataURI); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.Marshal(setImageResult{DeckID: deckID, SlideID: slideID, Bytes: len(data)})
	return mcp.NewToolResultText(string(out)), nil
}

// decodeImageDataURI parses a data:<mediatype>;base64,<data> URI.
func decodeImageDataURI(uri string) ([]byte, string, error) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, "", fmt.Errorf("invalid data URI: missing comma separator")
	}

	meta := rest[:commaIdx]
	encoded := rest[commaIdx+1:]

	if !strings.Contains(meta, ";base64") {
		return nil, "", fmt.Errorf("only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data: %w", err)
		}
	}

	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	if !allowedImageMIMEs[mime] {
		return nil, "", fmt.Errorf("unsupported MIME type in data URI: %s (allowed: png, jpeg, gif, webp)", mime)
	}
	return data, mime, nil
}

// fetchImageHTTP downloads an image from an HTTP/HTTPS URL with security checks.
func fetchImageHTTP(rawURL string) ([]byte, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported scheme: %s (only http/https)", parsed.Scheme)
	}

	if err := checkBlockedHost(parsed.Hostname()); err != nil {
		return nil, "", err
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			return checkBlockedHost(req.URL.Hostname())
		},
	}

	resp, err := client.Get(rawURL) //nolint:noctx
	if err != nil {
		return nil, "", fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxImageSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", fmt.Errorf("read body failed: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, "", fmt.Errorf("image too large: exceeds %d bytes", maxImageSize)
	}

	mime := strings.Split(resp.Header.Get("Content-Type"), ";")[0]
	if !allowedImageMIMEs[mime] {
		// Fall back to sniffing when the server sends a generic type.
		mime = strings.Split(http.DetectContentType(data), ";")[0]
	}
	if !allowedImageMIMEs[mime] {
		return nil, "", fmt.Errorf("unsupported content type: %s (allowed: png, jpeg, gif, webp)", mime)
	}
	return data, mime, nil
}

// checkBlockedHost rejects loopback and cloud metadata addresses.
func checkBlockedHost(host string) error {
	if host == "metadata.google.internal" {
		return fmt.Errorf("blocked host: %s", host)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		ips, lookupErr := net.LookupIP(host)
		if lookupErr != nil || len(ips) == 0 {
			return nil //nolint:nilerr // let http.Client handle DNS failures
		}
		ip = ips[0]
	}

	if ip.IsLoopback() {
		return fmt.Errorf("blocked host: loopback address %s", host)
	}
	// AWS/GCP/Azure metadata endpoint.
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return fmt.Errorf("blocked host: cloud metadata address %s", host)
	}
	return nil
}

// validateImageBytes verifies image content matches the declared MIME type.
func validateImageBytes(data []byte, mime string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image data")
	}
	detected := strings.Split(http.DetectContentType(data), ";")[0]
	if detected != mime {
		return fmt.Errorf("content does not match declared type %s (detected: %s)", mime, detected)
	}
	return nil
}
