package samplegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrUnexpectedStatus is returned when the service answers with a non-200 status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// UploadResponse is the subset of the upload reply the client reports.
type UploadResponse struct {
	Success        bool     `json:"success"`
	MatchNumber    string   `json:"matchNumber"`
	TotalRows      int      `json:"totalRows"`
	CompletedShots int      `json:"completedShots"`
	DiscardedShots int      `json:"discardedShots"`
	Warnings       int      `json:"warnings"`
	Golfers        []string `json:"golfers"`
}

// Client uploads generated exports to a running service.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CheckHealth verifies the service is running.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// Upload posts csv as match matchNumber.
func (c *Client) Upload(ctx context.Context, matchNumber, description string, csv []byte) (UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("matchNumber", matchNumber); err != nil {
		return UploadResponse{}, fmt.Errorf("write form: %w", err)
	}
	if description != "" {
		if err := mw.WriteField("description", description); err != nil {
			return UploadResponse{}, fmt.Errorf("write form: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", matchNumber+".csv")
	if err != nil {
		return UploadResponse{}, fmt.Errorf("write form: %w", err)
	}
	if _, err := fw.Write(csv); err != nil {
		return UploadResponse{}, fmt.Errorf("write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResponse{}, fmt.Errorf("write form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("upload %s: %w", matchNumber, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return UploadResponse{}, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out UploadResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return UploadResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
