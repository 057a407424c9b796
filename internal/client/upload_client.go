package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// UploadKind selects the upload folder/transformations on the remote side.
type UploadKind string

const (
	UploadKindLogo   UploadKind = "logo"
	UploadKindAvatar UploadKind = "avatar"
)

const uploadFolder = "invoiceme"

// UploadResult is the upload endpoint's response.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// UploadClient posts images to the external upload endpoint that fronts the
// blob store. Only the settings/profile flows use it.
type UploadClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewUploadClient creates an upload client for the given endpoint.
func NewUploadClient(endpoint string) *UploadClient {
	return &UploadClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadImage sends the file as multipart form data and returns the hosted
// URL.
func (c *UploadClient) UploadImage(ctx context.Context, kind UploadKind, filename string, file io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.WriteField("type", string(kind)); err != nil {
		return nil, fmt.Errorf("write type field: %w", err)
	}
	if err := writer.WriteField("folder", uploadFolder); err != nil {
		return nil, fmt.Errorf("write folder field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload image: unexpected status %d", resp.StatusCode)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}
