package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Image is a stored asset: the public URL for rendering and the store
// id needed to release it later.
type Image struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// Store uploads and releases image assets. Remove failures are logged
// by callers rather than surfaced, an orphaned asset is not worth
// failing a delete over.
type Store interface {
	Upload(ctx context.Context, path string) (*Image, error)
	Remove(ctx context.Context, id string) error
}

type httpStore struct {
	baseURL string
	client  *http.Client
}

func NewHTTPStore(baseURL string) Store {
	return &httpStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *httpStore) Upload(ctx context.Context, path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := writer.WriteField("id", id); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("upload image: unexpected status %d", resp.StatusCode)
	}

	var uploaded Image
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.ID == "" {
		uploaded.ID = id
	}
	return &uploaded, nil
}

func (s *httpStore) Remove(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.baseURL+"/images/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		log.Warn().Str("image_id", id).Int("status", resp.StatusCode).Msg("image store rejected removal")
		return fmt.Errorf("remove image: unexpected status %d", resp.StatusCode)
	}
	return nil
}
