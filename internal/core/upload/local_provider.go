package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider keeps proofs on disk under root. The API serves root at
// /uploads, so baseURL is normally http://<host>/uploads.
type LocalProvider struct {
	root    string
	baseURL string
}

func NewLocalProvider(root, baseURL string) (*LocalProvider, error) {
	if root == "" {
		return nil, fmt.Errorf("UPLOAD_LOCAL_DIR is required for local storage")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalProvider{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes to a temporary file first and links it into place, so a
// reader never sees a partial proof and an existing key is never replaced.
func (p *LocalProvider) Upload(ctx context.Context, obj Object, body io.Reader) (*UploadResult, error) {
	key, err := cleanKey(obj.Key)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(p.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.Link(tmp.Name(), dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("file already exists: %s", key)
		}
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	return &UploadResult{URL: p.baseURL + "/" + key, PublicID: key, Size: size}, nil
}

func (p *LocalProvider) Delete(ctx context.Context, publicID string) error {
	key, err := cleanKey(publicID)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(p.root, filepath.FromSlash(key)))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("file not found: %s", publicID)
	case err != nil:
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}
