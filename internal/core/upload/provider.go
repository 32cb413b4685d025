package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Object is a file about to be stored. Key is slash separated, for example
// comprobantes/comprobante_51999888777_20240301-103000_1a2b3c4d.jpg
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// UploadResult is where a stored object can be opened from
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"` // provider identifier, passed back to Delete
	Size     int64  `json:"size"`
}

// Provider defines the interface for file storage providers
type Provider interface {
	Upload(ctx context.Context, obj Object, body io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
	GetProviderName() string
}

// ProviderType for the factory
type ProviderType string

const (
	ProviderLocal      ProviderType = "local"
	ProviderS3         ProviderType = "s3"
	ProviderCloudinary ProviderType = "cloudinary"
	ProviderDrive      ProviderType = "drive"
)

// ProviderConfig holds the settings of every storage provider
type ProviderConfig struct {
	Type ProviderType

	LocalDir string
	BaseURL  string

	AWSRegion          string
	AWSBucket          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSPublicURL       string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	GoogleCredentialsFile string
	DriveFolderID         string
}

// NewProvider creates a storage provider from config
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderLocal, "":
		return NewLocalProvider(cfg.LocalDir, cfg.BaseURL)
	case ProviderS3:
		return NewS3Provider(ctx, S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSBucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			PublicBaseURL:   cfg.AWSPublicURL,
		})
	case ProviderCloudinary:
		return NewCloudinaryProvider(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case ProviderDrive:
		return NewDriveProvider(ctx, cfg.GoogleCredentialsFile, cfg.DriveFolderID)
	default:
		return nil, fmt.Errorf("unknown upload provider: %s", cfg.Type)
	}
}

// mediaType strips parameters from a Content-Type header value
func mediaType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// extensionFor maps a MIME type to the file extension used in object keys
func extensionFor(contentType string) string {
	switch mediaType(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}

// cleanKey rejects keys that would escape the storage root
func cleanKey(key string) (string, error) {
	cleaned := path.Clean(strings.TrimLeft(key, "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return cleaned, nil
}
