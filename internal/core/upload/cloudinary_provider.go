package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryProvider keeps proofs as Cloudinary image assets. PDFs are
// accepted by Cloudinary as images too, so one resource type covers both.
type CloudinaryProvider struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryProvider(cloudName, apiKey, apiSecret string) (*CloudinaryProvider, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryProvider{cld: cld}, nil
}

// Upload maps the key to folder + public ID; Cloudinary appends the format.
func (p *CloudinaryProvider) Upload(ctx context.Context, obj Object, body io.Reader) (*UploadResult, error) {
	key, err := cleanKey(obj.Key)
	if err != nil {
		return nil, err
	}
	folder, name := path.Split(key)

	result, err := p.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:         strings.TrimSuffix(folder, "/"),
		PublicID:       strings.TrimSuffix(name, path.Ext(name)),
		ResourceType:   "image",
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return &UploadResult{URL: result.SecureURL, PublicID: result.PublicID, Size: int64(result.Bytes)}, nil
}

func (p *CloudinaryProvider) Delete(ctx context.Context, publicID string) error {
	result, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}
	if result.Result != "ok" {
		return fmt.Errorf("cloudinary delete failed: %s", result.Result)
	}
	return nil
}

func (p *CloudinaryProvider) GetProviderName() string {
	return "Cloudinary"
}
