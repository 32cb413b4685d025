package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveProvider stores proofs in a Google Drive folder shared with the
// service account. Files are readable by link so operators can open them
// from the orders sheet.
type DriveProvider struct {
	srv      *drive.Service
	folderID string
}

func NewDriveProvider(ctx context.Context, credentialsFile, folderID string) (*DriveProvider, error) {
	if folderID == "" {
		return nil, fmt.Errorf("GOOGLE_DRIVE_FOLDER_ID is required")
	}

	srv, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}
	return &DriveProvider{srv: srv, folderID: folderID}, nil
}

// Upload flattens the key into the file name since Drive folders are
// addressed by ID.
func (p *DriveProvider) Upload(ctx context.Context, obj Object, body io.Reader) (*UploadResult, error) {
	key, err := cleanKey(obj.Key)
	if err != nil {
		return nil, err
	}

	created, err := p.srv.Files.Create(&drive.File{
		Name:     strings.ReplaceAll(key, "/", "_"),
		Parents:  []string{p.folderID},
		MimeType: obj.ContentType,
	}).Media(body).Fields("id, webViewLink, size").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Drive: %w", err)
	}

	share := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := p.srv.Permissions.Create(created.Id, share).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to share Drive file: %w", err)
	}

	link := created.WebViewLink
	if link == "" {
		link = "https://drive.google.com/file/d/" + created.Id + "/view"
	}
	return &UploadResult{URL: link, PublicID: created.Id, Size: created.Size}, nil
}

func (p *DriveProvider) Delete(ctx context.Context, publicID string) error {
	if err := p.srv.Files.Delete(publicID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete from Drive: %w", err)
	}
	return nil
}

func (p *DriveProvider) GetProviderName() string {
	return "Google Drive"
}
