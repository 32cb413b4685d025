package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProofMeta describes a payment proof received over WhatsApp
type ProofMeta struct {
	Sender      string // canonical phone of the customer
	ContentType string
	ReceivedAt  time.Time
}

// ProofRef is what the order row records about a stored proof
type ProofRef struct {
	URL      string
	PublicID string
}

// ProofPolicy limits what StoreProof accepts
type ProofPolicy struct {
	Folder       string
	MaxSize      int64
	AllowedTypes []string
}

// DefaultProofPolicy accepts photos and PDF vouchers up to 10MB
func DefaultProofPolicy() ProofPolicy {
	return ProofPolicy{
		Folder:       "comprobantes",
		MaxSize:      10 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "application/pdf"},
	}
}

// Service stores payment proofs through the configured provider
type Service struct {
	provider Provider
	policy   ProofPolicy
}

func NewService(provider Provider) *Service {
	return NewServiceWithPolicy(provider, DefaultProofPolicy())
}

func NewServiceWithPolicy(provider Provider, policy ProofPolicy) *Service {
	return &Service{provider: provider, policy: policy}
}

// StoreProof validates and uploads a payment proof and returns a reference
// that can be written to the order row.
func (s *Service) StoreProof(ctx context.Context, data []byte, meta ProofMeta) (ProofRef, error) {
	if s.provider == nil {
		return ProofRef{}, fmt.Errorf("upload provider not configured")
	}
	if err := s.check(data, meta.ContentType); err != nil {
		return ProofRef{}, err
	}

	received := meta.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}
	name := fmt.Sprintf("comprobante_%s_%s_%s%s",
		strings.TrimPrefix(meta.Sender, "+"),
		received.Format("20060102-150405"),
		uuid.NewString()[:8],
		extensionFor(meta.ContentType),
	)

	result, err := s.provider.Upload(ctx, Object{
		Key:         path.Join(s.policy.Folder, name),
		ContentType: mediaType(meta.ContentType),
		Size:        int64(len(data)),
	}, bytes.NewReader(data))
	if err != nil {
		return ProofRef{}, err
	}
	return ProofRef{URL: result.URL, PublicID: result.PublicID}, nil
}

func (s *Service) Delete(ctx context.Context, publicID string) error {
	if s.provider == nil {
		return fmt.Errorf("upload provider not configured")
	}
	return s.provider.Delete(ctx, publicID)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.GetProviderName()
}

func (s *Service) check(data []byte, contentType string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty proof")
	}
	if s.policy.MaxSize > 0 && int64(len(data)) > s.policy.MaxSize {
		return fmt.Errorf("proof exceeds maximum allowed size: %d bytes", s.policy.MaxSize)
	}
	ct := mediaType(contentType)
	for _, t := range s.policy.AllowedTypes {
		if ct == t {
			return nil
		}
	}
	return fmt.Errorf("file type not allowed: %s", contentType)
}
