package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket. Without static keys the default AWS
// credential chain is used.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL replaces the virtual-hosted bucket URL in links,
	// e.g. a CloudFront distribution in front of the bucket.
	PublicBaseURL   string
}

// S3Provider stores proofs as private objects; operators open the link with
// bucket access or through PublicBaseURL.
type S3Provider struct {
	client  *s3.Client
	bucket  string
	linkURL string
}

func NewS3Provider(ctx context.Context, c S3Config) (*S3Provider, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if c.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(c.Region))
	}
	if c.AccessKeyID != "" {
		static := credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(static))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	link := strings.TrimRight(c.PublicBaseURL, "/")
	if link == "" {
		link = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, awsCfg.Region)
	}
	return &S3Provider{client: s3.NewFromConfig(awsCfg), bucket: c.Bucket, linkURL: link}, nil
}

func (p *S3Provider) Upload(ctx context.Context, obj Object, body io.Reader) (*UploadResult, error) {
	key, err := cleanKey(obj.Key)
	if err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := p.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{URL: p.linkURL + "/" + key, PublicID: key, Size: obj.Size}, nil
}

func (p *S3Provider) Delete(ctx context.Context, publicID string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (p *S3Provider) GetProviderName() string {
	return "AWS S3"
}
