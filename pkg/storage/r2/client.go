package r2

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/multierr"

	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
)

const pingTimeout = 5 * time.Second

// ObjectAPI is the slice of the S3 client surface the uploader uses.
// Cloudflare R2 speaks the S3 wire protocol, so the stock SDK client works
// against the R2 endpoint.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Client uploads buffered videos to the R2 bucket.
type Client struct {
	api        ObjectAPI
	bucket     string
	publicBase string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoredObject describes a durably stored video.
type StoredObject struct {
	Key       string
	PublicURL string
}

// NewClient builds an R2-backed client from configuration.
func NewClient(ctx context.Context, cfg config.R2Config, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("r2 bucket name is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("r2 endpoint is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading r2 credentials: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	client := &Client{
		api:        api,
		bucket:     cfg.BucketName,
		publicBase: publicBase(cfg),
	}

	if logg != nil {
		logg.Info(ctx, "r2 client initialized")
	}

	return client, nil
}

// NewClientWithAPI wires an explicit API implementation; used by tests.
func NewClientWithAPI(api ObjectAPI, bucket, publicBaseURL string) *Client {
	return &Client{api: api, bucket: bucket, publicBase: strings.TrimSuffix(publicBaseURL, "/")}
}

func publicBase(cfg config.R2Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/")
	}
	return fmt.Sprintf("https://pub-%s.r2.dev", cfg.AccountID)
}

// Upload performs a single PUT of the buffered file under key and returns
// the public URL. The local file is removed on every exit path; a
// failed cleanup is reported alongside the upload outcome rather than
// masking it.
func (c *Client) Upload(ctx context.Context, localPath, key, mimeType string) (stored *StoredObject, err error) {
	defer func() {
		if removeErr := os.Remove(localPath); removeErr != nil && !os.IsNotExist(removeErr) {
			err = multierr.Append(err, fmt.Errorf("removing temp file %s: %w", localPath, removeErr))
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "open buffered video")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = multierr.Append(err, closeErr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "stat buffered video")
	}

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "upload video to object store")
	}

	return &StoredObject{
		Key:       key,
		PublicURL: c.PublicURL(key),
	}, nil
}

// Delete removes an object; used for out-of-band cleanup.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "delete video from object store")
	}
	return nil
}

// PublicURL derives the public location for a stored key.
func (c *Client) PublicURL(key string) string {
	return c.publicBase + "/" + key
}

// Ping verifies the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.api == nil {
		return errors.New("r2 client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	return err
}

// ObjectKey builds the deterministic storage key for a submission video:
// {founders|seekers}/{slug(name)}_{applicationID}.mp4
func ObjectKey(kind enums.SubmissionKind, name, applicationID string) string {
	return fmt.Sprintf("%s/%s_%s.mp4", kind.StoragePrefix(), Slug(name), applicationID)
}

// Slug normalizes a display name for use inside object keys: lowercase,
// alphanumerics and hyphens only, capped at 50 characters.
func Slug(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	if slug == "" {
		slug = "video"
	}
	return slug
}
