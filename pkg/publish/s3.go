// Package publish uploads finished renders to S3 compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Artifact is one encoded image ready for upload
type Artifact struct {
	Key         string
	Data        []byte
	ContentType string
}

// Uploader stores a single artifact
type Uploader interface {
	Upload(ctx context.Context, artifact Artifact) error
}

// S3Publisher uploads artifacts with PutObject, one timeout per object
type S3Publisher struct {
	client s3iface.S3API
	config config.S3Config
	logger core.Logger
}

// NewS3Publisher creates a session from cfg. Without static keys the
// default AWS credential chain is used.
func NewS3Publisher(cfg config.S3Config, logger core.Logger) (*S3Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 configuration: %w", err)
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return NewS3PublisherWithClient(s3.New(sess), cfg, logger), nil
}

// NewS3PublisherWithClient wraps an existing S3 client
func NewS3PublisherWithClient(client s3iface.S3API, cfg config.S3Config, logger core.Logger) *S3Publisher {
	return &S3Publisher{client: client, config: cfg, logger: logger}
}

// ObjectKey builds the key for a render: <prefix>/<scene>/<seed>_<width>x<height><suffix><ext>
func (p *S3Publisher) ObjectKey(sceneName string, seed int64, width, height int, suffix, ext string) string {
	name := fmt.Sprintf("%d_%dx%d%s%s", seed, width, height, suffix, ext)
	return path.Join(strings.Trim(p.config.Prefix, "/"), sceneName, name)
}

// Upload stores one artifact in the configured bucket
func (p *S3Publisher) Upload(ctx context.Context, artifact Artifact) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.UploadTimeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(artifact.Key),
		Body:          bytes.NewReader(artifact.Data),
		ContentLength: aws.Int64(int64(len(artifact.Data))),
		ContentType:   aws.String(artifact.ContentType),
	}
	if p.config.ACL != "" {
		input.ACL = aws.String(p.config.ACL)
	}

	start := time.Now()
	if _, err := p.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", artifact.Key, err)
	}

	p.logger.Printf("Uploaded s3://%s/%s (%d bytes) in %v\n",
		p.config.Bucket, artifact.Key, len(artifact.Data), time.Since(start).Round(time.Millisecond))
	return nil
}

// UploadAll uploads artifacts concurrently. The first failure cancels the
// remaining uploads and is returned.
func UploadAll(ctx context.Context, uploader Uploader, artifacts ...Artifact) error {
	if len(artifacts) == 0 {
		return errors.New("nothing to upload")
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, artifact := range artifacts {
		artifact := artifact // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			return uploader.Upload(ctx, artifact)
		})
	}
	return g.Wait()
}
