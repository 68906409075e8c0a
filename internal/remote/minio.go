// Package remote checks for expected files in a MinIO / S3 bucket.
package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/chmdznr/oss-component-checker/pkg/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config holds the bucket location and credentials
type Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
	Secure    bool
}

// objectStater is the part of *minio.Client the prober uses
type objectStater interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinioProber reports an expected file as present when prefix/name exists
// as an object in the bucket.
type MinioProber struct {
	client objectStater
	bucket string
	prefix string
	logger *zap.Logger
}

// NewMinioProber creates a prober backed by a MinIO client
func NewMinioProber(cfg Config, logger *zap.Logger) (*MinioProber, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("endpoint and bucket are required")
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.Secure,
		Transport:    tr,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return newMinioProber(client, cfg.Bucket, cfg.Prefix, logger), nil
}

func newMinioProber(client objectStater, bucket, prefix string, logger *zap.Logger) *MinioProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MinioProber{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Location describes where the prober looks, for reports
func (p *MinioProber) Location() string {
	return fmt.Sprintf("s3://%s/%s", p.bucket, objectKey(p.prefix, ""))
}

// Probe stats the object. Errors other than "not found" are logged and the
// file is reported absent.
func (p *MinioProber) Probe(ctx context.Context, name string) (models.FileEntry, bool) {
	key := objectKey(p.prefix, name)
	info, err := p.client.StatObject(ctx, p.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if !isNotFound(err) {
			p.logger.Warn("stat object failed",
				zap.String("bucket", p.bucket),
				zap.String("key", key),
				zap.Error(err))
		}
		return models.FileEntry{}, false
	}
	return models.FileEntry{Name: name, Size: info.Size}, true
}

// objectKey joins prefix and name with exactly one slash
func objectKey(prefix, name string) string {
	folder := strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}
