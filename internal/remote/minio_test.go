package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/chmdznr/oss-component-checker/internal/check"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeBucket struct {
	objects map[string]int64
	err     error
	keys    []string
}

func (f *fakeBucket) StatObject(_ context.Context, _, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return minio.ObjectInfo{}, f.err
	}
	size, ok := f.objects[key]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	}
	return minio.ObjectInfo{Key: key, Size: size}, nil
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		file     string
		expected string
	}{
		{name: "no prefix", prefix: "", file: "button.tsx", expected: "button.tsx"},
		{name: "plain prefix", prefix: "ui", file: "button.tsx", expected: "ui/button.tsx"},
		{name: "slashes trimmed", prefix: "/builds/ui/", file: "button.tsx", expected: "builds/ui/button.tsx"},
		{name: "windows separators", prefix: `builds\ui`, file: "card.tsx", expected: "builds/ui/card.tsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, objectKey(tt.prefix, tt.file))
		})
	}
}

func TestMinioProberWithChecker(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]int64{"ui/a.tsx": 10, "ui/c.tsx": 5}}
	prober := newMinioProber(bucket, "builds", "ui/", nil)

	result, err := check.NewChecker(prober, nil).Run(context.Background(), []string{"a.tsx", "b.tsx", "c.tsx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.tsx"}, result.Missing)
	assert.Equal(t, int64(15), result.PresentSize())
	assert.Equal(t, []string{"ui/a.tsx", "ui/b.tsx", "ui/c.tsx"}, bucket.keys)
	assert.Equal(t, "s3://builds/ui/", prober.Location())
}

func TestMinioProberErrorsCountAsMissing(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	bucket := &fakeBucket{err: errors.New("connection refused")}
	prober := newMinioProber(bucket, "builds", "", zap.New(core))

	_, ok := prober.Probe(context.Background(), "a.tsx")
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("stat object failed").Len())
}

func TestMinioProberNotFoundIsQuiet(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prober := newMinioProber(&fakeBucket{}, "builds", "", zap.New(core))

	_, ok := prober.Probe(context.Background(), "a.tsx")
	assert.False(t, ok)
	assert.Equal(t, 0, logs.Len())
}

func TestNewMinioProberRequiresBucket(t *testing.T) {
	_, err := NewMinioProber(Config{Endpoint: "localhost:9000"}, nil)
	assert.Error(t, err)
}
