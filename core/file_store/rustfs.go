package file_store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// RustFSStore keeps corpus files in an S3-compatible bucket and mirrors them
// into the local corpus directory, which acts as a read cache for the loader.
type RustFSStore struct {
	client   *minio.Client
	bucket   string
	cacheDir string
}

// NewRustFSStore connects to RustFS and ensures the corpus bucket exists.
func NewRustFSStore(ctx context.Context, cfg *config.Config) (*RustFSStore, error) {
	if cfg.RustFS.Endpoint == "" {
		return nil, errors.New(errors.ErrInvalidParameter, "rustfs endpoint is not configured")
	}

	client, err := minio.New(cfg.RustFS.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.RustFS.AccessKey, cfg.RustFS.SecretKey, ""),
		Secure: cfg.RustFS.UseSSL,
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrOperationFailed, "failed to create rustfs client: %v", err)
	}

	s := &RustFSStore{
		client:   client,
		bucket:   cfg.RustFS.Bucket,
		cacheDir: cfg.Corpus.Dir,
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RustFSStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to check if bucket exists: %v", err)
	}
	if exists {
		g.Log().Infof(ctx, "Bucket '%s' already exists, skipping creation", s.bucket)
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: ""}); err != nil {
		return errors.Newf(errors.ErrOperationFailed, "failed to create bucket: %v", err)
	}
	g.Log().Infof(ctx, "Created bucket '%s'", s.bucket)
	return nil
}

// Save writes the file to the local cache first, then uploads it, so the
// loader can read files this process wrote even if the upload is slow to
// become visible.
func (s *RustFSStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		g.Log().Errorf(ctx, "Failed to create directory %s: %v", s.cacheDir, err)
		return "", errors.Newf(errors.ErrOperationFailed, "failed to create directory %s: %v", s.cacheDir, err)
	}

	localPath := filepath.Join(s.cacheDir, name)
	if err := os.WriteFile(localPath, content, 0644); err != nil {
		g.Log().Errorf(ctx, "Failed to write local file %s: %v", localPath, err)
		return "", errors.Newf(errors.ErrOperationFailed, "failed to write local file %s: %v", localPath, err)
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		g.Log().Errorf(ctx, "Failed to upload corpus file to rustfs: %v", err)
		return "", errors.Newf(errors.ErrOperationFailed, "failed to upload to rustfs: %v", err)
	}

	g.Log().Infof(ctx, "Corpus file uploaded to rustfs: bucket=%s, key=%s", s.bucket, name)
	return "rustfs://" + s.bucket + "/" + name, nil
}

// Exists reports whether the named object is in the bucket.
func (s *RustFSStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Newf(errors.ErrOperationFailed, "failed to stat object %s: %v", name, err)
	}
	return true, nil
}

// Sync downloads every bucket object missing from the local cache and returns
// the cache directory. Objects already cached at the same size are skipped.
func (s *RustFSStore) Sync(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return "", errors.Newf(errors.ErrOperationFailed, "failed to create directory %s: %v", s.cacheDir, err)
	}

	synced := 0
	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true})
	for object := range objectCh {
		if object.Err != nil {
			return "", errors.Newf(errors.ErrOperationFailed, "failed to list rustfs objects: %v", object.Err)
		}

		localPath := filepath.Join(s.cacheDir, object.Key)
		if info, err := os.Stat(localPath); err == nil && info.Size() == object.Size {
			continue
		}

		if err := s.client.FGetObject(ctx, s.bucket, object.Key, localPath, minio.GetObjectOptions{}); err != nil {
			return "", errors.Newf(errors.ErrOperationFailed, "failed to download object %s: %v", object.Key, err)
		}
		synced++
	}

	if synced > 0 {
		g.Log().Infof(ctx, "Synced %d corpus files from bucket '%s' to %s", synced, s.bucket, s.cacheDir)
	}
	return s.cacheDir, nil
}
