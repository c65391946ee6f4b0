package Photos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// downloadTokenKey is the object metadata key Firebase reads download tokens from.
const downloadTokenKey = "firebaseStorageDownloadTokens"

// StorageUploader writes proofs to a Firebase Storage bucket with a resumable,
// chunked upload.
type StorageUploader struct {
	bucket     *storage.BucketHandle
	bucketName string
	ChunkSize  int
}

func NewStorageUploader(bucket *storage.BucketHandle, bucketName string) *StorageUploader {
	return &StorageUploader{bucket: bucket, bucketName: bucketName, ChunkSize: 256 * 1024}
}

func (s *StorageUploader) Upload(ctx context.Context, u Upload) (string, error) {
	token := uuid.NewString()

	w := s.bucket.Object(u.Object).NewWriter(ctx)
	w.ContentType = u.ContentType
	w.ChunkSize = s.ChunkSize
	w.Metadata = map[string]string{downloadTokenKey: token}
	for k, v := range u.Metadata {
		w.Metadata[k] = v
	}

	if _, err := io.Copy(w, bytes.NewReader(u.Data)); err != nil {
		w.Close()
		return "", fmt.Errorf("writing %s: %w", u.Object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finishing %s: %w", u.Object, err)
	}
	return DownloadURL(s.bucketName, u.Object, token), nil
}

// DownloadURL is the tokenized public URL Firebase serves an object under.
func DownloadURL(bucket, object, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(object), url.QueryEscape(token))
}
