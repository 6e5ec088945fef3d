package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cosechaencope/marketplace/internal/core/domain"
)

const imageBucketName = "imagenes"

// ImageStore persists article images in a GridFS bucket. Re-uploading under
// the same name creates a new revision; reads always return the latest one.
type ImageStore struct {
	bucket *gridfs.Bucket
}

func NewImageStore(db *mongo.Database) (*ImageStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(imageBucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &ImageStore{bucket: bucket}, nil
}

// Save stores the image under name and returns the URL it will be served from.
// GridFS streams carry their own deadlines rather than a context.
func (s *ImageStore) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	if err := s.bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return "", fmt.Errorf("gridfs deadline: %w", err)
	}

	if _, err := s.bucket.UploadFromStream(name, data); err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return "/media/" + imageBucketName + "/" + name, nil
}

// Open streams the latest revision of the named image into w.
func (s *ImageStore) Open(ctx context.Context, name string, w io.Writer) error {
	if err := s.bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return fmt.Errorf("gridfs deadline: %w", err)
	}

	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return domain.ErrArticleNotFound
		}
		return fmt.Errorf("gridfs download: %w", err)
	}
	defer stream.Close()

	if _, err := io.Copy(w, stream); err != nil {
		return fmt.Errorf("gridfs copy: %w", err)
	}
	return nil
}

// deadline derives the stream deadline from the caller's context, falling back
// to the package default when the context carries none.
func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(defaultTimeout)
}
