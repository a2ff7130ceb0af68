package repository

import (
	"campussafety/internal/model"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const uploadChunk = 64 << 10

// UploadTransport streams a photo to storage, reporting 0-100 progress
type UploadTransport interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, progress func(percent int)) (*model.UploadedFile, error)
}

// FileInfo describes a stored upload
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
	UploadDate  time.Time
}

// FileStore serves stored uploads back
type FileStore interface {
	Open(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error)
}

// GridFSStore implements UploadTransport and FileStore over GridFS
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore stores uploads in the "uploads" GridFS bucket. Files are
// addressed as {baseURL}/v1/files/{id}.
func NewGridFSStore(db *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("uploads"))
	if err != nil {
		return nil, err
	}
	return &GridFSStore{bucket: bucket, baseURL: baseURL}, nil
}

func (s *GridFSStore) Upload(ctx context.Context, name string, r io.Reader, size int64, progress func(percent int)) (*model.UploadedFile, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentTypeOf(name)})
	stream, err := s.bucket.OpenUploadStream(name, opts)
	if err != nil {
		return nil, err
	}

	written, err := copyWithProgress(ctx, stream, r, size, progress)
	if err != nil {
		_ = stream.Abort()
		return nil, err
	}
	if err := stream.Close(); err != nil {
		return nil, err
	}

	oid, ok := stream.FileID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected file id %v", stream.FileID)
	}
	now := time.Now()
	return &model.UploadedFile{
		Name:       name,
		URL:        s.baseURL + "/v1/files/" + oid.Hex(),
		UploadDate: &now,
		FileSize:   written,
	}, nil
}

func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, nil
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	file := stream.GetFile()
	info := &FileInfo{
		Name:        file.Name,
		Size:        file.Length,
		UploadDate:  file.UploadDate,
		ContentType: contentTypeOf(file.Name),
	}
	var meta struct {
		ContentType string `bson:"contentType"`
	}
	if len(file.Metadata) > 0 && bson.Unmarshal(file.Metadata, &meta) == nil && meta.ContentType != "" {
		info.ContentType = meta.ContentType
	}
	return stream, info, nil
}

// copyWithProgress copies r to w, calling progress whenever the whole
// percentage moves. Unknown sizes report only 100 at the end.
func copyWithProgress(ctx context.Context, w io.Writer, r io.Reader, size int64, progress func(int)) (int64, error) {
	if progress == nil {
		progress = func(int) {}
	}
	progress(0)

	buf := make([]byte, uploadChunk)
	var written int64
	last := 0
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			if size > 0 {
				pct := int(written * 100 / size)
				if pct > 99 {
					pct = 99
				}
				if pct > last {
					last = pct
					progress(pct)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}
	progress(100)
	return written, nil
}
