package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/bouquet-api/internal/domain"
)

// Sink delivers rendered image bytes and returns the artifact the client
// receives.
type Sink interface {
	Store(ctx context.Context, data []byte, mimeType string) (*domain.ImageArtifact, error)
}

// InlineSink returns images as data URIs. It needs no storage.
type InlineSink struct{}

var _ Sink = InlineSink{}

// Store implements Sink.
func (InlineSink) Store(_ context.Context, data []byte, mimeType string) (*domain.ImageArtifact, error) {
	return domain.NewInlineImage(data, mimeType)
}

// LocalSink writes images into a directory served by the HTTP server and
// returns site-relative URLs.
type LocalSink struct {
	dir       string
	urlPrefix string
}

var _ Sink = (*LocalSink)(nil)

// NewLocalSink creates dir if needed. urlPrefix is the path dir is served
// under, e.g. "/images".
func NewLocalSink(dir, urlPrefix string) (*LocalSink, error) {
	if dir == "" {
		return nil, errors.New("image directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &LocalSink{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

// Store writes data under a unique name. The file appears atomically: it is
// staged in dir and renamed, and the staging file is removed on failure.
func (s *LocalSink) Store(_ context.Context, data []byte, mimeType string) (*domain.ImageArtifact, error) {
	name := objectName(mimeType)

	tmp, err := os.CreateTemp(s.dir, ".staging-*")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return nil, fmt.Errorf("chmod image: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return nil, fmt.Errorf("publish image: %w", err)
	}
	committed = true

	return domain.NewReferencedImage(s.urlPrefix+"/"+name, mimeType)
}

// Uploader stores an object under name and returns its public URL.
// objectstore.S3Store satisfies it.
type Uploader interface {
	Put(ctx context.Context, name string, body io.ReadSeeker, size int64, contentType string) (string, error)
}

// ObjectStoreSink uploads images through an Uploader. Each upload is staged
// in a temporary file that is removed on every exit path.
type ObjectStoreSink struct {
	uploader Uploader
	tempDir  string
}

var _ Sink = (*ObjectStoreSink)(nil)

// NewObjectStoreSink creates an ObjectStoreSink. An empty tempDir uses the
// system default.
func NewObjectStoreSink(uploader Uploader, tempDir string) (*ObjectStoreSink, error) {
	if uploader == nil {
		return nil, errors.New("uploader cannot be nil")
	}
	return &ObjectStoreSink{uploader: uploader, tempDir: tempDir}, nil
}

// Store implements Sink.
func (s *ObjectStoreSink) Store(ctx context.Context, data []byte, mimeType string) (*domain.ImageArtifact, error) {
	tmp, err := os.CreateTemp(s.tempDir, "bouquet-upload-*")
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("stage image: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind staging file: %w", err)
	}

	url, err := s.uploader.Put(ctx, objectName(mimeType), tmp, size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return domain.NewReferencedImage(url, mimeType)
}

// objectName returns a unique, time-ordered file name for an image.
func objectName(mimeType string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), extensionFor(mimeType))
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
