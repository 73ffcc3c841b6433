package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists a named blob and returns its public location.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DurationProber derives the duration in seconds of a local media file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Uploader moves multipart uploads into the blob store. Video uploads are
// staged to a temp file first so the duration can be probed before upload.
type Uploader struct {
	Store Store
	Probe DurationProber
}

// SaveImage streams an uploaded image straight into the store.
func (u *Uploader) SaveImage(ctx context.Context, fh *multipart.FileHeader, keyPrefix string) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return u.Store.Save(ctx, objectKey(keyPrefix, fh.Filename), file)
}

// SaveVideo stages the upload locally, probes its duration, then uploads.
// A video without a measurable duration is rejected with ErrNoDuration.
func (u *Uploader) SaveVideo(ctx context.Context, fh *multipart.FileHeader, keyPrefix string) (string, float64, error) {
	file, err := fh.Open()
	if err != nil {
		return "", 0, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "viewtube-upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", 0, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		return "", 0, fmt.Errorf("stage upload: %w", err)
	}

	duration, err := u.Probe.Duration(ctx, tmp.Name())
	if err != nil {
		return "", 0, err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("rewind staged upload: %w", err)
	}

	location, err := u.Store.Save(ctx, objectKey(keyPrefix, fh.Filename), tmp)
	if err != nil {
		return "", 0, err
	}

	return location, duration, nil
}

func objectKey(prefix, filename string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(filename))
}
