package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

// localStorage implements the object store on the local filesystem.
// Each bucket is a directory under basePath.
type localStorage struct {
	basePath string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath string) *localStorage {
	return &localStorage{
		basePath: basePath,
	}
}

// generatePath generates the full file path based on bucket and object path
func (s *localStorage) generatePath(bucket, objectPath string) (string, error) {
	if !validBucket(bucket) {
		return "", fmt.Errorf("invalid bucket: %q", bucket)
	}
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, bucket, filepath.FromSlash(cleaned)), nil
}

// Put writes the object through a temporary file so readers never see partial content
func (s *localStorage) Put(ctx context.Context, bucket, objectPath string, reader io.Reader, size int64, contentType string) error {
	path, err := s.generatePath(bucket, objectPath)
	if err != nil {
		return err
	}

	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, readerWithContext(ctx, reader))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("file size mismatch: wrote %d bytes, expected %d", written, size)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

// Open opens an object for reading; the caller closes it
func (s *localStorage) Open(ctx context.Context, bucket, objectPath string) (io.ReadSeekCloser, ObjectInfo, error) {
	path, err := s.generatePath(bucket, objectPath)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, ObjectInfo{}, fmt.Errorf("failed to get file info: %w", err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, ObjectInfo{}, ErrObjectNotFound
	}

	contentType := "application/octet-stream"
	if detected, err := mimetype.DetectReader(file); err == nil {
		contentType = detected.String()
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, ObjectInfo{}, fmt.Errorf("failed to rewind file: %w", err)
	}

	info := ObjectInfo{
		Name:        stat.Name(),
		Path:        objectPath,
		Size:        stat.Size(),
		ContentType: contentType,
		ModTime:     stat.ModTime(),
	}
	return file, info, nil
}

// List returns the direct children of prefix, sorted by name
func (s *localStorage) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	dir, err := s.generatePath(bucket, prefix)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []ObjectInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	objects := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		// Temporary files of in-flight uploads
		if len(entry.Name()) > 0 && entry.Name()[0] == '.' {
			continue
		}
		info := ObjectInfo{
			Name:  entry.Name(),
			Path:  joinObjectPath(prefix, entry.Name()),
			IsDir: entry.IsDir(),
		}
		if fi, err := entry.Info(); err == nil {
			info.Size = fi.Size()
			info.ModTime = fi.ModTime()
		}
		objects = append(objects, info)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// Remove deletes an object
func (s *localStorage) Remove(ctx context.Context, bucket, objectPath string) error {
	path, err := s.generatePath(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// contextReader stops a copy once the context is cancelled
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &contextReader{ctx: ctx, r: r}
}
