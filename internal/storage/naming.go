package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const maxExtensionLength = 10

// GenerateObjectName builds a collision resistant object name:
// a millisecond timestamp, a random suffix and the original extension.
// When the original name has no extension it is inferred from the content type.
func GenerateObjectName(originalName, contentType string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, Extension(originalName, contentType))
}

// Extension returns the sanitized extension of name, falling back to the content type
func Extension(name, contentType string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if !isSafeExtension(ext) {
		ext = ""
	}
	if ext == "" && contentType != "" {
		if mt := mimetype.Lookup(contentType); mt != nil {
			ext = mt.Extension()
		}
	}
	return ext
}

func isSafeExtension(ext string) bool {
	if len(ext) < 2 || len(ext) > maxExtensionLength || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// ObjectPath returns the project scoped path of an object, or a temp path
// for uploads made before the project exists.
func ObjectPath(projectID, objectName string) string {
	if projectID == "" {
		return path.Join("temp", objectName)
	}
	return path.Join("projects", projectID, objectName)
}

// ProjectPrefix returns the folder holding a project's objects
func ProjectPrefix(projectID string) string {
	return path.Join("projects", projectID)
}

func joinObjectPath(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
