// Package storage provides object stores for uploaded media and the signer for their retrieval URLs
package storage

import (
	"errors"
	"strings"
	"time"
)

// ErrObjectNotFound is returned when a bucket has no object under the requested path
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object or, when IsDir is set, a path prefix
type ObjectInfo struct {
	Name        string
	Path        string
	Size        int64
	ContentType string
	ModTime     time.Time
	IsDir       bool
}

// cleanObjectPath normalises an object path and rejects anything escaping the bucket
func cleanObjectPath(objectPath string) (string, error) {
	objectPath = strings.TrimLeft(objectPath, "/")
	if objectPath == "" {
		return "", errors.New("empty object path")
	}
	for _, segment := range strings.Split(objectPath, "/") {
		if segment == ".." || segment == "." {
			return "", errors.New("invalid object path")
		}
	}
	return objectPath, nil
}

func validBucket(bucket string) bool {
	return bucket != "" && !strings.ContainsAny(bucket, `/\.`)
}
