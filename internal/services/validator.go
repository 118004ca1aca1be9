package services

import (
	"fmt"
	"mime"
	"strings"

	"github.com/portfolio-site/backend/internal/models"
)

// ValidateFile checks a candidate file against the policy of its media kind.
//
// The file is rejected with ErrInvalidType when its MIME type is not accepted for the kind
// and with ErrTooLarge when it exceeds the kind's size limit. An unknown kind fails with ErrInvalidKind.
func ValidateFile(kind models.MediaKind, file models.CandidateFile) error {
	policy, ok := kind.Policy()
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrInvalidKind, kind)
	}

	if !policy.Accepts(normalizeContentType(file.ContentType)) {
		return fmt.Errorf("%s: %w: %s is not allowed for %s", file.Name, models.ErrInvalidType, file.ContentType, kind)
	}
	if file.Size > policy.MaxSize {
		return fmt.Errorf("%s: %w: %d bytes exceeds %d", file.Name, models.ErrTooLarge, file.Size, policy.MaxSize)
	}

	return nil
}

// normalizeContentType drops parameters and lowercases a MIME type
func normalizeContentType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
