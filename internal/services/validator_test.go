package services

import (
	"testing"

	"github.com/portfolio-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

const mib = 1024 * 1024

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		kind          models.MediaKind
		file          models.CandidateFile
		expectedError error
	}{
		{
			name: "valid png",
			kind: models.MediaKindImage,
			file: models.CandidateFile{Name: "a.png", ContentType: "image/png", Size: 1024},
		},
		{
			name: "image at exact limit",
			kind: models.MediaKindImage,
			file: models.CandidateFile{Name: "a.jpg", ContentType: "image/jpeg", Size: 10 * mib},
		},
		{
			name:          "image one byte over limit",
			kind:          models.MediaKindImage,
			file:          models.CandidateFile{Name: "a.jpg", ContentType: "image/jpeg", Size: 10*mib + 1},
			expectedError: models.ErrTooLarge,
		},
		{
			name:          "svg rejected",
			kind:          models.MediaKindImage,
			file:          models.CandidateFile{Name: "a.svg", ContentType: "image/svg+xml", Size: 10},
			expectedError: models.ErrInvalidType,
		},
		{
			name: "content type parameters ignored",
			kind: models.MediaKindAudio,
			file: models.CandidateFile{Name: "a.ogg", ContentType: "Audio/OGG; codecs=opus", Size: 10},
		},
		{
			name:          "audio over limit",
			kind:          models.MediaKindAudio,
			file:          models.CandidateFile{Name: "a.wav", ContentType: "audio/wav", Size: 50*mib + 1},
			expectedError: models.ErrTooLarge,
		},
		{
			name:          "video file offered as audio",
			kind:          models.MediaKindAudio,
			file:          models.CandidateFile{Name: "a.mp4", ContentType: "video/mp4", Size: 10},
			expectedError: models.ErrInvalidType,
		},
		{
			name: "video at limit",
			kind: models.MediaKindVideo,
			file: models.CandidateFile{Name: "a.mov", ContentType: "video/quicktime", Size: 100 * mib},
		},
		{
			name:          "wrong type and too large reports type",
			kind:          models.MediaKindVideo,
			file:          models.CandidateFile{Name: "a.txt", ContentType: "text/plain", Size: 200 * mib},
			expectedError: models.ErrInvalidType,
		},
		{
			name:          "unknown kind",
			kind:          models.MediaKind("document"),
			file:          models.CandidateFile{Name: "a.pdf", ContentType: "application/pdf", Size: 10},
			expectedError: models.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.kind, tt.file)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Contains(t, err.Error(), tt.file.Name)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// Every combination of accepted/rejected type and size around the limit is rejected iff
// the type is not in the kind's list or the size exceeds the limit.
func TestValidateFile_PolicyProperty(t *testing.T) {
	candidateTypes := []string{
		"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "image/svg+xml",
		"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/aac", "audio/flac",
		"video/mp4", "video/webm", "video/ogg", "video/quicktime", "video/x-msvideo", "video/x-matroska",
		"application/octet-stream", "",
	}

	for _, kind := range models.AllKinds() {
		policy, _ := kind.Policy()
		sizes := []int64{0, 1, policy.MaxSize - 1, policy.MaxSize, policy.MaxSize + 1, 4 * policy.MaxSize}

		for _, contentType := range candidateTypes {
			for _, size := range sizes {
				err := ValidateFile(kind, models.CandidateFile{Name: "f", ContentType: contentType, Size: size})
				shouldReject := !policy.Accepts(contentType) || size > policy.MaxSize
				assert.Equal(t, shouldReject, err != nil, "kind=%s type=%q size=%d", kind, contentType, size)
			}
		}
	}
}
