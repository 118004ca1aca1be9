package models

// UploadState represents the upload progress of a staged item
type UploadState string

const (
	UploadStatePending   UploadState = "pending"
	UploadStateUploading UploadState = "uploading"
	UploadStateReady     UploadState = "ready"
	UploadStateFailed    UploadState = "failed"
)

// IsSettled reports whether the upload finished, successfully or not
func (s UploadState) IsSettled() bool {
	return s == UploadStateReady || s == UploadStateFailed
}

// StagedMediaItem is a media item held in a draft before it is committed.
//
// An empty ID means the item has never been persisted. Key identifies the item
// inside its draft and never changes, while the slice position does.
type StagedMediaItem struct {
	MediaItem
	Key             string      `json:"key"`
	LocalPreviewURL string      `json:"localPreviewUrl,omitempty"`
	UploadState     UploadState `json:"uploadState"`
	FailureReason   string      `json:"failureReason,omitempty"`
	SourceName      string      `json:"sourceName,omitempty"`
	ContentType     string      `json:"contentType,omitempty"`
	SourceBytes     []byte      `json:"-"`
}

// IsPersisted reports whether the catalog already holds this item
func (s StagedMediaItem) IsPersisted() bool {
	return s.ID != ""
}

// ItemError reports a failure for one item of a batch
type ItemError struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Err   error  `json:"-"`
}

// Error implements the error interface
func (e ItemError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e ItemError) Unwrap() error {
	return e.Err
}

// Message returns the underlying error text for API responses
func (e ItemError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// CommitReport summarises a staging commit.
// Items still Pending or Uploading are counted in Skipped; Failed items are reported in Errors.
type CommitReport struct {
	Persisted []MediaItem `json:"persisted"`
	Updated   int         `json:"updated"`
	Skipped   int         `json:"skipped"`
	Errors    []ItemError `json:"errors"`
}

// BatchReport summarises a multi-file upload processed one file at a time
type BatchReport struct {
	Added  []MediaItem `json:"added"`
	Errors []ItemError `json:"errors"`
}
