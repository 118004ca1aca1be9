package models

import (
	"slices"
	"time"
)

// MediaKind represents one of the media collections a project owns
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
)

const mebibyte = 1024 * 1024

// KindPolicy describes everything that differs between media kinds.
//
// Adding a new kind means adding one entry to kindPolicies; call sites look the
// policy up instead of branching on the kind.
type KindPolicy struct {
	Kind              MediaKind
	AcceptedTypes     []string
	MaxSize           int64
	SupportsThumbnail bool
	// DefaultThumbnail marks the first item added to an empty collection as thumbnail
	DefaultThumbnail bool
	Bucket           string
	Table            string
	URLColumn        string
	LabelColumn      string
}

var kindPolicies = map[MediaKind]KindPolicy{
	MediaKindImage: {
		Kind:              MediaKindImage,
		AcceptedTypes:     []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
		MaxSize:           10 * mebibyte,
		SupportsThumbnail: true,
		DefaultThumbnail:  true,
		Bucket:            "images",
		Table:             "project_images",
		URLColumn:         "image_url",
		LabelColumn:       "alt_text",
	},
	MediaKindAudio: {
		Kind:          MediaKindAudio,
		AcceptedTypes: []string{"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/aac"},
		MaxSize:       50 * mebibyte,
		Bucket:        "audio",
		Table:         "project_audio",
		URLColumn:     "audio_url",
		LabelColumn:   "title",
	},
	MediaKindVideo: {
		Kind:              MediaKindVideo,
		AcceptedTypes:     []string{"video/mp4", "video/webm", "video/ogg", "video/quicktime", "video/x-msvideo"},
		MaxSize:           100 * mebibyte,
		SupportsThumbnail: true,
		Bucket:            "video",
		Table:             "project_videos",
		URLColumn:         "video_url",
		LabelColumn:       "title",
	},
}

// AllKinds returns every known media kind in presentation order
func AllKinds() []MediaKind {
	return []MediaKind{MediaKindImage, MediaKindAudio, MediaKindVideo}
}

// Policy returns the capability table entry for the kind
func (k MediaKind) Policy() (KindPolicy, bool) {
	p, ok := kindPolicies[k]
	return p, ok
}

// IsValid reports whether the kind is known
func (k MediaKind) IsValid() bool {
	_, ok := kindPolicies[k]
	return ok
}

// SupportsThumbnail reports whether items of this kind can carry the thumbnail flag
func (k MediaKind) SupportsThumbnail() bool {
	return kindPolicies[k].SupportsThumbnail
}

// Accepts reports whether the MIME type is allowed for this kind
func (p KindPolicy) Accepts(contentType string) bool {
	return slices.Contains(p.AcceptedTypes, contentType)
}

// KindForBucket returns the kind stored in the given bucket
func KindForBucket(bucket string) (MediaKind, bool) {
	for kind, p := range kindPolicies {
		if p.Bucket == bucket {
			return kind, true
		}
	}
	return "", false
}

// KindMetadata holds the kind-specific descriptive field of an item.
// Images use AltText, audio and video use Title.
type KindMetadata struct {
	AltText string `json:"altText,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Label returns the descriptive text that applies to the kind
func (m KindMetadata) Label(kind MediaKind) string {
	if kind == MediaKindImage {
		return m.AltText
	}
	return m.Title
}

// MaxLabelLength is the number of characters the catalog keeps for alt text and titles
const MaxLabelLength = 512

// MetadataWithLabel builds kind metadata from a single descriptive text,
// cut to MaxLabelLength characters
func MetadataWithLabel(kind MediaKind, label string) KindMetadata {
	if runes := []rune(label); len(runes) > MaxLabelLength {
		label = string(runes[:MaxLabelLength])
	}
	if kind == MediaKindImage {
		return KindMetadata{AltText: label}
	}
	return KindMetadata{Title: label}
}

// MediaItem represents a persisted image, audio track or video of a project
type MediaItem struct {
	ID           string       `json:"id"`
	ProjectID    string       `json:"projectId"`
	Kind         MediaKind    `json:"kind"`
	LocationURL  string       `json:"url"`
	DisplayOrder int          `json:"displayOrder"`
	Metadata     KindMetadata `json:"metadata"`
	IsThumbnail  bool         `json:"isThumbnail"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// MetadataPatch is a partial metadata update; nil fields are left unchanged
type MetadataPatch struct {
	AltText     *string `json:"altText,omitempty"`
	Title       *string `json:"title,omitempty"`
	IsThumbnail *bool   `json:"isThumbnail,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p MetadataPatch) IsEmpty() bool {
	return p.AltText == nil && p.Title == nil && p.IsThumbnail == nil
}

// ProjectMedia groups the three ordered collections of a project
type ProjectMedia struct {
	Images []MediaItem `json:"images"`
	Audios []MediaItem `json:"audios"`
	Videos []MediaItem `json:"videos"`
}

// ByKind returns the collection holding items of the given kind
func (pm *ProjectMedia) ByKind(kind MediaKind) []MediaItem {
	switch kind {
	case MediaKindImage:
		return pm.Images
	case MediaKindAudio:
		return pm.Audios
	case MediaKindVideo:
		return pm.Videos
	}
	return nil
}

// Append adds the item to the collection of its kind
func (pm *ProjectMedia) Append(item MediaItem) {
	switch item.Kind {
	case MediaKindImage:
		pm.Images = append(pm.Images, item)
	case MediaKindAudio:
		pm.Audios = append(pm.Audios, item)
	case MediaKindVideo:
		pm.Videos = append(pm.Videos, item)
	}
}

// Thumbnail returns the image shown for the project in listing views: the one flagged
// as thumbnail, or the first image by display order when none is flagged.
// Images must be sorted by display order.
func (pm *ProjectMedia) Thumbnail() (MediaItem, bool) {
	for _, image := range pm.Images {
		if image.IsThumbnail {
			return image, true
		}
	}
	if len(pm.Images) == 0 {
		return MediaItem{}, false
	}
	return pm.Images[0], true
}

// CandidateFile is a file offered for upload, before validation
type CandidateFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Direction is a one-step move within an ordered list
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// IsValid reports whether the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionUp || d == DirectionDown
}
