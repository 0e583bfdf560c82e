// Package asset classifies remote media assets and derives safe local
// filenames from their URLs.
package asset

import (
	"path"
	"strings"
)

// Category is the media type bucket an asset is filed under.
type Category string

const (
	CategoryAudio   Category = "audio"
	CategoryVideo   Category = "video"
	CategoryImage   Category = "image"
	CategoryUnknown Category = "unknown"
)

// Categories lists the buckets that own a destination directory, in
// presentation order.
var Categories = []Category{CategoryAudio, CategoryVideo, CategoryImage}

// extCategories maps lowercased path extensions (without the dot) to
// their category.
var extCategories = map[string]Category{
	// audio
	"mp3": CategoryAudio, "wav": CategoryAudio, "ogg": CategoryAudio,
	"m4a": CategoryAudio, "aac": CategoryAudio,
	// video
	"mp4": CategoryVideo, "avi": CategoryVideo, "mov": CategoryVideo,
	"wmv": CategoryVideo, "flv": CategoryVideo, "webm": CategoryVideo,
	"mkv": CategoryVideo,
	// image
	"png": CategoryImage, "jpg": CategoryImage, "jpeg": CategoryImage,
	"gif": CategoryImage, "bmp": CategoryImage, "webp": CategoryImage,
	"svg": CategoryImage,
}

// dirNames maps categories to their destination directory names.
var dirNames = map[Category]string{
	CategoryAudio: "audios",
	CategoryVideo: "videos",
	CategoryImage: "images",
}

// Dir returns the destination directory name for the category, or ""
// for CategoryUnknown, which has no directory.
func (c Category) Dir() string {
	return dirNames[c]
}

// Label returns a human-readable plural label for summaries.
func (c Category) Label() string {
	switch c {
	case CategoryAudio:
		return "Audio"
	case CategoryVideo:
		return "Video"
	case CategoryImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// Classify maps a filename or URL to a media category by its extension.
// The extension is taken from the path component with any query string
// or fragment stripped, case-insensitively. Classification is total:
// unrecognized or missing extensions return CategoryUnknown.
func Classify(name string) Category {
	ext := Ext(name)
	if ext == "" {
		return CategoryUnknown
	}
	if c, ok := extCategories[ext]; ok {
		return c
	}
	return CategoryUnknown
}

// Ext extracts the lowercased extension (without the dot) from a
// filename or URL, ignoring any query string or fragment.
func Ext(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Ref is one extracted asset: a URL plus its derived local filename and
// category. Refs are immutable once created.
type Ref struct {
	URL      string
	Filename string
	Category Category
}

// NewRef builds a Ref from a raw URL, deriving the filename from the
// last path segment and classifying by extension.
func NewRef(rawURL string) Ref {
	return Ref{
		URL:      rawURL,
		Filename: FilenameFromURL(rawURL),
		Category: Classify(rawURL),
	}
}
