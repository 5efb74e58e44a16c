package models

import "strings"

// MediaKind is the media_type of a feed entry
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// videoPlaceholder is shown on video cards that carry no thumbnail
const videoPlaceholder = "https://i.ytimg.com/vi_webp/1/1.webp"

// Entry represents one dated media record of the feed
type Entry struct {
	Date         string    `json:"date"`
	Title        string    `json:"title,omitempty"`
	MediaType    MediaKind `json:"media_type,omitempty"`
	Url          string    `json:"url,omitempty"`
	HdUrl        string    `json:"hdurl,omitempty"`
	ThumbnailUrl string    `json:"thumbnail_url,omitempty"`
	Explanation  string    `json:"explanation,omitempty"`
}

// IsVideo reports whether the entry should be rendered as an embedded video.
// Unknown media types are rendered as images.
func (e Entry) IsVideo() bool {
	return e.MediaType == MediaVideo
}

// DisplayTitle returns the title or "Untitled"
func (e Entry) DisplayTitle() string {
	if e.Title == "" {
		return "Untitled"
	}
	return e.Title
}

// CardImageURL returns the image shown on the entry's gallery card
func (e Entry) CardImageURL() string {
	if e.IsVideo() {
		if e.ThumbnailUrl != "" {
			return e.ThumbnailUrl
		}
		return videoPlaceholder
	}
	if e.Url != "" {
		return e.Url
	}
	return e.HdUrl
}

// DetailImageURL returns the image shown in the detail view, preferring the HD version
func (e Entry) DetailImageURL() string {
	if e.HdUrl != "" {
		return e.HdUrl
	}
	return e.Url
}

// DetailPath returns the path of the entry's detail page
func (e Entry) DetailPath() string {
	return "/entry/" + e.Date
}

// EmbedURL returns an iframe-friendly URL for video entries.
// YouTube watch links are rewritten to their embed form.
func (e Entry) EmbedURL() string {
	if !e.IsVideo() || e.Url == "" {
		return ""
	}
	if strings.Contains(e.Url, "embed") {
		return e.Url
	}
	return strings.Replace(e.Url, "watch?v=", "embed/", 1)
}

// Window is an ordered selection of entries for display
type Window struct {
	RequestedStart string  `json:"requestedStart,omitempty"`
	Start          string  `json:"start"`
	Fallback       bool    `json:"fallback"`
	Entries        []Entry `json:"entries"`
}

// Page represents the gallery page data
type Page struct {
	Fact   string
	Notice string
	Window Window
}

// Detail represents the detail page data for a single entry
type Detail struct {
	Entry Entry
	Fact  string
}

// DateLayout is the calendar date format used as the feed key
const DateLayout = "2006-01-02"
