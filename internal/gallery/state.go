package gallery

import (
	"time"

	"github.com/five82/shutter/internal/catalog"
)

// Mode selects the heading shown above the grid.
type Mode int

const (
	ModeRandom Mode = iota
	ModeUserFiltered
)

func (m Mode) String() string {
	switch m {
	case ModeUserFiltered:
		return "user"
	default:
		return "random"
	}
}

const headingSuffix = " photos"

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeError
	NoticeNotFound
)

// Notice is a transient message about the last failed intent.
type Notice struct {
	Kind    NoticeKind
	Message string
	At      time.Time
}

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool {
	return n.Kind == NoticeNone
}

// State is the gallery as the UI sees it.
type State struct {
	Images       []catalog.ImageRecord
	Mode         Mode
	Selected     *catalog.ImageRecord
	PendingQuery string
	Notice       Notice
	Loading      bool
}

// Heading returns the text shown above the grid: empty in random mode or
// when there is nothing to attribute, otherwise "<owner of first image> photos".
func (s State) Heading() string {
	if s.Mode != ModeUserFiltered || len(s.Images) == 0 {
		return ""
	}
	return s.Images[0].OwnerHandle + headingSuffix
}

// Thumbnail is one grid cell.
type Thumbnail struct {
	URL   string
	Alt   string
	Owner string
	Width int
}

// Thumbnails derives the grid cells in display order.
func (s State) Thumbnails() []Thumbnail {
	out := make([]Thumbnail, len(s.Images))
	for i, img := range s.Images {
		out[i] = Thumbnail{
			URL:   img.DisplayURL,
			Alt:   img.Description,
			Owner: img.OwnerHandle,
			Width: img.ThumbWidth(),
		}
	}
	return out
}

// IndexOf returns the position of rec in Images, or -1.
func (s State) IndexOf(rec catalog.ImageRecord) int {
	for i, img := range s.Images {
		if img == rec {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	dup := s
	dup.Images = cloneImages(s.Images)
	if s.Selected != nil {
		sel := *s.Selected
		dup.Selected = &sel
	}
	return dup
}

func cloneImages(images []catalog.ImageRecord) []catalog.ImageRecord {
	if len(images) == 0 {
		return nil
	}
	dup := make([]catalog.ImageRecord, len(images))
	copy(dup, images)
	return dup
}
