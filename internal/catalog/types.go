package catalog

import (
	"errors"
	"strings"
)

// thumbScale is the divisor applied to a photo's natural width to size its
// thumbnail card.
const thumbScale = 20

// ImageRecord is the normalized form of a catalog photo.
type ImageRecord struct {
	DisplayURL  string
	FullURL     string
	Description string
	Width       int
	Height      int
	OwnerHandle string
}

// ThumbWidth returns the display width of the record's thumbnail.
func (r ImageRecord) ThumbWidth() int {
	w := r.Width / thumbScale
	if w < 1 {
		return 1
	}
	return w
}

// Aspect returns width/height, or zero when either dimension is unknown.
func (r ImageRecord) Aspect() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Valid reports whether the record can be displayed.
func (r ImageRecord) Valid() bool {
	return strings.TrimSpace(r.DisplayURL) != "" && strings.TrimSpace(r.OwnerHandle) != ""
}

// photo mirrors the subset of the catalog photo object we read.
type photo struct {
	URLs struct {
		Regular string `json:"regular"`
		Full    string `json:"full"`
	} `json:"urls"`
	AltDescription *string `json:"alt_description"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	User           struct {
		Username string `json:"username"`
	} `json:"user"`
}

// photoList is the array body of /photos/random and /users/:name/photos.
type photoList []photo

func (l *photoList) validate() error {
	if *l == nil {
		return errors.New("expected a photo array")
	}
	return nil
}

// searchResponse mirrors /search/photos.
type searchResponse struct {
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	Results    *[]photo `json:"results"`
}

func (r *searchResponse) validate() error {
	if r.Results == nil {
		return errors.New("missing results")
	}
	return nil
}

func (p photo) record() ImageRecord {
	rec := ImageRecord{
		DisplayURL:  strings.TrimSpace(p.URLs.Regular),
		FullURL:     strings.TrimSpace(p.URLs.Full),
		Width:       p.Width,
		Height:      p.Height,
		OwnerHandle: strings.TrimSpace(p.User.Username),
	}
	if p.AltDescription != nil {
		rec.Description = *p.AltDescription
	}
	if rec.FullURL == "" {
		rec.FullURL = rec.DisplayURL
	}
	return rec
}

// normalize converts raw photos into records, dropping entries that cannot be
// displayed and keeping at most limit records when limit is positive.
func normalize(photos []photo, limit int) (records []ImageRecord, dropped int) {
	records = make([]ImageRecord, 0, len(photos))
	for _, p := range photos {
		rec := p.record()
		if !rec.Valid() {
			dropped++
			continue
		}
		if limit > 0 && len(records) == limit {
			break
		}
		records = append(records, rec)
	}
	return records, dropped
}
