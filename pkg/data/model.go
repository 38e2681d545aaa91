package data

// AnimeRecord is a provider-sourced anime kept in a watched or watchlist
// collection. Records are never mutated once stored.
type AnimeRecord struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	CoverImage  string `json:"coverImage"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"` // "jikan", "anilist"
}

// Note is the free-text annotation attached to an album image.
type Note struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// ImageRecord is an image copied into the album directory.
type ImageRecord struct {
	URI  string
	Note *Note
}

// HasNote reports whether the image carries a note.
func (r ImageRecord) HasNote() bool {
	return r.Note != nil && r.Note.Text != ""
}
