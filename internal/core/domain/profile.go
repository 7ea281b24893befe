package domain

// UnknownSubject is the fallback subject name when a page has no title element.
const UnknownSubject = "Unknown"

// SourceUploaded is the sentinel source locator for content supplied directly
// (an uploaded file) rather than fetched from a URL.
const SourceUploaded = "Uploaded HTML"

// DefaultSectionTitle names the implicit section that collects prose
// appearing before the first heading of a page.
const DefaultSectionTitle = "Overview"

// SourceType discriminates which ingestion path produced a profile.
type SourceType string

// Available source types.
const (
	// SourceTypeWiki marks profiles scraped from a wiki-style character page.
	SourceTypeWiki SourceType = "character_wiki"

	// SourceTypeLinkedIn marks profiles fetched from the LinkedIn API path.
	SourceTypeLinkedIn SourceType = "linkedin_profile"
)

// IsValid returns true if the source type is recognised.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeWiki, SourceTypeLinkedIn:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SourceType) String() string {
	return string(s)
}

// InfoboxEntry is one label/value pair harvested from a structured
// side-panel on a wiki page.
type InfoboxEntry struct {
	// Label is the row label (e.g. "Allegiance").
	Label string `json:"label"`

	// Value is the row value text.
	Value string `json:"value"`
}

// Section is a named, contiguous span of prose text delimited by heading
// elements in the source document.
type Section struct {
	// Title is the cleaned heading text (editorial markers stripped).
	Title string `json:"title"`

	// Text is the concatenated prose under the heading. Never empty in a
	// valid ProfileRecord.
	Text string `json:"text"`
}

// ProfileRecord is the structured result of extracting a profile page.
// It is produced once per extraction and treated as immutable; the chunker
// consumes it exactly once.
//
// Sections and Infobox are ordered slices rather than maps so that document
// order survives JSON round-trips.
type ProfileRecord struct {
	// Name is the subject's display name, never empty (falls back to
	// UnknownSubject).
	Name string `json:"name"`

	// Source is the origin locator: a URL, a file path, or SourceUploaded.
	Source string `json:"source"`

	// SourceType records which ingestion path produced the record.
	SourceType SourceType `json:"source_type"`

	// Infobox holds label/value pairs from the structured side-panel,
	// in document order. Nil when the page has none.
	Infobox []InfoboxEntry `json:"infobox,omitempty"`

	// Sections holds the prose sections in document order. Entries with
	// empty text are never retained.
	Sections []Section `json:"sections"`
}

// HasContent reports whether the record carries anything worth indexing.
// A record with no sections and no infobox cannot produce chunks.
func (r *ProfileRecord) HasContent() bool {
	return len(r.Sections) > 0 || len(r.Infobox) > 0
}

// SectionText returns the text of the named section, if present.
func (r *ProfileRecord) SectionText(title string) (string, bool) {
	for i := range r.Sections {
		if r.Sections[i].Title == title {
			return r.Sections[i].Text, true
		}
	}
	return "", false
}
