package domain

// FetchRequest selects exactly one source form for a profile fetch.
// The forms are honoured in priority order: Raw content first, then a local
// mock file, then a live URL fetch. Callers select the mode explicitly; the
// connector does not guess.
type FetchRequest struct {
	// URL is the page to fetch live. Used only when Raw and MockPath are
	// unset.
	URL string

	// MockPath is a local file holding a saved copy of the page. Takes
	// precedence over URL.
	MockPath string

	// Raw is page content supplied directly, e.g. from an uploaded file.
	// Takes precedence over both MockPath and URL.
	Raw []byte
}

// RawProfile represents opaque bytes fetched by a connector, before
// extraction.
type RawProfile struct {
	// Source is the origin locator the bytes came from: the fetched URL,
	// the mock file path, or SourceUploaded for direct content.
	Source string

	// SourceType records which connector produced the bytes.
	SourceType SourceType

	// Content is the raw page bytes (HTML or JSON).
	Content []byte
}
