// Package chunker converts profile records into ordered, size-bounded chunk
// sequences with provenance metadata.
package chunker

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure Chunker implements the interface.
var _ driven.Splitter = (*Chunker)(nil)

// infoboxHeader prefixes the infobox chunk text.
const infoboxHeader = "Character Information:"

// sectionHeaderPrefix prefixes every section chunk text.
const sectionHeaderPrefix = "Section: "

// Chunker splits profile records into chunks. Chunks never span two
// sections; splitting happens within a section's text only.
type Chunker struct {
	chunkSize     int
	overlap       int
	minSectionLen int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum characters per chunk.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between adjacent chunks split from one
// oversized section.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// WithMinSectionLen sets the minimum section length worth indexing.
// Shorter sections are stubs and would only add retrieval noise.
func WithMinSectionLen(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minSectionLen = n
		}
	}
}

// New creates a chunker. An overlap that is not smaller than the chunk size
// cannot terminate the split loop and is rejected as a configuration error
// rather than silently clamped.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize:     domain.DefaultChunkSize,
		overlap:       domain.DefaultChunkOverlap,
		minSectionLen: domain.DefaultMinSectionLen,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 || c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, domain.ErrInvalidChunking
	}
	return c, nil
}

// preDoc is one pre-split document: a header, a body to split, and the
// metadata every chunk split from it inherits unchanged.
type preDoc struct {
	header   string
	body     string
	metadata map[string]string
	overlap  int
}

// Split converts the record into an ordered chunk sequence.
//
// Wiki path: the infobox (if present) becomes one pre-split document first,
// then each section above the minimum length becomes one pre-split document,
// in section order. Oversized documents are split by a length-bounded window
// advancing chunkSize-overlap per step; every emitted chunk re-carries its
// document's header so it stays self-describing out of context.
//
// LinkedIn path: the serialised profile is split flat, with no overlap and
// no header.
//
// A record with nothing to index yields an empty sequence and no error.
func (c *Chunker) Split(record *domain.ProfileRecord) ([]domain.Chunk, error) {
	if record == nil {
		return nil, domain.ErrInvalidInput
	}

	var preDocs []preDoc
	if record.SourceType == domain.SourceTypeLinkedIn {
		preDocs = c.flatPreDocs(record)
	} else {
		preDocs = c.sectionPreDocs(record)
	}

	var chunks []domain.Chunk
	for _, doc := range preDocs {
		for _, body := range splitText(doc.body, c.chunkSize, doc.overlap) {
			chunks = append(chunks, domain.Chunk{
				ID:       uuid.New().String(),
				Text:     doc.header + body,
				Metadata: copyMetadata(doc.metadata),
				Sequence: len(chunks),
			})
		}
	}

	logger.Info("Created %d chunks from %d pre-split documents", len(chunks), len(preDocs))
	return chunks, nil
}

// sectionPreDocs builds the wiki-path document list: infobox first, then
// qualifying sections in document order.
func (c *Chunker) sectionPreDocs(record *domain.ProfileRecord) []preDoc {
	base := baseMetadata(record)

	var docs []preDoc
	if len(record.Infobox) > 0 {
		docs = append(docs, preDoc{
			header:   infoboxHeader + "\n",
			body:     renderInfobox(record.Infobox),
			metadata: withSection(base, domain.InfoboxSection),
			overlap:  c.overlap,
		})
	}

	for _, section := range record.Sections {
		if len(section.Text) < c.minSectionLen {
			logger.Debug("Skipping stub section %q (%d chars)", section.Title, len(section.Text))
			continue
		}
		docs = append(docs, preDoc{
			header:   sectionHeaderPrefix + section.Title + "\n\n",
			body:     section.Text,
			metadata: withSection(base, section.Title),
			overlap:  c.overlap,
		})
	}
	return docs
}

// flatPreDocs builds the flat-path document list: one document holding the
// whole serialised profile, split without overlap.
func (c *Chunker) flatPreDocs(record *domain.ProfileRecord) []preDoc {
	texts := make([]string, 0, len(record.Sections))
	for _, section := range record.Sections {
		if section.Text != "" {
			texts = append(texts, section.Text)
		}
	}
	if len(texts) == 0 {
		return nil
	}

	section := domain.DefaultSectionTitle
	if len(record.Sections) > 0 {
		section = record.Sections[0].Title
	}
	return []preDoc{{
		body:     strings.Join(texts, "\n\n"),
		metadata: withSection(baseMetadata(record), section),
		overlap:  0,
	}}
}

// splitText emits windows of roughly size bytes, advancing size-overlap per
// step. Window boundaries are snapped back to rune starts so a chunk never
// holds a cut multi-byte character; snapping the start can stretch a window
// by a few bytes past size. Keeping end anchored to the unsnapped start
// means adjacent no-overlap windows always meet with no gap. The final
// window ends exactly at the end of the text.
func splitText(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}

	step := size - overlap
	var parts []string
	for start := 0; start < len(text); start += step {
		from := runeAlign(text, start)
		end := start + size
		if end >= len(text) {
			parts = append(parts, text[from:])
			break
		}
		to := runeAlign(text, end)
		if to <= from {
			// Window narrower than the rune at from.
			_, width := utf8.DecodeRuneInString(text[from:])
			to = from + width
		}
		parts = append(parts, text[from:to])
	}
	return parts
}

// runeAlign moves pos back to the start of the rune it lands inside.
func runeAlign(text string, pos int) int {
	for pos > 0 && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

// renderInfobox serialises the infobox as a two-space-indented JSON object,
// preserving document order. Built by hand because encoding/json sorts map
// keys.
func renderInfobox(entries []domain.InfoboxEntry) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, entry := range entries {
		label, _ := json.Marshal(entry.Label)
		value, _ := json.Marshal(entry.Value)
		b.WriteString("  ")
		b.Write(label)
		b.WriteString(": ")
		b.Write(value)
		if i < len(entries)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

func baseMetadata(record *domain.ProfileRecord) map[string]string {
	return map[string]string{
		domain.MetaSubjectName: record.Name,
		domain.MetaSource:      record.Source,
		domain.MetaSourceType:  string(record.SourceType),
	}
}

func withSection(base map[string]string, section string) map[string]string {
	md := copyMetadata(base)
	md[domain.MetaSection] = section
	return md
}

func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
