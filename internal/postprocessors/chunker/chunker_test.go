package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

func wikiRecord(sections ...domain.Section) *domain.ProfileRecord {
	return &domain.ProfileRecord{
		Name:       "Jon Snow",
		Source:     "https://example.fandom.com/wiki/Jon_Snow",
		SourceType: domain.SourceTypeWiki,
		Sections:   sections,
	}
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.chunkSize != domain.DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", domain.DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != domain.DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", domain.DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		c, err := New(WithChunkSize(200), WithOverlap(10), WithMinSectionLen(5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.chunkSize != 200 || c.overlap != 10 || c.minSectionLen != 5 {
			t.Errorf("options not applied: %+v", c)
		}
	})

	t.Run("overlap equal to chunk size rejected", func(t *testing.T) {
		if _, err := New(WithChunkSize(100), WithOverlap(100)); err != domain.ErrInvalidChunking {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("overlap above chunk size rejected", func(t *testing.T) {
		if _, err := New(WithChunkSize(100), WithOverlap(150)); err != domain.ErrInvalidChunking {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})

	t.Run("non-positive chunk size rejected", func(t *testing.T) {
		if _, err := New(WithChunkSize(0)); err != domain.ErrInvalidChunking {
			t.Errorf("expected ErrInvalidChunking, got %v", err)
		}
	})
}

func TestSplit_NilRecord(t *testing.T) {
	c, _ := New()
	if _, err := c.Split(nil); err != domain.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSplit_EmptyRecord(t *testing.T) {
	c, _ := New()
	chunks, err := c.Split(wikiRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected empty sequence for empty record, got %d chunks", len(chunks))
	}
}

func TestSplit_SmallSectionYieldsOneChunk(t *testing.T) {
	c, _ := New(WithChunkSize(500), WithOverlap(50), WithMinSectionLen(10))
	text := "Raised at Winterfell alongside his siblings."

	chunks, err := c.Split(wikiRecord(domain.Section{Title: "History", Text: text}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if chunk.Text != "Section: History\n\n"+text {
		t.Errorf("unexpected chunk text: %q", chunk.Text)
	}
	if chunk.Metadata[domain.MetaSection] != "History" {
		t.Errorf("expected section metadata History, got %q", chunk.Metadata[domain.MetaSection])
	}
	if chunk.Metadata[domain.MetaSubjectName] != "Jon Snow" {
		t.Errorf("unexpected subject metadata: %q", chunk.Metadata[domain.MetaSubjectName])
	}
	if chunk.Metadata[domain.MetaSourceType] != string(domain.SourceTypeWiki) {
		t.Errorf("unexpected source type metadata: %q", chunk.Metadata[domain.MetaSourceType])
	}
	if chunk.Sequence != 0 {
		t.Errorf("expected sequence 0, got %d", chunk.Sequence)
	}
	if chunk.ID == "" {
		t.Error("expected non-empty chunk ID")
	}
}

func TestSplit_TwoSectionsTwoPreDocs(t *testing.T) {
	c, _ := New(WithChunkSize(500), WithOverlap(50), WithMinSectionLen(10))
	record := wikiRecord(
		domain.Section{Title: "Overview", Text: strings.Repeat("a", 30)},
		domain.Section{Title: "History", Text: strings.Repeat("b", 60)},
	)

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Metadata[domain.MetaSection] != "Overview" || chunks[1].Metadata[domain.MetaSection] != "History" {
		t.Error("section order not preserved")
	}
}

func TestSplit_StubSectionsSkipped(t *testing.T) {
	c, _ := New(WithChunkSize(500), WithOverlap(50), WithMinSectionLen(50))
	record := wikiRecord(
		domain.Section{Title: "Stub", Text: "too short"},
		domain.Section{Title: "History", Text: strings.Repeat("b", 80)},
	)

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Metadata[domain.MetaSection] != "History" {
		t.Errorf("expected History chunk, got section %q", chunks[0].Metadata[domain.MetaSection])
	}
}

func TestSplit_InfoboxChunkFirst(t *testing.T) {
	c, _ := New(WithChunkSize(500), WithOverlap(50), WithMinSectionLen(10))
	record := wikiRecord(domain.Section{Title: "History", Text: strings.Repeat("b", 80)})
	record.Infobox = []domain.InfoboxEntry{
		{Label: "Allegiance", Value: "Night's Watch"},
		{Label: "Culture", Value: "Northmen"},
		{Label: "Status", Value: "Alive"},
	}

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	infobox := chunks[0]
	if infobox.Metadata[domain.MetaSection] != domain.InfoboxSection {
		t.Errorf("expected infobox chunk first, got section %q", infobox.Metadata[domain.MetaSection])
	}

	// Indent-2 JSON object, labels in document order.
	want := "Character Information:\n" + `{
  "Allegiance": "Night's Watch",
  "Culture": "Northmen",
  "Status": "Alive"
}`
	if infobox.Text != want {
		t.Errorf("infobox rendering mismatch:\ngot  %q\nwant %q", infobox.Text, want)
	}
}

func TestSplit_OversizedSection(t *testing.T) {
	const size, overlap = 500, 50
	c, _ := New(WithChunkSize(size), WithOverlap(overlap), WithMinSectionLen(10))
	text := strings.Repeat("x", 2*size)

	chunks, err := c.Split(wikiRecord(domain.Section{Title: "History", Text: text}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Overlap-driven window advance: 0..500, 450..950, 900..1000.
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	header := "Section: History\n\n"
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk.Text, header) {
			t.Errorf("chunk %d missing header", i)
		}
		body := strings.TrimPrefix(chunk.Text, header)
		if len(body) > size {
			t.Errorf("chunk %d body exceeds chunk size: %d", i, len(body))
		}
		if chunk.Metadata[domain.MetaSection] != "History" {
			t.Errorf("chunk %d drifted to section %q", i, chunk.Metadata[domain.MetaSection])
		}
		if chunk.Sequence != i {
			t.Errorf("chunk %d has sequence %d", i, chunk.Sequence)
		}
	}

	// Concatenating bodies minus the overlap reconstructs the section.
	reconstructed := strings.TrimPrefix(chunks[0].Text, header)
	for _, chunk := range chunks[1:] {
		body := strings.TrimPrefix(chunk.Text, header)
		reconstructed += body[overlap:]
	}
	if reconstructed != text {
		t.Errorf("reconstruction mismatch: got %d chars, want %d", len(reconstructed), len(text))
	}
}

func TestSplit_AdjacentChunksShareOverlap(t *testing.T) {
	const size, overlap = 100, 20
	c, _ := New(WithChunkSize(size), WithOverlap(overlap), WithMinSectionLen(10))
	text := strings.Repeat("abcdefghij", 30) // 300 chars

	chunks, err := c.Split(wikiRecord(domain.Section{Title: "History", Text: text}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	header := "Section: History\n\n"
	for i := 1; i < len(chunks); i++ {
		prev := strings.TrimPrefix(chunks[i-1].Text, header)
		curr := strings.TrimPrefix(chunks[i].Text, header)
		if prev[len(prev)-overlap:] != curr[:overlap] {
			t.Errorf("chunks %d and %d do not share %d overlapping chars", i-1, i, overlap)
		}
	}
}

func TestSplit_WindowsNeverCutRunes(t *testing.T) {
	const size, overlap = 100, 10
	c, _ := New(WithChunkSize(size), WithOverlap(overlap), WithMinSectionLen(10))
	// 3-byte runes, so nominal window boundaries land mid-rune.
	text := strings.Repeat("日", 200)

	chunks, err := c.Split(wikiRecord(domain.Section{Title: "History", Text: text}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	header := "Section: History\n\n"
	for i, chunk := range chunks {
		body := strings.TrimPrefix(chunk.Text, header)
		if !utf8.ValidString(body) {
			t.Errorf("chunk %d body is not valid UTF-8: %q", i, body)
		}
		if len(body) > size {
			t.Errorf("chunk %d body exceeds chunk size: %d", i, len(body))
		}
	}
}

func TestSplit_FlatPathMultibyteReconstructs(t *testing.T) {
	c, _ := New(WithChunkSize(100), WithOverlap(50), WithMinSectionLen(10))
	text := strings.Repeat("日", 160)
	record := &domain.ProfileRecord{
		Name:       "John Doe",
		Source:     "https://www.linkedin.com/in/johndoe",
		SourceType: domain.SourceTypeLinkedIn,
		Sections:   []domain.Section{{Title: "Profile", Text: text}},
	}

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var reconstructed string
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk.Text) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		reconstructed += chunk.Text
	}
	if reconstructed != text {
		t.Error("flat chunks do not reconstruct the profile text")
	}
}

func TestSplit_OversizedInfoboxSplitsToo(t *testing.T) {
	c, _ := New(WithChunkSize(100), WithOverlap(10), WithMinSectionLen(10))
	record := wikiRecord()
	record.Infobox = []domain.InfoboxEntry{
		{Label: "Biography", Value: strings.Repeat("v", 300)},
	}

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected oversized infobox to split, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Metadata[domain.MetaSection] != domain.InfoboxSection {
			t.Errorf("chunk %d lost infobox section tag", i)
		}
	}
}

func TestSplit_FlatPath(t *testing.T) {
	c, _ := New(WithChunkSize(100), WithOverlap(50), WithMinSectionLen(10))
	text := strings.Repeat("j", 250)
	record := &domain.ProfileRecord{
		Name:       "John Doe",
		Source:     "https://www.linkedin.com/in/johndoe",
		SourceType: domain.SourceTypeLinkedIn,
		Sections:   []domain.Section{{Title: "Profile", Text: text}},
	}

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Flat path uses no overlap: 0..100, 100..200, 200..250.
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	var reconstructed string
	for i, chunk := range chunks {
		if strings.Contains(chunk.Text, "Section:") {
			t.Errorf("flat chunk %d carries a section header", i)
		}
		if chunk.Metadata[domain.MetaSourceType] != string(domain.SourceTypeLinkedIn) {
			t.Errorf("flat chunk %d has wrong source type", i)
		}
		reconstructed += chunk.Text
	}
	if reconstructed != text {
		t.Error("flat chunks do not reconstruct the profile text")
	}
}

func TestSplit_SequencesAreGlobalAndOrdered(t *testing.T) {
	c, _ := New(WithChunkSize(100), WithOverlap(10), WithMinSectionLen(10))
	record := wikiRecord(
		domain.Section{Title: "Overview", Text: strings.Repeat("a", 250)},
		domain.Section{Title: "History", Text: strings.Repeat("b", 250)},
	)
	record.Infobox = []domain.InfoboxEntry{{Label: "Culture", Value: "Northmen"}}

	chunks, err := c.Split(record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, chunk := range chunks {
		if chunk.Sequence != i {
			t.Errorf("chunk %d has sequence %d", i, chunk.Sequence)
		}
	}

	if chunks[0].Metadata[domain.MetaSection] != domain.InfoboxSection {
		t.Error("infobox chunk not first")
	}

	// Section chunks stay grouped: no interleaving across sections.
	var seen []string
	for _, chunk := range chunks {
		section := chunk.Metadata[domain.MetaSection]
		if len(seen) == 0 || seen[len(seen)-1] != section {
			seen = append(seen, section)
		}
	}
	want := []string{domain.InfoboxSection, "Overview", "History"}
	if len(seen) != len(want) {
		t.Fatalf("section grouping broken: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("section order %v, want %v", seen, want)
		}
	}
}
