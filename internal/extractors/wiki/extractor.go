// Package wiki extracts structured profile records from wiki-style
// character pages. The page is segmented into named prose sections plus an
// optional infobox, preserving document order.
package wiki

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Selectors for the wiki page structure.
const (
	titleSelector   = "h1.page-header__title"
	contentSelector = "div.mw-parser-output"
	infoboxRows     = "aside.portable-infobox div.pi-item"
	infoboxLabel    = "h3.pi-data-label"
	infoboxValue    = "div.pi-data-value"
)

// editMarker is the editorial suffix stripped from section headings.
const editMarker = "[edit]"

// deniedTags are structural/non-content elements. Content is skipped when
// its immediate parent is one of these.
var deniedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"header":   true,
	"footer":   true,
	"nav":      true,
	"aside":    true,
}

// Extractor parses wiki-article HTML into a ProfileRecord.
type Extractor struct {
	minParagraphLen int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithMinParagraphLen sets the minimum visible paragraph length kept during
// the content walk. Shorter paragraphs are boilerplate or captions.
func WithMinParagraphLen(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.minParagraphLen = n
		}
	}
}

// New creates a new wiki extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{minParagraphLen: domain.DefaultMinParagraphLen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SourceType identifies the ingestion path this extractor serves.
func (e *Extractor) SourceType() domain.SourceType {
	return domain.SourceTypeWiki
}

// Extract parses the raw HTML into a ProfileRecord.
//
// The page title element supplies the subject name, falling back to
// domain.UnknownSubject. The main content container is walked in document
// order: headings start a new section, qualifying paragraphs and list items
// accumulate under the current section, and the prose before the first
// heading lands in the default section. A missing content container is
// domain.ErrContentMissing; no partial record is returned.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawProfile) (*domain.ProfileRecord, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", domain.ErrInvalidInput)
	}

	name := strings.TrimSpace(doc.Find(titleSelector).First().Text())
	if name == "" {
		name = domain.UnknownSubject
	}
	logger.Debug("Subject name: %s", name)

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		logger.Error("Could not find main content container %q in %s", contentSelector, raw.Source)
		return nil, domain.ErrContentMissing
	}

	record := &domain.ProfileRecord{
		Name:       name,
		Source:     raw.Source,
		SourceType: domain.SourceTypeWiki,
	}

	current := domain.DefaultSectionTitle
	var accumulated []string

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		record.Sections = append(record.Sections, domain.Section{
			Title: current,
			Text:  strings.Join(accumulated, " "),
		})
		accumulated = nil
	}

	content.Find("h2, h3, p, ul").Each(func(_ int, sel *goquery.Selection) {
		if deniedTags[goquery.NodeName(sel.Parent())] {
			return
		}

		switch goquery.NodeName(sel) {
		case "h2", "h3":
			flush()
			current = cleanHeading(sel.Text())

		case "p":
			text := strings.TrimSpace(sel.Text())
			if len(text) > e.minParagraphLen {
				accumulated = append(accumulated, text)
			}

		case "ul":
			sel.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := strings.TrimSpace(li.Text()); text != "" {
					accumulated = append(accumulated, text)
				}
			})
		}
	})
	flush()

	record.Infobox = extractInfobox(doc)

	logger.Info("Extracted %d sections and %d infobox fields from %s",
		len(record.Sections), len(record.Infobox), raw.Source)
	return record, nil
}

// cleanHeading strips editorial markers and whitespace from heading text.
func cleanHeading(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, editMarker, ""))
}

// extractInfobox harvests label/value rows from the structured side-panel.
// Returns nil when the page has no infobox, so the field stays absent.
func extractInfobox(doc *goquery.Document) []domain.InfoboxEntry {
	var entries []domain.InfoboxEntry
	doc.Find(infoboxRows).Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find(infoboxLabel).First().Text())
		value := strings.TrimSpace(row.Find(infoboxValue).First().Text())
		if label != "" && value != "" {
			entries = append(entries, domain.InfoboxEntry{Label: label, Value: value})
		}
	})
	return entries
}
