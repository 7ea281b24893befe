// Package linkedin extracts profile records from LinkedIn profile JSON as
// returned by the ProxyCurl API. Unlike the wiki path there is no section
// structure; the cleaned profile is serialised to a single canonical text
// blob for flat chunking.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// FlatSectionTitle is the single pseudo-section carrying the serialised
// profile on the flat path.
const FlatSectionTitle = "Profile"

// droppedFields are response keys removed during cleaning: they add noise
// without helping retrieval.
var droppedFields = map[string]bool{
	"people_also_viewed": true,
	"certifications":     true,
}

// Extractor parses and cleans ProxyCurl profile JSON.
type Extractor struct{}

// New creates a new LinkedIn extractor.
func New() *Extractor {
	return &Extractor{}
}

// SourceType identifies the ingestion path this extractor serves.
func (e *Extractor) SourceType() domain.SourceType {
	return domain.SourceTypeLinkedIn
}

// Extract parses the profile JSON, drops empty values and unwanted fields,
// strips profile picture URLs from group entries, and serialises the result
// into one canonical text blob (deterministic key order) under a single
// pseudo-section.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawProfile) (*domain.ProfileRecord, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var profile map[string]any
	if err := json.Unmarshal(raw.Content, &profile); err != nil {
		logger.Error("Failed to parse profile JSON from %s: %v", raw.Source, err)
		return nil, fmt.Errorf("parse profile json: %w", domain.ErrInvalidInput)
	}

	cleaned := cleanProfile(profile)

	name, _ := cleaned["full_name"].(string)
	if name == "" {
		name = domain.UnknownSubject
	}

	// encoding/json sorts map keys, giving a deterministic serialisation.
	text, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("serialise profile: %w", err)
	}

	record := &domain.ProfileRecord{
		Name:       name,
		Source:     raw.Source,
		SourceType: domain.SourceTypeLinkedIn,
	}
	if len(cleaned) > 0 {
		record.Sections = []domain.Section{{Title: FlatSectionTitle, Text: string(text)}}
	}

	logger.Info("Extracted LinkedIn profile for %s (%d fields kept)", name, len(cleaned))
	return record, nil
}

// cleanProfile removes empty values, unwanted top-level fields, and profile
// picture URLs nested in group entries.
func cleanProfile(profile map[string]any) map[string]any {
	cleaned := make(map[string]any, len(profile))
	for key, value := range profile {
		if droppedFields[key] || isEmptyValue(value) {
			continue
		}
		cleaned[key] = value
	}

	if groups, ok := cleaned["groups"].([]any); ok {
		for _, g := range groups {
			if group, ok := g.(map[string]any); ok {
				delete(group, "profile_pic_url")
			}
		}
	}

	return cleaned
}

// isEmptyValue reports whether a decoded JSON value carries no information.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
