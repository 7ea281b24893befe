package linkedin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

func rawProfile(content string) *domain.RawProfile {
	return &domain.RawProfile{
		Source:     "https://www.linkedin.com/in/johndoe",
		SourceType: domain.SourceTypeLinkedIn,
		Content:    []byte(content),
	}
}

func TestExtractor_SourceType(t *testing.T) {
	assert.Equal(t, domain.SourceTypeLinkedIn, New().SourceType())
}

func TestExtract_InvalidInput(t *testing.T) {
	e := New()
	ctx := context.Background()

	_, err := e.Extract(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Extract(ctx, rawProfile(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Extract(ctx, rawProfile("not json at all"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_CleansProfile(t *testing.T) {
	content := `{
		"full_name": "John Doe",
		"occupation": "Engineer",
		"summary": "",
		"skills": [],
		"headline": null,
		"people_also_viewed": [{"name": "Someone Else"}],
		"certifications": ["cert-a"],
		"groups": [{"name": "Gophers", "profile_pic_url": "https://cdn.example.com/pic.jpg"}]
	}`

	record, err := New().Extract(context.Background(), rawProfile(content))
	require.NoError(t, err)

	assert.Equal(t, "John Doe", record.Name)
	assert.Equal(t, domain.SourceTypeLinkedIn, record.SourceType)
	require.Len(t, record.Sections, 1)
	assert.Equal(t, FlatSectionTitle, record.Sections[0].Title)

	text := record.Sections[0].Text
	assert.Contains(t, text, "John Doe")
	assert.Contains(t, text, "Engineer")
	assert.NotContains(t, text, "people_also_viewed")
	assert.NotContains(t, text, "certifications")
	assert.NotContains(t, text, "summary")
	assert.NotContains(t, text, "skills")
	assert.NotContains(t, text, "headline")
	assert.Contains(t, text, "Gophers")
	assert.NotContains(t, text, "profile_pic_url")
}

func TestExtract_NameFallsBackToUnknown(t *testing.T) {
	record, err := New().Extract(context.Background(), rawProfile(`{"occupation": "Engineer"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownSubject, record.Name)
}

func TestExtract_DeterministicSerialisation(t *testing.T) {
	content := `{"full_name": "John Doe", "occupation": "Engineer", "city": "Berlin"}`
	e := New()

	first, err := e.Extract(context.Background(), rawProfile(content))
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), rawProfile(content))
	require.NoError(t, err)

	assert.Equal(t, first.Sections[0].Text, second.Sections[0].Text)
}

func TestExtract_EmptyProfileHasNoSections(t *testing.T) {
	record, err := New().Extract(context.Background(), rawProfile(`{"summary": "", "skills": []}`))
	require.NoError(t, err)
	assert.False(t, record.HasContent())
}
