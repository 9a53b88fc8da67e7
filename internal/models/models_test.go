package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocTypeValid(t *testing.T) {
	assert.True(t, DocTypeResume.Valid())
	assert.True(t, DocTypeCoverLetter.Valid())
	assert.True(t, DocTypePortfolio.Valid())
	assert.False(t, DocType("diary").Valid())
	assert.False(t, DocType("").Valid())
}

func TestSectionNames(t *testing.T) {
	assert.Equal(t, ResumeSections, SectionNames(DocTypeResume))
	assert.Equal(t, CoverLetterFields, SectionNames(DocTypeCoverLetter))
	assert.Nil(t, SectionNames(DocTypePortfolio))
}

func TestSlugRoundTrip(t *testing.T) {
	for _, titles := range JobCategories {
		for _, title := range titles {
			assert.Equal(t, title, TitleForSlug(SlugForTitle(title)), "title %q", title)
		}
	}
	assert.Equal(t, "ux-ui-designer", SlugForTitle("UX/UI Designer"))
	assert.Equal(t, "", TitleForSlug("wizard"))
}

func TestCompetenciesForTitle(t *testing.T) {
	assert.Contains(t, CompetenciesForTitle("Backend Developer"), "Go")
	assert.Nil(t, CompetenciesForTitle("Wizard"))
}

func TestPortfolioInput(t *testing.T) {
	t.Run("link gains a scheme", func(t *testing.T) {
		input := NewPortfolioLink("my-site.dev/work")
		assert.Equal(t, "http://my-site.dev/work", input.URL)
		assert.Equal(t, StructuredContent{"portfolio_url": "http://my-site.dev/work"}, input.Content())

		https := NewPortfolioLink("https://my-site.dev")
		assert.Equal(t, "https://my-site.dev", https.URL)
	})

	t.Run("text content", func(t *testing.T) {
		input := NewPortfolioText("extracted pdf text")
		assert.Equal(t, StructuredContent{"extracted_text": "extracted pdf text"}, input.Content())
		assert.Equal(t, "extracted pdf text", input.RawText())
	})

	t.Run("emptiness", func(t *testing.T) {
		assert.True(t, PortfolioInput{}.Empty())
		assert.True(t, NewPortfolioText("   ").Empty())
		assert.True(t, NewPortfolioLink("").Empty())
		assert.False(t, NewPortfolioText("x").Empty())
		assert.False(t, NewPortfolioLink("example.com").Empty())
	})
}

func TestDocumentRevisionClone(t *testing.T) {
	original := &DocumentRevision{
		Owner:   "user-1",
		DocType: DocTypeResume,
		Version: 2,
		Content: StructuredContent{"education": "CS"},
		IndividualFeedbacks: map[string]string{
			"education": "fine",
		},
		Embedding:   []float32{0.1, 0.2},
		ContentHash: "abc",
	}

	clone := original.Clone()
	require.Equal(t, original.Version, clone.Version)
	require.Equal(t, original.ContentHash, clone.ContentHash)

	clone.Content["education"] = "EE"
	clone.IndividualFeedbacks["education"] = "changed"
	clone.Embedding[0] = 9

	assert.Equal(t, "CS", original.Content["education"])
	assert.Equal(t, "fine", original.IndividualFeedbacks["education"])
	assert.Equal(t, float32(0.1), original.Embedding[0])
}
