package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wntjdus12/jobverse/internal/apperr"
	"github.com/wntjdus12/jobverse/internal/models"
)

func TestHashContent(t *testing.T) {
	t.Run("deterministic across calls", func(t *testing.T) {
		content := models.StructuredContent{
			"reason_for_application": "strong product fit",
			"expertise_experience":   "5 years of Go",
		}
		first, err := HashContent(content)
		require.NoError(t, err)
		second, err := HashContent(content)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("independent of key insertion order", func(t *testing.T) {
		a := models.StructuredContent{}
		a["education"] = "CS degree"
		a["awards"] = []any{"hackathon winner"}
		a["nested"] = map[string]any{"x": 1, "y": 2}

		b := models.StructuredContent{}
		b["nested"] = map[string]any{"y": 2, "x": 1}
		b["awards"] = []any{"hackathon winner"}
		b["education"] = "CS degree"

		ha, err := HashContent(a)
		require.NoError(t, err)
		hb, err := HashContent(b)
		require.NoError(t, err)
		assert.Equal(t, ha, hb)
	})

	t.Run("different content hashes differently", func(t *testing.T) {
		ha, err := HashContent(models.StructuredContent{"education": "CS"})
		require.NoError(t, err)
		hb, err := HashContent(models.StructuredContent{"education": "EE"})
		require.NoError(t, err)
		assert.NotEqual(t, ha, hb)
	})

	t.Run("empty content is hashable", func(t *testing.T) {
		h, err := HashContent(models.StructuredContent{})
		require.NoError(t, err)
		assert.Len(t, h, 64)
	})

	t.Run("rejects NaN with the offending path", func(t *testing.T) {
		content := models.StructuredContent{
			"education": "CS",
			"scores":    []any{1.5, math.NaN()},
		}
		_, err := HashContent(content)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Contains(t, err.Error(), "$.scores[1]")
	})

	t.Run("rejects channels", func(t *testing.T) {
		content := models.StructuredContent{"stream": make(chan int)}
		_, err := HashContent(content)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
