package stories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tags := NormalizeTags([]string{" Fantasy ", "fantasy", "SCI-FI", "", "  ", "drama"})
	assert.Equal(t, []string{"fantasy", "sci-fi", "drama"}, tags)
}

func TestNormalizeTagsKeepsFirstOccurrenceOrder(t *testing.T) {
	tags := NormalizeTags([]string{"b", "a", "B", "c", "A"})
	assert.Equal(t, []string{"b", "a", "c"}, tags)
}

func TestNormalizeTagsEmpty(t *testing.T) {
	assert.Empty(t, NormalizeTags(nil))
	assert.Empty(t, NormalizeTags([]string{"", "   "}))
}
