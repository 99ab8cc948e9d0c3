package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	q := Query{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultPageSize, q.PageSize)
}

func TestNormalizeClampsPageSize(t *testing.T) {
	q := Query{Page: 3, PageSize: 500}.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, maxPageSize, q.PageSize)

	q = Query{PageSize: -1}.Normalize()
	assert.Equal(t, defaultPageSize, q.PageSize)
}

func TestNormalizeClampsPage(t *testing.T) {
	q := Query{Page: -5}.Normalize()
	assert.Equal(t, 1, q.Page)
}

func TestNormalizeTrimsAndLowersTag(t *testing.T) {
	q := Query{Text: "  Dragons  ", Tag: "  Fantasy "}.Normalize()
	assert.Equal(t, "Dragons", q.Text)
	assert.Equal(t, "fantasy", q.Tag)
}
