package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommentSort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SortLatest, ParseCommentSort("LATEST"))
	assert.Equal(t, SortOldest, ParseCommentSort("OLDEST"))
	assert.Equal(t, SortOldest, ParseCommentSort("oldest"))
	assert.Equal(t, SortOldest, ParseCommentSort("  Oldest "))

	// Anything unrecognized orders newest first.
	assert.Equal(t, SortLatest, ParseCommentSort(""))
	assert.Equal(t, SortLatest, ParseCommentSort("newest"))
	assert.Equal(t, SortLatest, ParseCommentSort("CREATED_AT"))
}

func TestCommentSortDescending(t *testing.T) {
	t.Parallel()

	assert.True(t, SortLatest.Descending())
	assert.False(t, SortOldest.Descending())
}

func TestParseTargetType(t *testing.T) {
	t.Parallel()

	got, ok := ParseTargetType("post")
	assert.True(t, ok)
	assert.Equal(t, TargetPost, got)

	got, ok = ParseTargetType(" COMMENT ")
	assert.True(t, ok)
	assert.Equal(t, TargetComment, got)

	_, ok = ParseTargetType("story")
	assert.False(t, ok)
	_, ok = ParseTargetType("")
	assert.False(t, ok)
}
