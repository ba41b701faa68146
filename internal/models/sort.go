package models

import "strings"

// CommentSortType selects the ordering of root-comment pages.
type CommentSortType string

const (
	SortLatest CommentSortType = "LATEST" // created_at descending
	SortOldest CommentSortType = "OLDEST" // created_at ascending
)

// ParseCommentSort converts a query token case-insensitively. Unknown or
// empty tokens fall back to LATEST instead of erroring.
func ParseCommentSort(s string) CommentSortType {
	switch CommentSortType(strings.ToUpper(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	default:
		return SortLatest
	}
}

// Descending reports whether the sort orders newest first.
func (s CommentSortType) Descending() bool { return s != SortOldest }
