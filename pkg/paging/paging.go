// Package paging provides pagination parameter handling and the page
// envelope shared by all list endpoints.
package paging

import (
	"fmt"

	"github.com/studyboard/backend/internal/apperrors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps bad parameters instead of rejecting them: negative page
// becomes 0, a size outside [1,MaxPageSize] becomes the default.
func Normalize(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size < 1 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

// Validate is the strict variant: endpoints that must reject rather than
// silently clamp fail with an invalid-request error.
func Validate(page, size int) error {
	if page < 0 {
		return apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("page must be >= 0, got %d", page))
	}
	if size < 1 || size > MaxPageSize {
		return apperrors.ErrInvalidRequest.WithMessage(fmt.Sprintf("size must be between 1 and %d, got %d", MaxPageSize, size))
	}
	return nil
}

// Page is the envelope returned by paginated queries. All derived fields are
// computed from the base query's total count.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	HasNext       bool  `json:"has_next"`
	HasPrevious   bool  `json:"has_previous"`
}

// New builds a page envelope from a slice and the total element count.
func New[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	last := totalPages == 0 || page >= totalPages-1
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          last,
		HasNext:       !last,
		HasPrevious:   page > 0,
	}
}

// Empty builds a page with no content.
func Empty[T any](page, size int) Page[T] {
	return New[T](nil, page, size, 0)
}
