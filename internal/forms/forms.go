// Package forms defines the typed input schemas for user-submitted content
// and their validation. Validation returns a structured error carrying the
// submitted values so handlers can echo them back instead of discarding the
// user's input.
package forms

import (
	"strconv"
	"strings"

	"quill/internal/models"
)

// PostForm carries the editable fields of a post.
type PostForm struct {
	Text    string
	GroupID *uint
	// Image is the stored media path of an uploaded attachment, already
	// processed by the image service. Empty means no change / no image.
	Image string
}

// Validate checks field-level constraints and returns a validation error with
// the submitted input attached, or nil.
func (f *PostForm) Validate() *models.AppError {
	if strings.TrimSpace(f.Text) == "" {
		return models.NewValidationError("Text is required").WithForm(f.values())
	}
	return nil
}

func (f *PostForm) values() map[string]string {
	vals := map[string]string{"text": f.Text}
	if f.GroupID != nil {
		vals["group"] = strconv.FormatUint(uint64(*f.GroupID), 10)
	}
	return vals
}

// CommentForm carries the single editable field of a comment.
type CommentForm struct {
	Text string
}

// Validate checks field-level constraints and returns a validation error with
// the submitted input attached, or nil.
func (f *CommentForm) Validate() *models.AppError {
	if strings.TrimSpace(f.Text) == "" {
		return models.NewValidationError("Text is required").
			WithForm(map[string]string{"text": f.Text})
	}
	return nil
}
