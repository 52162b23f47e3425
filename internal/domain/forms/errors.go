package forms

import "errors"

var (
	// ErrTemplateNotFound is returned when no template is registered for a
	// (state, form_type) pair.
	ErrTemplateNotFound = errors.New("form template not found")

	// ErrPackageNotFound is returned when a form package id does not exist.
	ErrPackageNotFound = errors.New("form package not found")
)
