package entity

import "errors"

// Domain errors
var (
	// Study plan errors
	ErrGenerationFailed     = errors.New("failed to generate study plan")
	ErrGenerationInProgress = errors.New("study plan generation already in progress")
	ErrNoStudyPlan          = errors.New("no study plan available")

	// Validation errors
	ErrBlankVerseReference = errors.New("surah and ayah are required")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrInvalidStudyPlan    = errors.New("invalid study plan")
)
