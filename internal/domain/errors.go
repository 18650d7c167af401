package domain

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrDuplicateURL is returned when an insert or URL change collides with
	// an existing bookmark.
	ErrDuplicateURL = errors.New("url already bookmarked")

	// ErrNotFound is returned when a referenced id or URL no longer exists.
	ErrNotFound = errors.New("entity not found")

	// ErrPersistence wraps every failure reported by the store on a write.
	ErrPersistence = errors.New("persistence failure")

	// ErrStructural is matched by every structural validation error.
	ErrStructural = errors.New("structural violation")
)

// Structural sub-kinds, one per validator rule.
var (
	ErrMustExistInsideRoot       = errors.New("entity must exist inside root folder")
	ErrBookmarkMissingURL        = errors.New("bookmark is missing url")
	ErrFolderHasURL              = errors.New("folder must not have url")
	ErrInvalidFavoritesContainer = errors.New("invalid favorites container")
	ErrCycleDetected             = errors.New("cycle detected in folder hierarchy")
	ErrFolderIsOwnParent         = fmt.Errorf("folder is its own parent: %w", ErrCycleDetected)
)

// Rule names the validator rule that rejected an entity.
type Rule string

const (
	RuleMustExistInsideRoot Rule = "must_exist_inside_root"
	RuleURLPresence         Rule = "url_presence"
	RuleFavoritesContainer  Rule = "favorites_container"
	RuleSelfParent          Rule = "self_parent"
	RuleAncestry            Rule = "ancestry"
)

// ValidationError reports a structural violation for a single entity.
type ValidationError struct {
	Rule     Rule
	EntityID string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s (%s): %v", e.EntityID, e.Rule, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, ErrStructural}
}

// IsStructural reports whether err is a structural violation.
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructural)
}

// PersistenceError wraps a store failure so it matches ErrPersistence.
func PersistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
