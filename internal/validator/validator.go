// Package validator enforces the structural invariants of the folder
// hierarchy before an entity is persisted.
package validator

import (
	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Graph is the persisted hierarchy a candidate record is checked against.
type Graph interface {
	// Record returns the persisted record for id.
	Record(id string) (domain.Record, bool)
	// ChildIDs returns the ids of id's direct children.
	ChildIDs(id string) []string
}

// Validate checks rec against g, applying the rules in order and returning
// a *domain.ValidationError for the first one violated.
func Validate(rec domain.Record, g Graph) error {
	if err := checkInsideRoot(rec, g); err != nil {
		return err
	}
	if err := checkURLPresence(rec); err != nil {
		return err
	}
	if err := checkFavoritesContainer(rec); err != nil {
		return err
	}
	if err := checkSelfParent(rec); err != nil {
		return err
	}
	return checkAncestry(rec, g)
}

// ValidateAll validates every record and returns the first failure.
func ValidateAll(records []domain.Record, g Graph) error {
	for _, rec := range records {
		if err := Validate(rec, g); err != nil {
			return err
		}
	}
	return nil
}

func fail(rule domain.Rule, rec domain.Record, err error) error {
	return &domain.ValidationError{Rule: rule, EntityID: rec.ID, Err: err}
}

// checkInsideRoot requires a folder parent below the bookmarks root for
// everything but the singletons. The favorites container tracks favorites
// only and never owns children. A folder naming itself as parent passes
// here and is rejected by checkSelfParent.
func checkInsideRoot(rec domain.Record, g Graph) error {
	if domain.IsSingleton(rec.ID) {
		return nil
	}
	switch {
	case rec.ParentID == "", rec.ParentID == domain.FavoritesFolderID:
		return fail(domain.RuleMustExistInsideRoot, rec, domain.ErrMustExistInsideRoot)
	case rec.ParentID == domain.RootFolderID:
		return nil
	case rec.ParentID == rec.ID && rec.Kind == domain.KindFolder:
		return nil
	}
	parent, ok := g.Record(rec.ParentID)
	if !ok || parent.Kind != domain.KindFolder {
		return fail(domain.RuleMustExistInsideRoot, rec, domain.ErrMustExistInsideRoot)
	}
	return nil
}

func checkURLPresence(rec domain.Record) error {
	if domain.IsSingleton(rec.ID) {
		return nil
	}
	switch rec.Kind {
	case domain.KindBookmark:
		if rec.URL == "" {
			return fail(domain.RuleURLPresence, rec, domain.ErrBookmarkMissingURL)
		}
	case domain.KindFolder:
		if rec.URL != "" {
			return fail(domain.RuleURLPresence, rec, domain.ErrFolderHasURL)
		}
	}
	return nil
}

func checkFavoritesContainer(rec domain.Record) error {
	if rec.FavoritesContainer != "" && rec.FavoritesContainer != domain.FavoritesFolderID {
		return fail(domain.RuleFavoritesContainer, rec, domain.ErrInvalidFavoritesContainer)
	}
	return nil
}

func checkSelfParent(rec domain.Record) error {
	if rec.ParentID != "" && rec.ParentID == rec.ID {
		return fail(domain.RuleSelfParent, rec, domain.ErrFolderIsOwnParent)
	}
	return nil
}

// checkAncestry walks from rec up to the root. No id may be seen twice and
// none of rec's direct children may appear among its ancestors.
func checkAncestry(rec domain.Record, g Graph) error {
	seen := map[string]bool{rec.ID: true}
	ancestors := make(map[string]bool)

	for p := rec.ParentID; p != "" && !domain.IsSingleton(p); {
		if seen[p] {
			return fail(domain.RuleAncestry, rec, domain.ErrCycleDetected)
		}
		seen[p] = true
		ancestors[p] = true

		parent, ok := g.Record(p)
		if !ok {
			break
		}
		p = parent.ParentID
	}

	for _, child := range g.ChildIDs(rec.ID) {
		if ancestors[child] {
			return fail(domain.RuleAncestry, rec, domain.ErrCycleDetected)
		}
	}
	return nil
}
