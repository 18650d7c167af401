package domain

import (
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode orders sibling entities. Sort must not modify its input.
type SortMode interface {
	Name() string
	Sort(entities []Entity) []Entity
}

// ManualSort keeps the order the store returned.
type ManualSort struct{}

func (ManualSort) Name() string { return "manual" }

func (ManualSort) Sort(entities []Entity) []Entity {
	return slices.Clone(entities)
}

// NameSort orders folders first, then by title using locale collation.
type NameSort struct {
	Descending bool

	mu       sync.Mutex
	collator *collate.Collator
}

// NewNameSort returns a name sort for the given BCP-47 locale tag.
// Unknown tags fall back to English.
func NewNameSort(locale string, descending bool) *NameSort {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &NameSort{
		Descending: descending,
		collator:   collate.New(tag, collate.IgnoreCase, collate.Numeric),
	}
}

func (s *NameSort) Name() string {
	if s.Descending {
		return "name-desc"
	}
	return "name-asc"
}

func (s *NameSort) Sort(entities []Entity) []Entity {
	out := slices.Clone(entities)

	// Collator buffers are not safe for concurrent use.
	s.mu.Lock()
	defer s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Entity) int {
		if fa, fb := a.EntityKind() == KindFolder, b.EntityKind() == KindFolder; fa != fb {
			if fa {
				return -1
			}
			return 1
		}
		c := s.collator.CompareString(a.EntityTitle(), b.EntityTitle())
		if s.Descending {
			c = -c
		}
		return c
	})
	return out
}

// ParseSortMode maps an API sort name to a mode. Unknown names mean manual.
func ParseSortMode(name, locale string) SortMode {
	switch name {
	case "name-asc", "name":
		return NewNameSort(locale, false)
	case "name-desc":
		return NewNameSort(locale, true)
	default:
		return ManualSort{}
	}
}
