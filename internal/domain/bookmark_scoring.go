package domain

import (
	"slices"
	"strings"
)

// SearchCandidate is an entity with its match score.
type SearchCandidate struct {
	Entity Entity
	Score  float64
}

// ScoreEntity calculates the match score of an entity against a query.
// Bookmarks are matched on title and URL, folders on title only.
func ScoreEntity(queryStr string, entity Entity) float64 {
	if entity == nil {
		return 0.0
	}
	queryStr = strings.ToLower(strings.TrimSpace(queryStr))
	if queryStr == "" {
		return 0.0
	}

	score := scoreText(queryStr, strings.ToLower(entity.EntityTitle()))
	if b, ok := entity.(*Bookmark); ok {
		// URL matches count slightly less than title matches
		if urlScore := scoreText(queryStr, strings.ToLower(stripScheme(b.URL))) * ScoreURLWeight; urlScore > score {
			score = urlScore
		}
	}
	return score
}

func scoreText(queryStr, text string) float64 {
	if text == "" {
		return 0.0
	}

	// Exact match (highest score)
	if queryStr == text {
		return ScoreExactMatch + ScoreExactTitleBonus
	}

	// Prefix match
	if strings.HasPrefix(text, queryStr) {
		return ScorePrefixMatch
	}

	// Substring match
	if index := strings.Index(text, queryStr); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(text)))
		return ScoreSubstringMatch + substringBonus
	}

	// Word-based match: every query word appears in text
	queryWords := strings.Fields(queryStr)
	if len(queryWords) > 1 {
		allMatch := true
		for _, word := range queryWords {
			if !strings.Contains(text, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	// Character similarity
	if similarity := calculateSimilarity(queryStr, text); similarity > ScoreSimilarityThreshold {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// RankEntities returns the matching entities sorted by descending score.
// Ties keep their input order. limit <= 0 means no limit.
func RankEntities(queryStr string, entities []Entity, limit int) []SearchCandidate {
	candidates := make([]SearchCandidate, 0, len(entities))
	for _, entity := range entities {
		score := ScoreEntity(queryStr, entity)
		if score == 0.0 {
			continue
		}
		candidates = append(candidates, SearchCandidate{Entity: entity, Score: score})
	}

	slices.SortStableFunc(candidates, func(a, b SearchCandidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func stripScheme(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[i+3:]
	}
	return u
}
