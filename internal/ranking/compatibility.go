package ranking

import (
	"math"

	"github.com/amora-app/discovery/internal/db"
)

// Compatibility term weights. Interests dominate, hobbies and education
// split the rest.
const (
	interestWeight  = 40.0
	hobbyWeight     = 30.0
	educationWeight = 30.0
)

// Compatibility computes a 0-100 heuristic for how well two profiles overlap:
// 40% interest overlap + 30% hobby overlap + 30% education exact match.
// Missing data on either side contributes zero to its term, never an error.
func Compatibility(a, b *db.Profile) int {
	score := interestWeight*overlapRatio(a.Interests, b.Interests) +
		hobbyWeight*overlapRatio(a.Hobbies, b.Hobbies)

	if a.Education != "" && a.Education == b.Education {
		score += educationWeight
	}

	return int(math.Round(score))
}

// overlapRatio returns shared / max(|a|, |b|) over distinct entries,
// in [0, 1]. Either side empty yields 0.
func overlapRatio(a, b db.StringList) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	shared := 0
	for _, v := range b {
		if _, dup := setB[v]; dup {
			continue
		}
		setB[v] = struct{}{}
		if _, ok := setA[v]; ok {
			shared++
		}
	}

	max := len(setA)
	if len(setB) > max {
		max = len(setB)
	}
	return float64(shared) / float64(max)
}
