package query

import (
	"strings"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
)

// Similar returns the live candidates sharing at least minCommon labels with
// origin, compared case-insensitively. A deleted origin yields no results.
// Candidates with nil labels are never considered. minCommon is used as given.
func Similar(origin *model.Video, candidates []*model.Video, minCommon int) []*model.Video {
	matches := []*model.Video{}
	if origin.Deleted {
		return matches
	}

	originLabels := foldSet(origin.Labels)
	for _, c := range candidates {
		if c.Deleted || c.ID == origin.ID || c.Labels == nil {
			continue
		}
		if countCommon(originLabels, c.Labels) >= minCommon {
			matches = append(matches, c)
		}
	}
	return matches
}

// countCommon counts the labels that appear in set after case folding.
// Repeated labels are counted once per occurrence.
func countCommon(set map[string]struct{}, labels []string) int {
	n := 0
	for _, l := range labels {
		if _, ok := set[strings.ToLower(l)]; ok {
			n++
		}
	}
	return n
}

func foldSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToLower(l)] = struct{}{}
	}
	return set
}
