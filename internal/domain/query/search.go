// Package query implements the read-side filters applied to catalog snapshots.
package query

import (
	"strings"
	"unicode/utf8"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
)

// MinTokenLength is the shortest normalized token SearchTitle will scan for.
const MinTokenLength = 3

// NormalizeToken trims and lower-cases a search token.
func NormalizeToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// SearchTitle returns the live videos with a title word containing token.
// Tokens shorter than MinTokenLength after normalization match nothing.
// Result order follows the input order.
func SearchTitle(videos []*model.Video, token string) []*model.Video {
	t := NormalizeToken(token)
	if utf8.RuneCountInString(t) < MinTokenLength {
		return []*model.Video{}
	}

	matches := []*model.Video{}
	for _, v := range videos {
		if v.IsLive() && titleMatches(v.Title, t) {
			matches = append(matches, v)
		}
	}
	return matches
}

func titleMatches(title, token string) bool {
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if strings.Contains(word, token) {
			return true
		}
	}
	return false
}

// ByType returns the live videos of the given type.
func ByType(videos []*model.Video, t model.Type) []*model.Video {
	matches := []*model.Video{}
	for _, v := range videos {
		if v.IsLive() && v.Type() == t {
			matches = append(matches, v)
		}
	}
	return matches
}
