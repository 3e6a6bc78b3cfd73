package query

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
)

func video(title string, labels []string, details model.Details) *model.Video {
	return &model.Video{
		ID:      uuid.New(),
		Title:   title,
		Labels:  labels,
		Details: details,
	}
}

func ids(videos []*model.Video) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(videos))
	for _, v := range videos {
		set[v.ID] = true
	}
	return set
}

func TestSearchTitle(t *testing.T) {
	matrix := video("The Matrix", []string{}, model.Base{})
	reloaded := video("MATRIX Reloaded", []string{}, model.Base{})
	animatrix := video("Animatrix shorts", []string{}, model.Base{})
	other := video("Inception", []string{}, model.Base{})
	deleted := video("Matrix Resurrections", []string{}, model.Base{})
	deleted.Deleted = true

	catalog := []*model.Video{matrix, reloaded, animatrix, other, deleted}

	tests := []struct {
		name  string
		token string
		want  []*model.Video
	}{
		{"two letter token matches nothing", "ab", nil},
		{"two letter token padded with spaces matches nothing", "  ma  ", nil},
		{"empty token matches nothing", "", nil},
		{"case-insensitive word match", "Matrix", []*model.Video{matrix, reloaded, animatrix}},
		{"substring inside a word", "atri", []*model.Video{matrix, reloaded, animatrix}},
		{"token is trimmed", "  inception ", []*model.Video{other}},
		{"token spanning two words does not match", "e matrix", nil},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchTitle(catalog, tt.token)
			if got == nil {
				t.Fatal("SearchTitle() should return an empty slice, not nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchTitle(%q) returned %d videos, want %d", tt.token, len(got), len(tt.want))
			}
			gotIDs := ids(got)
			for _, w := range tt.want {
				if !gotIDs[w.ID] {
					t.Errorf("SearchTitle(%q) missing %q", tt.token, w.Title)
				}
			}
			if gotIDs[deleted.ID] {
				t.Error("SearchTitle() returned a deleted video")
			}
		})
	}
}

func TestByType(t *testing.T) {
	movie := video("Movie", []string{}, model.Movie{Director: "Someone", ReleaseDate: time.Now()})
	series := video("Series", []string{}, model.Series{NumberOfEpisodes: 3})
	base := video("Base", []string{}, model.Base{})
	deletedMovie := video("Deleted movie", []string{}, model.Movie{Director: "Someone", ReleaseDate: time.Now()})
	deletedMovie.Deleted = true

	catalog := []*model.Video{movie, series, base, deletedMovie}

	tests := []struct {
		typ  model.Type
		want *model.Video
	}{
		{model.TypeMovie, movie},
		{model.TypeSeries, series},
		{model.TypeBase, base},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got := ByType(catalog, tt.typ)
			if len(got) != 1 || got[0].ID != tt.want.ID {
				t.Errorf("ByType(%v) = %v, want only %q", tt.typ, got, tt.want.Title)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	origin := video("Origin", []string{"Action", "sci-fi", "Drama"}, model.Base{})

	oneCommon := video("One", []string{"action"}, model.Base{})
	twoCommon := video("Two", []string{"ACTION", "Sci-Fi", "comedy"}, model.Base{})
	noCommon := video("None", []string{"romance"}, model.Base{})
	emptyLabels := video("Empty", []string{}, model.Base{})
	nilLabels := video("Nil", nil, model.Base{})
	deleted := video("Deleted", []string{"action", "drama"}, model.Base{})
	deleted.Deleted = true
	duplicates := video("Dupes", []string{"drama", "DRAMA"}, model.Base{})

	catalog := []*model.Video{origin, oneCommon, twoCommon, noCommon, emptyLabels, nilLabels, deleted, duplicates}

	tests := []struct {
		name      string
		minCommon int
		want      []*model.Video
	}{
		{"at least one common label", 1, []*model.Video{oneCommon, twoCommon, duplicates}},
		{"at least two common labels", 2, []*model.Video{twoCommon, duplicates}},
		{"at least three common labels", 3, nil},
		{"zero still excludes nil labels and origin", 0, []*model.Video{oneCommon, twoCommon, noCommon, emptyLabels, duplicates}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similar(origin, catalog, tt.minCommon)
			if len(got) != len(tt.want) {
				t.Fatalf("Similar(min=%d) returned %d videos, want %d", tt.minCommon, len(got), len(tt.want))
			}
			gotIDs := ids(got)
			for _, w := range tt.want {
				if !gotIDs[w.ID] {
					t.Errorf("Similar(min=%d) missing %q", tt.minCommon, w.Title)
				}
			}
			for _, excluded := range []*model.Video{origin, nilLabels, deleted} {
				if gotIDs[excluded.ID] {
					t.Errorf("Similar(min=%d) included %q", tt.minCommon, excluded.Title)
				}
			}
		})
	}
}

func TestSimilar_DeletedOrigin(t *testing.T) {
	origin := video("Origin", []string{"action"}, model.Base{})
	origin.Deleted = true
	candidate := video("Candidate", []string{"action"}, model.Base{})

	for _, minCommon := range []int{0, 1, 5} {
		got := Similar(origin, []*model.Video{origin, candidate}, minCommon)
		if got == nil || len(got) != 0 {
			t.Errorf("Similar(min=%d) with deleted origin = %v, want empty", minCommon, got)
		}
	}
}

func TestSimilar_OriginWithoutLabels(t *testing.T) {
	origin := video("Origin", nil, model.Base{})
	candidate := video("Candidate", []string{"action"}, model.Base{})

	if got := Similar(origin, []*model.Video{candidate}, 1); len(got) != 0 {
		t.Errorf("Similar() = %v, want empty", got)
	}
}
