// Package wire defines the JSON shape of a video shared by the HTTP API and
// catalog files.
package wire

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
)

// Video is the external representation of a catalog entry.
// Absent fields are omitted; the soft-delete flag has no field.
type Video struct {
	ID               *uuid.UUID `json:"id,omitempty"`
	Title            *string    `json:"title,omitempty"`
	Type             *string    `json:"type,omitempty"`
	Labels           []string   `json:"labels"`
	Director         *string    `json:"director,omitempty"`
	ReleaseDate      *time.Time `json:"releaseDate,omitempty"`
	NumberOfEpisodes *int       `json:"numberOfEpisodes,omitempty"`
}

// Candidate converts the payload into an unvalidated domain candidate.
func (v Video) Candidate() model.Candidate {
	c := model.Candidate{
		ID:               v.ID,
		Title:            v.Title,
		Labels:           v.Labels,
		Director:         v.Director,
		ReleaseDate:      v.ReleaseDate,
		NumberOfEpisodes: v.NumberOfEpisodes,
	}
	if v.Type != nil {
		t := model.Type(*v.Type)
		c.Type = &t
	}
	return c
}

// FromVideo renders a stored video. Variant fields appear only for the
// variant that owns them.
func FromVideo(video *model.Video) Video {
	id := video.ID
	title := video.Title
	typ := video.Type().String()

	labels := video.Labels
	if labels == nil {
		labels = []string{}
	}

	out := Video{
		ID:     &id,
		Title:  &title,
		Type:   &typ,
		Labels: labels,
	}

	switch d := video.Details.(type) {
	case model.Movie:
		director := d.Director
		release := d.ReleaseDate
		out.Director = &director
		out.ReleaseDate = &release
	case model.Series:
		episodes := d.NumberOfEpisodes
		out.NumberOfEpisodes = &episodes
	}

	return out
}

// FromVideos renders a list, never returning nil.
func FromVideos(videos []*model.Video) []Video {
	out := make([]Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, FromVideo(v))
	}
	return out
}

// DecodeVideo parses a single JSON object into a payload.
func DecodeVideo(data []byte) (Video, error) {
	var v Video
	if err := json.Unmarshal(data, &v); err != nil {
		return Video{}, err
	}
	return v, nil
}

// DecodeCatalog splits a JSON array into its raw elements so each one can be
// decoded and rejected independently.
func DecodeCatalog(data []byte) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
