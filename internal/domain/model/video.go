package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Type is the variant tag of a video.
type Type string

const (
	TypeBase   Type = "BASE"
	TypeMovie  Type = "MOVIE"
	TypeSeries Type = "SERIES"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeBase, TypeMovie, TypeSeries:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// Details holds the variant-specific fields of a video.
// The set of implementations is closed: Base, Movie and Series.
type Details interface {
	Type() Type
	isDetails()
}

// Base is generic content without variant fields.
type Base struct{}

// Movie carries the fields required for MOVIE videos.
type Movie struct {
	Director    string
	ReleaseDate time.Time
}

// Series carries the fields required for SERIES videos.
type Series struct {
	NumberOfEpisodes int
}

func (Base) Type() Type   { return TypeBase }
func (Movie) Type() Type  { return TypeMovie }
func (Series) Type() Type { return TypeSeries }

func (Base) isDetails()   {}
func (Movie) isDetails()  {}
func (Series) isDetails() {}

// Video represents a catalog entry in the domain.
type Video struct {
	ID      uuid.UUID
	Title   string
	Labels  []string
	Details Details

	// Deleted is the soft-delete flag. It is flipped once by the repository
	// and never exposed on the wire.
	Deleted bool
}

// Type returns the variant tag derived from the video's details.
func (v *Video) Type() Type {
	if v.Details == nil {
		return TypeBase
	}
	return v.Details.Type()
}

// IsLive reports whether the video is visible to user-facing reads.
func (v *Video) IsLive() bool {
	return !v.Deleted
}

// Clone returns a deep copy so stored state cannot be mutated through a returned value.
func (v *Video) Clone() *Video {
	c := *v
	if v.Labels != nil {
		c.Labels = slices.Clone(v.Labels)
	}
	return &c
}
