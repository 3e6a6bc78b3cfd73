package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Candidate is an unvalidated video as received from a client or a catalog file.
// Absent fields are nil; Type may be unset, in which case it is inferred.
type Candidate struct {
	ID               *uuid.UUID
	Title            *string
	Type             *Type
	Labels           []string
	Director         *string
	ReleaseDate      *time.Time
	NumberOfEpisodes *int
}

var (
	ErrMixedVariantFields      = errors.New("movie and series attributes cannot be combined")
	ErrIncompleteMovie         = errors.New("Movie requires both director and releaseDate")
	ErrMissingID               = errors.New("id required")
	ErrEmptyTitle              = errors.New("title required")
	ErrUnknownType             = errors.New("type must be one of BASE, MOVIE, SERIES")
	ErrDirectorRequired        = errors.New("director required for MOVIE")
	ErrReleaseDateRequired     = errors.New("releaseDate required for MOVIE")
	ErrEpisodesNotAllowed      = errors.New("numberOfEpisodes must be null for MOVIE")
	ErrEpisodesRequired        = errors.New("numberOfEpisodes>0 required for SERIES")
	ErrMovieFieldsNotAllowed   = errors.New("director/releaseDate must be null for SERIES")
	ErrVariantFieldsNotAllowed = errors.New("BASE cannot have movie/series fields")
)

// ValidationError reports a candidate that violates a classification or
// structural rule. Err is one of the sentinel errors above.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// InferType resolves the variant of a candidate from the presence of its
// variant fields. An explicit Type is returned unchanged.
func InferType(c Candidate) (Type, error) {
	if c.Type != nil {
		return *c.Type, nil
	}

	hasMovieFields := c.Director != nil || c.ReleaseDate != nil
	hasSeriesField := c.NumberOfEpisodes != nil

	switch {
	case hasMovieFields && hasSeriesField:
		return "", invalid(ErrMixedVariantFields)
	case hasMovieFields:
		if c.Director == nil || c.ReleaseDate == nil {
			return "", invalid(ErrIncompleteMovie)
		}
		return TypeMovie, nil
	case hasSeriesField:
		return TypeSeries, nil
	default:
		return TypeBase, nil
	}
}

// NewVideo classifies and validates a candidate and builds the stored form.
// Missing labels are normalized to an empty slice.
func NewVideo(c Candidate) (*Video, error) {
	t, err := InferType(c)
	if err != nil {
		return nil, err
	}

	if c.ID == nil || *c.ID == uuid.Nil {
		return nil, invalid(ErrMissingID)
	}
	if c.Title == nil || strings.TrimSpace(*c.Title) == "" {
		return nil, invalid(ErrEmptyTitle)
	}

	details, err := buildDetails(t, c)
	if err != nil {
		return nil, err
	}

	labels := c.Labels
	if labels == nil {
		labels = []string{}
	}

	return &Video{
		ID:      *c.ID,
		Title:   *c.Title,
		Labels:  labels,
		Details: details,
	}, nil
}

func buildDetails(t Type, c Candidate) (Details, error) {
	switch t {
	case TypeMovie:
		if c.Director == nil || strings.TrimSpace(*c.Director) == "" {
			return nil, invalid(ErrDirectorRequired)
		}
		if c.ReleaseDate == nil {
			return nil, invalid(ErrReleaseDateRequired)
		}
		if c.NumberOfEpisodes != nil {
			return nil, invalid(ErrEpisodesNotAllowed)
		}
		return Movie{Director: *c.Director, ReleaseDate: *c.ReleaseDate}, nil

	case TypeSeries:
		if c.NumberOfEpisodes == nil || *c.NumberOfEpisodes <= 0 {
			return nil, invalid(ErrEpisodesRequired)
		}
		if c.Director != nil || c.ReleaseDate != nil {
			return nil, invalid(ErrMovieFieldsNotAllowed)
		}
		return Series{NumberOfEpisodes: *c.NumberOfEpisodes}, nil

	case TypeBase:
		if c.Director != nil || c.ReleaseDate != nil || c.NumberOfEpisodes != nil {
			return nil, invalid(ErrVariantFieldsNotAllowed)
		}
		return Base{}, nil

	default:
		return nil, invalid(ErrUnknownType)
	}
}
