package domain

import (
	"slices"
	"strings"
	"time"
)

type Sighting struct {
	ID              string    `json:"id"`
	ReportedBy      string    `json:"reportedBy"`
	ReportedByEmail string    `json:"reportedByEmail"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	ReportedAt      time.Time `json:"reportedAt"`
}

// SightingInput is what a viewer submits when flagging a sighting.
type SightingInput struct {
	ReporterName  string `json:"reportedBy"`
	ReporterEmail string `json:"reportedByEmail" validate:"required"`
	Location      string `json:"location" validate:"required"`
	Notes         string `json:"notes" validate:"required"`
}

func (s *SightingInput) Validate() error {
	s.ReporterEmail = strings.TrimSpace(s.ReporterEmail)
	s.Location = strings.TrimSpace(s.Location)
	s.Notes = strings.TrimSpace(s.Notes)
	s.ReporterName = strings.TrimSpace(s.ReporterName)
	if err := validateStruct(s); err != nil {
		return err
	}
	if s.ReporterName == "" {
		s.ReporterName = DisplayName(s.ReporterEmail)
	}
	return nil
}

type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"authorEmail"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewComment builds a comment, failing when content is blank after trimming.
func NewComment(id, authorEmail, content string, now time.Time) (Comment, error) {
	if strings.TrimSpace(content) == "" {
		return Comment{}, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	return Comment{
		ID:          id,
		Author:      DisplayName(authorEmail),
		AuthorEmail: authorEmail,
		Content:     content,
		CreatedAt:   now.UTC(),
	}, nil
}

// DisplayName is the local part of an email address, or the whole input when
// it has no '@'.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

type ReactionKind string

const (
	ReactionHeart   ReactionKind = "heart"
	ReactionPray    ReactionKind = "pray"
	ReactionSupport ReactionKind = "support"
)

var ReactionKinds = []ReactionKind{ReactionHeart, ReactionPray, ReactionSupport}

func ParseReactionKind(s string) (ReactionKind, error) {
	k := ReactionKind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(ReactionKinds, k) {
		return "", &ValidationError{Field: "kind", Reason: "must be one of heart, pray, support"}
	}
	return k, nil
}

type Reactions struct {
	Heart   uint64 `json:"heart"`
	Pray    uint64 `json:"pray"`
	Support uint64 `json:"support"`
}

// Add increments the named counter by one.
func (r *Reactions) Add(kind ReactionKind) error {
	switch kind {
	case ReactionHeart:
		r.Heart++
	case ReactionPray:
		r.Pray++
	case ReactionSupport:
		r.Support++
	default:
		return &ValidationError{Field: "kind", Reason: "must be one of heart, pray, support"}
	}
	return nil
}

func (r Reactions) Count(kind ReactionKind) uint64 {
	switch kind {
	case ReactionHeart:
		return r.Heart
	case ReactionPray:
		return r.Pray
	case ReactionSupport:
		return r.Support
	}
	return 0
}
