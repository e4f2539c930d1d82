package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Description string `json:"description"`

	RewardAmount decimal.Decimal `json:"rewardAmount"`

	Status     Status     `json:"status"`
	ReportedAt time.Time  `json:"reportedAt"`
	Sightings  []Sighting `json:"sightings"`
	Comments   []Comment  `json:"comments"`
	Reactions  Reactions  `json:"reactions"`
}

// Clone returns a copy that shares no slices with i.
func (i Item) Clone() Item {
	c := i
	c.Sightings = slices.Clone(i.Sightings)
	c.Comments = slices.Clone(i.Comments)
	if c.Sightings == nil {
		c.Sightings = []Sighting{}
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	return c
}

// Report is the input of a lost item submission.
type Report struct {
	FullName     string          `json:"fullName" validate:"required"`
	PhoneNumber  string          `json:"phoneNumber" validate:"required"`
	Email        string          `json:"email" validate:"required"`
	City         string          `json:"city" validate:"required"`
	Country      string          `json:"country" validate:"required"`
	Description  string          `json:"description" validate:"required"`
	RewardAmount decimal.Decimal `json:"rewardAmount"`
}

// Validate trims the text fields in place and checks required-field presence
// and a non-negative reward.
func (r *Report) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Email = strings.TrimSpace(r.Email)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.Description = strings.TrimSpace(r.Description)

	if err := validateStruct(r); err != nil {
		return err
	}

	if r.RewardAmount.IsNegative() {
		return &ValidationError{Field: "rewardAmount", Reason: "must not be negative"}
	}

	return nil
}

func NewItem(id string, r Report, now time.Time) Item {
	return Item{
		ID:           id,
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
		City:         r.City,
		Country:      r.Country,
		Description:  r.Description,
		RewardAmount: r.RewardAmount,
		Status:       StatusPending,
		ReportedAt:   now.UTC(),
		Sightings:    []Sighting{},
		Comments:     []Comment{},
	}
}
