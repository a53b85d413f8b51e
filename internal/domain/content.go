package domain

import (
	"strconv"
	"time"
)

// Resource is an external learning link.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Kind  string `json:"kind,omitempty"`
}

// DisabilityContent is the learning material shown for one disability.
type DisabilityContent struct {
	DisabilityType QuizType
	Title          string
	Description    string
	Signs          []string
	Strategies     []string
	Resources      []Resource
	UpdatedAt      time.Time
}

// Validate validates the content
func (c *DisabilityContent) Validate() error {
	var errs ValidationErrors
	if !c.DisabilityType.IsDisability() {
		errs = append(errs, NewInvalidFormatError("disability_type", string(c.DisabilityType)))
	}
	if c.Title == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	for i, r := range c.Resources {
		if r.URL == "" {
			errs = append(errs, NewMissingFieldError("resources["+strconv.Itoa(i)+"].url"))
		}
	}
	return errs.OrNil()
}
