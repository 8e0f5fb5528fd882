package common

import (
	"time"

	"github.com/mwakio197/Dbot-sub001/pkg/utility"
)

type Experience string

const (
	ExperienceNone         Experience = "none"
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceExpert       Experience = "expert"
)

// Application is a partner/account application submitted from the web front end.
type Application struct {
	FirstName     string     `json:"first_name" validate:"required,max=64"`
	LastName      string     `json:"last_name" validate:"required,max=64"`
	Email         string     `json:"email" validate:"required,email"`
	Phone         string     `json:"phone,omitempty" validate:"omitempty,e164"`
	Country       string     `json:"country" validate:"required,iso3166_1_alpha2"`
	Experience    Experience `json:"experience,omitempty" validate:"omitempty,oneof=none beginner intermediate expert"`
	Message       string     `json:"message,omitempty" validate:"max=2000"`
	AcceptedTerms bool       `json:"accepted_terms" validate:"eq=true"`
}

// ApplicationSubmitted is emitted once the backend has accepted an application.
type ApplicationSubmitted struct {
	BackendID   string      `json:"backend_id"`
	RequestID   string      `json:"request_id"`
	Application Application `json:"application"`

	Source      string              `json:"src,omitempty"`
	ExecutionId utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
