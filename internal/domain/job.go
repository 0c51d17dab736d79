package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobType enumerates the employment types stored on a job.
type JobType string

const (
	JobTypeFullTime  JobType = "full-time"
	JobTypePartTime  JobType = "part-time"
	JobTypeContract  JobType = "contract"
	JobTypeFreelance JobType = "freelance"
)

// JobStatus is the publication state of a job.
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusArchived  JobStatus = "archived"
)

// Job represents a job listing and its eager-loaded associations
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CompanyName string     `json:"company_name"`
	SalaryMin   float64    `json:"salary_min"`
	SalaryMax   float64    `json:"salary_max"`
	IsRemote    bool       `json:"is_remote"`
	JobType     JobType    `json:"job_type"`
	Status      JobStatus  `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Languages  []Language          `json:"languages"`
	Locations  []Location          `json:"locations"`
	Categories []Category          `json:"categories"`
	Attributes []JobAttributeValue `json:"attributes"`
}

// NewJob creates a draft job with fresh identifiers and timestamps
func NewJob(title, companyName string, jobType JobType) Job {
	now := time.Now()
	return Job{
		ID:          uuid.New(),
		Title:       title,
		CompanyName: companyName,
		JobType:     jobType,
		Status:      JobStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Language is a programming language a job asks for.
type Language struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Category groups jobs by discipline.
type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Location is where a job is based. Jobs match on City.
type Location struct {
	ID      uuid.UUID `json:"id"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	Country string    `json:"country"`
}
