package seed

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/jobql/internal/domain"
)

var languageNames = []string{"PHP", "Python", "JavaScript", "Java", "C++", "C#", "Ruby", "Swift", "Go", "Kotlin"}

var categoryNames = []string{"Web App Development", "Mobile App Development", "UI/UX Design"}

var locationRows = []domain.Location{
	{City: "Dubai", State: "Dubai", Country: "United Arab Emirates"},
	{City: "Abu Dhabi", State: "Dubai", Country: "United Arab Emirates"},
	{City: "San Francisco", State: "California", Country: "United States"},
	{City: "Vadodara", State: "Gujarat", Country: "India"},
}

var attributeRows = []domain.AttributeDefinition{
	{Name: "years_experience", Type: domain.AttributeTypeNumber},
	{Name: "joining_availability", Type: domain.AttributeTypeSelect, Options: []string{"immediately", "within_a_week", "within_a_month"}},
	{Name: "job_post_start_date", Type: domain.AttributeTypeDate},
	{Name: "job_post_end_date", Type: domain.AttributeTypeDate},
	{Name: "job_type", Type: domain.AttributeTypeSelect, Options: []string{"full_time", "part_time", "contract", "freelance"}},
	{Name: "visa_sponsorship", Type: domain.AttributeTypeBoolean},
	{Name: "benefits_summary", Type: domain.AttributeTypeText},
}

var titles = []string{
	"Backend Engineer", "Frontend Developer", "Full Stack Developer", "Mobile Developer",
	"Site Reliability Engineer", "Data Engineer", "Product Designer", "Platform Engineer",
}

var companies = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark Industries", "Wayne Enterprises"}

var jobTypes = []domain.JobType{domain.JobTypeFullTime, domain.JobTypePartTime, domain.JobTypeContract, domain.JobTypeFreelance}

var statuses = []domain.JobStatus{domain.JobStatusDraft, domain.JobStatusPublished, domain.JobStatusPublished, domain.JobStatusArchived}

// Refs holds the identifiers of the seeded lookup rows.
type Refs struct {
	Languages  []uuid.UUID
	Categories []uuid.UUID
	Locations  []uuid.UUID
	Attributes []domain.AttributeDefinition
}

// attributeValue is one row destined for job_attributes.
type attributeValue struct {
	AttributeID uuid.UUID
	Type        domain.AttributeType
	Value       any
}

// jobSeed is a generated job with its pivot rows.
type jobSeed struct {
	Job        domain.Job
	Languages  []uuid.UUID
	Categories []uuid.UUID
	Locations  []uuid.UUID
	Attributes []attributeValue
}

// generateJobs builds n jobs. Each job gets up to 3 languages, 2 categories,
// 2 locations and 3 attribute values, picked by rng.
func generateJobs(rng *rand.Rand, n int, refs Refs, now time.Time) []jobSeed {
	out := make([]jobSeed, 0, n)
	for i := 0; i < n; i++ {
		job := domain.NewJob(pick(rng, titles), pick(rng, companies), pick(rng, jobTypes))
		job.ID = randomUUID(rng)
		job.Description = "Join " + job.CompanyName + " as a " + job.Title + "."
		job.SalaryMin = float64(30+rng.Intn(90)) * 1000
		job.SalaryMax = job.SalaryMin + float64(5+rng.Intn(60))*1000
		job.IsRemote = rng.Intn(3) == 0
		job.Status = pick(rng, statuses)
		job.CreatedAt = now.Add(-time.Duration(rng.Intn(90*24)) * time.Hour)
		job.UpdatedAt = job.CreatedAt
		if job.Status == domain.JobStatusPublished {
			published := job.CreatedAt.Add(time.Duration(rng.Intn(48)) * time.Hour)
			job.PublishedAt = &published
		}

		seed := jobSeed{
			Job:        job,
			Languages:  sample(rng, refs.Languages, 3),
			Categories: sample(rng, refs.Categories, 2),
			Locations:  sample(rng, refs.Locations, 2),
		}
		for _, def := range sample(rng, refs.Attributes, 3) {
			seed.Attributes = append(seed.Attributes, attributeValue{
				AttributeID: def.ID,
				Type:        def.Type,
				Value:       randomAttributeValue(rng, def, now),
			})
		}
		out = append(out, seed)
	}
	return out
}

func randomAttributeValue(rng *rand.Rand, def domain.AttributeDefinition, now time.Time) any {
	switch def.Type {
	case domain.AttributeTypeSelect:
		if len(def.Options) == 0 {
			return nil
		}
		return pick(rng, def.Options)
	case domain.AttributeTypeNumber:
		return float64(1 + rng.Intn(100))
	case domain.AttributeTypeDate:
		return now.AddDate(0, 0, 1+rng.Intn(30)).Truncate(24 * time.Hour)
	case domain.AttributeTypeBoolean:
		return rng.Intn(2) == 0
	default:
		return "This is a text value"
	}
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// sample returns up to k distinct items in random order.
func sample[T any](rng *rand.Rand, items []T, k int) []T {
	if k > len(items) {
		k = len(items)
	}
	out := make([]T, 0, k)
	for _, i := range rng.Perm(len(items))[:k] {
		out = append(out, items[i])
	}
	return out
}

func randomUUID(rng *rand.Rand) uuid.UUID {
	var b [16]byte
	_, _ = rng.Read(b[:])
	id, _ := uuid.FromBytes(b[:])
	// Version 4, RFC 4122 variant.
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}
