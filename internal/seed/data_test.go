package seed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/jobql/internal/domain"
)

func testRefs() Refs {
	refs := Refs{}
	for range languageNames {
		refs.Languages = append(refs.Languages, uuid.New())
	}
	for range categoryNames {
		refs.Categories = append(refs.Categories, uuid.New())
	}
	for range locationRows {
		refs.Locations = append(refs.Locations, uuid.New())
	}
	for _, def := range attributeRows {
		def.ID = uuid.New()
		refs.Attributes = append(refs.Attributes, def)
	}
	return refs
}

func TestGenerateJobsShape(t *testing.T) {
	now := time.Date(2026, 3, 14, 16, 7, 5, 0, time.UTC)
	seeds := generateJobs(rand.New(rand.NewSource(1)), 50, testRefs(), now)
	require.Len(t, seeds, 50)

	for _, s := range seeds {
		assert.Len(t, s.Languages, 3)
		assert.Len(t, s.Categories, 2)
		assert.Len(t, s.Locations, 2)
		assert.Len(t, s.Attributes, 3)
		assert.ElementsMatch(t, s.Languages, unique(s.Languages))
		assert.GreaterOrEqual(t, s.Job.SalaryMax, s.Job.SalaryMin)
		assert.Contains(t, []domain.JobType{
			domain.JobTypeFullTime, domain.JobTypePartTime, domain.JobTypeContract, domain.JobTypeFreelance,
		}, s.Job.JobType)
		assert.Equal(t, s.Job.Status == domain.JobStatusPublished, s.Job.PublishedAt != nil)
		assert.Equal(t, byte(0x40), s.Job.ID[6]&0xf0)

		for _, v := range s.Attributes {
			switch v.Type {
			case domain.AttributeTypeNumber:
				n, ok := v.Value.(float64)
				require.True(t, ok)
				assert.True(t, n >= 1 && n <= 100)
			case domain.AttributeTypeSelect:
				_, ok := v.Value.(string)
				assert.True(t, ok)
			case domain.AttributeTypeDate:
				d, ok := v.Value.(time.Time)
				require.True(t, ok)
				assert.True(t, d.After(now.Add(-24*time.Hour)))
			case domain.AttributeTypeBoolean:
				_, ok := v.Value.(bool)
				assert.True(t, ok)
			case domain.AttributeTypeText:
				assert.Equal(t, "This is a text value", v.Value)
			}
		}
	}
}

func TestGenerateJobsIsDeterministic(t *testing.T) {
	refs := testRefs()
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	a := generateJobs(rand.New(rand.NewSource(42)), 20, refs, now)
	b := generateJobs(rand.New(rand.NewSource(42)), 20, refs, now)
	assert.Equal(t, a, b)

	c := generateJobs(rand.New(rand.NewSource(7)), 20, refs, now)
	assert.NotEqual(t, a[0].Job.ID, c[0].Job.ID)
}

func TestAttributeRowUsesTypedColumn(t *testing.T) {
	jobID, attrID := uuid.New(), uuid.New()

	row := attributeRow(jobID, attributeValue{AttributeID: attrID, Type: domain.AttributeTypeNumber, Value: 3.0})
	assert.Equal(t, []any{jobID, attrID, nil, 3.0, nil, nil, nil}, row)

	row = attributeRow(jobID, attributeValue{AttributeID: attrID, Type: domain.AttributeTypeBoolean, Value: true})
	assert.Equal(t, []any{jobID, attrID, nil, nil, true, nil, nil}, row)

	row = attributeRow(jobID, attributeValue{AttributeID: attrID, Type: domain.AttributeTypeSelect, Value: "immediately"})
	assert.Equal(t, "immediately", row[6])
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
