package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/jobs"
)

func TestParseAttributeFlags(t *testing.T) {
	static, err := parseAttributeFlags([]string{"years_experience=number", "seniority = select_value"})
	require.NoError(t, err)

	require.Contains(t, static, "years_experience")
	assert.Equal(t, domain.AttributeTypeNumber, static["years_experience"].Type)
	assert.Equal(t, domain.AttributeTypeSelect, static["seniority"].Type)

	again, err := parseAttributeFlags([]string{"years_experience=number"})
	require.NoError(t, err)
	assert.Equal(t, static["years_experience"].ID, again["years_experience"].ID)

	_, err = parseAttributeFlags([]string{"years_experience"})
	assert.ErrorContains(t, err, "NAME=TYPE")

	_, err = parseAttributeFlags([]string{"blob=json"})
	assert.ErrorContains(t, err, "unsupported attribute type")
}

type listedAttributes struct {
	defs []domain.AttributeDefinition
	err  error
}

func (l listedAttributes) GetByNames(context.Context, []string) ([]domain.AttributeDefinition, error) {
	return nil, errors.New("not used")
}

func (l listedAttributes) List(context.Context) ([]domain.AttributeDefinition, error) {
	return l.defs, l.err
}

func TestStoredAttributes(t *testing.T) {
	storedID := uuid.New()
	repo := listedAttributes{defs: []domain.AttributeDefinition{
		{ID: storedID, Name: "years_experience", Type: domain.AttributeTypeNumber},
		{ID: uuid.New(), Name: "seniority", Type: domain.AttributeTypeText},
	}}
	overrides, err := parseAttributeFlags([]string{"seniority=select"})
	require.NoError(t, err)

	static, err := storedAttributes(context.Background(), repo, overrides)
	require.NoError(t, err)
	require.Len(t, static, 2)
	assert.Equal(t, storedID, static["years_experience"].ID)
	assert.Equal(t, domain.AttributeTypeSelect, static["seniority"].Type)

	_, err = storedAttributes(context.Background(), listedAttributes{err: errors.New("connection refused")}, nil)
	assert.ErrorContains(t, err, "load attribute definitions")
}

func TestPrintExplanation(t *testing.T) {
	out := jobs.Explanation{
		Filter:     "job_type=full-time",
		Expression: "job_type=full-time",
		Predicate:  "job_type = full-time",
		SQL:        `SELECT "jobs"."id" FROM "jobs" WHERE ("jobs"."job_type" = $1)`,
		Args:       []any{"full-time"},
	}

	var buf bytes.Buffer
	require.NoError(t, printExplanation(&buf, out, false))
	assert.Contains(t, buf.String(), "predicate:  job_type = full-time\n")
	assert.Contains(t, buf.String(), "args:       $1=full-time\n")

	buf.Reset()
	require.NoError(t, printExplanation(&buf, out, true))
	assert.Contains(t, buf.String(), `"predicate": "job_type = full-time"`)
}
