package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// AttributeType names the typed storage column that holds values for an attribute.
// The value is the column name itself.
type AttributeType string

const (
	AttributeTypeText    AttributeType = "text_value"
	AttributeTypeNumber  AttributeType = "number_value"
	AttributeTypeBoolean AttributeType = "boolean_value"
	AttributeTypeDate    AttributeType = "date_value"
	AttributeTypeSelect  AttributeType = "select_value"
)

// AttributeTypes lists every supported storage column in table order.
var AttributeTypes = []AttributeType{
	AttributeTypeText,
	AttributeTypeNumber,
	AttributeTypeBoolean,
	AttributeTypeDate,
	AttributeTypeSelect,
}

// Column returns the storage column for the type. Short aliases such as "number"
// resolve to their "_value" column.
func (t AttributeType) Column() (string, error) {
	raw := strings.TrimSpace(string(t))
	for _, known := range AttributeTypes {
		if raw == string(known) || raw+"_value" == string(known) {
			return string(known), nil
		}
	}
	return "", errors.Newf("unsupported attribute type %q", string(t))
}

// AttributeDefinition is the EAV schema entry for a named job attribute
type AttributeDefinition struct {
	ID      uuid.UUID     `json:"id"`
	Name    string        `json:"name"`
	Type    AttributeType `json:"type"`
	Options []string      `json:"options,omitempty"`
}

// JobAttributeValue is a single attribute value attached to a job.
type JobAttributeValue struct {
	AttributeID uuid.UUID     `json:"attribute_id"`
	Name        string        `json:"name"`
	Type        AttributeType `json:"type"`
	Value       any           `json:"value"`
}
