package filter

import (
	"context"
	"regexp"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rpattn/jobql/internal/domain"
)

// attribute:<name><operator><value>, e.g. attribute:years_experience>=3.
var attributePattern = regexp.MustCompile(`attribute:([a-zA-Z_]+)\s*([>=<!]+|LIKE|IN)\s*(.+)`)

type attributeCondition struct {
	name     string
	operator string
	value    string
}

func parseAttributeCondition(condition string) (attributeCondition, error) {
	m := attributePattern.FindStringSubmatch(condition)
	if len(m) < 4 {
		return attributeCondition{}, &InvalidAttributeFilterError{Condition: condition}
	}
	return attributeCondition{name: m[1], operator: m[2], value: trimValue(m[3])}, nil
}

func (c *Compiler) compileAttribute(ctx context.Context, b Builder, condition string) error {
	cond, err := parseAttributeCondition(condition)
	if err != nil {
		return err
	}
	if c.lookup == nil {
		return errors.New("attribute lookup is not configured")
	}

	def, err := c.lookup.LookupAttribute(ctx, cond.name)
	if err != nil {
		return errors.Wrapf(err, "look up attribute %q", cond.name)
	}
	if def == nil {
		return &UnknownAttributeError{Name: cond.name}
	}

	return b.Exists(domain.AttributeValueRelation, func(sub Builder) error {
		if err := sub.Compare("attribute_id", OpEqual, def.ID); err != nil {
			return err
		}
		if err := applyTypedColumn(sub, *def, cond); err != nil {
			if c.mode == ModeStrict {
				return &AttributePredicateError{Name: cond.name, Err: err}
			}
			// Lenient: keep the bare existence check and drop the comparison.
			c.logger.Warn("error applying attribute filter",
				zap.String("attribute", cond.name),
				zap.String("operator", cond.operator),
				zap.Error(err),
			)
		}
		return nil
	})
}

func applyTypedColumn(b Builder, def domain.AttributeDefinition, cond attributeCondition) error {
	column, err := def.Type.Column()
	if err != nil {
		return err
	}
	switch cond.operator {
	case "LIKE":
		return b.Like(column, "%"+cond.value+"%")
	case "IN":
		return b.In(column, splitValues(cond.value))
	default:
		return b.Compare(column, Operator(cond.operator), cond.value)
	}
}
