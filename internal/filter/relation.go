package filter

import (
	"strings"
)

func (c *Compiler) compileRelation(b Builder, condition string) error {
	if loc := relationAnyPattern.FindStringIndex(condition); loc != nil {
		return c.relationHasAny(b, condition[:loc[0]], condition[loc[1]:])
	}
	if relation, values, ok := strings.Cut(condition, "="); ok {
		return c.relationHasAll(b, relation, values)
	}
	if loc := relationExistsPattern.FindStringIndex(condition); loc != nil {
		relation := strings.Trim(condition[:loc[0]]+condition[loc[1]:], "() ")
		if _, err := c.identityColumn(relation); err != nil {
			return err
		}
		return b.Exists(relation, nil)
	}
	return nil
}

// relationHasAny matches jobs related to at least one of the listed values.
func (c *Compiler) relationHasAny(b Builder, relation, values string) error {
	relation = strings.Trim(relation, "() ")
	column, err := c.identityColumn(relation)
	if err != nil {
		return err
	}
	list := splitValues(strings.Trim(strings.TrimSpace(values), "()"))
	return b.Exists(relation, func(sub Builder) error {
		return sub.In(column, list)
	})
}

// relationHasAll matches jobs related to every listed value, one existence check per value.
func (c *Compiler) relationHasAll(b Builder, relation, values string) error {
	relation = strings.Trim(relation, "() ")
	column, err := c.identityColumn(relation)
	if err != nil {
		return err
	}
	list := splitValues(trimValue(values))
	return b.Group(func(g Builder) error {
		for _, value := range list {
			if err := g.Exists(relation, func(sub Builder) error {
				return sub.Compare(column, OpEqual, value)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Compiler) identityColumn(relation string) (string, error) {
	column, ok := c.registry.IdentityColumn(relation)
	if !ok {
		return "", &UnknownRelationError{Relation: relation}
	}
	return column, nil
}
