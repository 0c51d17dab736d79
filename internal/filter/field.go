package filter

import (
	"strings"

	"go.uber.org/zap"
)

const likeToken = " LIKE "

// fieldOperators is checked in order and the first one present anywhere in the
// condition wins, so the two character operators must precede "=".
var fieldOperators = []string{">=", "<=", "!=", "=", ">", "<", likeToken}

func (c *Compiler) compileField(b Builder, condition string) error {
	op := ""
	for _, candidate := range fieldOperators {
		if strings.Contains(condition, candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		c.logger.Debug("ignoring condition without operator", zap.String("condition", condition))
		return nil
	}

	field, value, _ := strings.Cut(condition, op)
	field = strings.TrimSpace(field)
	value = trimValue(value)

	switch op {
	case likeToken:
		return b.Like(field, "%"+value+"%")
	case "=":
		if strings.Contains(value, ",") {
			return b.In(field, splitValues(value))
		}
		return b.Compare(field, OpEqual, value)
	default:
		return b.Compare(field, Operator(op), value)
	}
}
