package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupportedCriteria is returned for criteria outside the supported subset
var ErrUnsupportedCriteria = errors.New("unsupported criteria")

var clausePattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(==|!=)\s*(.+)$`)

// whereClause translates a report criteria into SQL. Supported: clauses
// field==value or field!=value joined by &&, optionally in parentheses.
// Values are quoted strings, true, false or numbers; ID is the row id.
func whereClause(criteria string) (string, []interface{}, error) {
	c := strings.TrimSpace(criteria)
	for strings.HasPrefix(c, "(") && strings.HasSuffix(c, ")") {
		c = strings.TrimSpace(c[1 : len(c)-1])
	}
	if c == "" {
		return "1=1", nil, nil
	}

	var parts []string
	var args []interface{}
	for _, raw := range strings.Split(c, "&&") {
		clause := strings.TrimSpace(raw)
		m := clausePattern.FindStringSubmatch(clause)
		if m == nil {
			return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedCriteria, clause)
		}
		field, op, literal := m[1], m[2], strings.TrimSpace(m[3])

		value, err := parseLiteral(literal)
		if err != nil {
			return "", nil, err
		}

		column := "json_extract(document, ?)"
		if field == "ID" {
			column = "id"
		} else {
			args = append(args, `$."`+field+`"`)
		}

		sqlOp := "="
		if op == "!=" {
			sqlOp = "IS NOT"
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", column, sqlOp))
		args = append(args, value)
	}
	return strings.Join(parts, " AND "), args, nil
}

func parseLiteral(s string) (interface{}, error) {
	switch s {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: literal %s", ErrUnsupportedCriteria, s)
}
