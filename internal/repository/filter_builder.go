package repository

import (
	"fmt"
	"strings"
)

// Operator is a SQL comparison used by a Predicate.
type Operator string

const (
	OpEqual    Operator = "="
	OpNotEqual Operator = "<>"
	OpILike    Operator = "ILIKE"
)

// Predicate compares one or more columns against a single bound value. Multiple
// columns are OR-ed together and share the same placeholder.
type Predicate struct {
	Columns  []string
	Operator Operator
	Value    interface{}
}

// filterBuilder assembles a WHERE clause and its positional arguments together
// so that $n numbering always matches argument order. Column names must come
// from code, never from request input.
type filterBuilder struct {
	clauses []string
	args    []interface{}
}

func newFilterBuilder() *filterBuilder {
	return &filterBuilder{}
}

// Add appends a predicate, binding its value to the next placeholder.
func (b *filterBuilder) Add(p Predicate) *filterBuilder {
	if len(p.Columns) == 0 {
		return b
	}
	slot := b.Bind(p.Value)
	parts := make([]string, len(p.Columns))
	for i, column := range p.Columns {
		parts[i] = fmt.Sprintf("%s %s %s", column, p.Operator, slot)
	}
	clause := strings.Join(parts, " OR ")
	if len(parts) > 1 {
		clause = "(" + clause + ")"
	}
	b.clauses = append(b.clauses, clause)
	return b
}

// AddIf appends the predicate only when ok is true.
func (b *filterBuilder) AddIf(ok bool, p Predicate) *filterBuilder {
	if ok {
		b.Add(p)
	}
	return b
}

// Bind reserves the next placeholder for a value that is not part of the
// WHERE clause, such as LIMIT or OFFSET.
func (b *filterBuilder) Bind(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// Clause renders " WHERE a AND b", or an empty string when no predicate was added.
func (b *filterBuilder) Clause() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// Args returns a copy of the bound values in placeholder order.
func (b *filterBuilder) Args() []interface{} {
	return append([]interface{}{}, b.args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE substring pattern. LIKE
// metacharacters in term match literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
