package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
)

const (
	updateSeparator   = ", "
	namePlaceholder   = "#f"
	valuePlaceholder  = ":v"
	lastModifiedField = domain.FieldUpdatedAt
)

// Field is one attribute assignment requested by a caller. A nil Value means
// the field is unset and is skipped.
type Field struct {
	Name  string
	Value any
}

// Assignment pairs the name and value placeholders of one "#fN = :vN" term.
type Assignment struct {
	Name  string
	Value string
}

// Update is a parameterized partial-update statement. Field names never
// appear in Expression directly, only through Names, so reserved words are
// safe to use as attribute names.
type Update struct {
	Expression  string
	Names       map[string]string
	Values      map[string]any
	Assignments []Assignment
}

// Fields resolves the statement back into attribute/value pairs in
// assignment order. Drivers without native expression support apply these.
func (u Update) Fields() []Field {
	out := make([]Field, 0, len(u.Assignments))
	for _, a := range u.Assignments {
		out = append(out, Field{Name: u.Names[a.Name], Value: u.Values[a.Value]})
	}
	return out
}

// BuildUpdate turns fields into a SET statement and appends an assignment of
// UpdatedAt to now. Placeholder indices start at 1 and are shared by every
// term, the timestamp included. It reports false when no field is left after
// dropping unset entries, in which case nothing should be sent to the table.
//
// A name given more than once keeps its first position and its last value.
// Callers cannot set UpdatedAt themselves.
func BuildUpdate(fields []Field, now time.Time) (Update, bool) {
	order := make([]string, 0, len(fields))
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Value == nil || f.Name == "" || f.Name == lastModifiedField {
			continue
		}
		if _, seen := values[f.Name]; !seen {
			order = append(order, f.Name)
		}
		values[f.Name] = f.Value
	}

	if len(order) == 0 {
		return Update{}, false
	}

	u := Update{
		Names:       make(map[string]string, len(order)+1),
		Values:      make(map[string]any, len(order)+1),
		Assignments: make([]Assignment, 0, len(order)+1),
	}

	terms := make([]string, 0, len(order)+1)
	add := func(name string, value any) {
		i := strconv.Itoa(len(u.Assignments) + 1)
		a := Assignment{Name: namePlaceholder + i, Value: valuePlaceholder + i}
		u.Names[a.Name] = name
		u.Values[a.Value] = value
		u.Assignments = append(u.Assignments, a)
		terms = append(terms, a.Name+" = "+a.Value)
	}

	for _, name := range order {
		add(name, values[name])
	}
	add(lastModifiedField, now)

	u.Expression = "SET " + strings.Join(terms, updateSeparator)
	return u, true
}
