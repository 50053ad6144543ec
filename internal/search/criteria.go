package search

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind selects how a criterion's value is compared against a document field.
type Kind int

const (
	// Exact matches the field value verbatim.
	Exact Kind = iota
	// ID matches a document identifier supplied as a hex string.
	ID
	// Substring matches a case-insensitive substring of the field.
	Substring
	// NumberRange matches an inclusive [min,max] numeric interval.
	NumberRange
	// DateRange matches an inclusive [min,max] date interval.
	DateRange
	// TriState takes "all"|"true"|"false"; "all" removes the constraint.
	TriState
	// MinNumber matches field values greater than or equal to the value.
	MinNumber
)

// Criterion is one named, optional search constraint. Range kinds use Min
// and Max; every other kind uses Value.
type Criterion struct {
	Field string
	Kind  Kind
	Value string
	Min   string
	Max   string
}

// Builder accumulates criteria and compiles them into a single filter
// document. Criteria whose values are absent, empty, or unparseable
// contribute nothing; the remaining conditions are ANDed together.
type Builder struct {
	criteria []Criterion
	resolved []resolvedCondition
}

type resolvedCondition struct {
	field string
	cond  interface{}
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a single-valued criterion.
func (b *Builder) Add(field string, kind Kind, value string) *Builder {
	b.criteria = append(b.criteria, Criterion{Field: field, Kind: kind, Value: value})
	return b
}

// AddRange appends a range criterion. The range only takes effect when both
// bounds are present and non-empty; a lone bound is ignored entirely.
func (b *Builder) AddRange(field string, kind Kind, min, max string) *Builder {
	b.criteria = append(b.criteria, Criterion{Field: field, Kind: kind, Min: min, Max: max})
	return b
}

// Condition appends a pre-built condition for the field, bypassing value
// parsing. Used for conditions resolved outside the builder, such as an
// owner id obtained from a dependent lookup.
func (b *Builder) Condition(field string, cond interface{}) *Builder {
	b.resolved = append(b.resolved, resolvedCondition{field: field, cond: cond})
	return b
}

// Compile merges every effective criterion into one filter document. An
// empty result matches every document in the collection.
func (b *Builder) Compile() bson.M {
	filter := bson.M{}
	for _, c := range b.criteria {
		if cond, ok := compileCriterion(c); ok {
			filter[c.Field] = cond
		}
	}
	for _, rc := range b.resolved {
		filter[rc.field] = rc.cond
	}
	return filter
}

func compileCriterion(c Criterion) (interface{}, bool) {
	switch c.Kind {
	case Exact:
		if c.Value == "" {
			return nil, false
		}
		return c.Value, true

	case ID:
		if c.Value == "" {
			return nil, false
		}
		oid, err := primitive.ObjectIDFromHex(c.Value)
		if err != nil {
			return nil, false
		}
		return oid, true

	case Substring:
		if c.Value == "" {
			return nil, false
		}
		return primitive.Regex{Pattern: c.Value, Options: "i"}, true

	case NumberRange:
		if c.Min == "" || c.Max == "" {
			return nil, false
		}
		min, errMin := strconv.ParseFloat(c.Min, 64)
		max, errMax := strconv.ParseFloat(c.Max, 64)
		if errMin != nil || errMax != nil {
			return nil, false
		}
		return bson.M{"$gte": min, "$lte": max}, true

	case DateRange:
		if c.Min == "" || c.Max == "" {
			return nil, false
		}
		min, okMin := parseDate(c.Min)
		max, okMax := parseDate(c.Max)
		if !okMin || !okMax {
			return nil, false
		}
		return bson.M{"$gte": min, "$lte": max}, true

	case TriState:
		if c.Value == "" || c.Value == "all" {
			return nil, false
		}
		v, err := strconv.ParseBool(c.Value)
		if err != nil {
			return nil, false
		}
		return v, true

	case MinNumber:
		if c.Value == "" {
			return nil, false
		}
		n, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return nil, false
		}
		return bson.M{"$gte": n}, true
	}
	return nil, false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
