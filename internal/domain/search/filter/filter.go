package filter

import (
	"fmt"
	"strings"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
// Tag expansion yields two conditions per label, so this allows 64 labels.
const MaxConditionsPerGroup = 128

// Fields exposes record fields to predicate evaluation.
type Fields interface {
	Text(field string) (string, bool)
	Numeric(field string) (float64, bool)
}

// Expression is a structured predicate with must/should/must_not boolean semantics:
// AND(must) AND OR(should) AND NOT OR(must_not).
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Matches evaluates the expression against a record.
// An empty should group places no constraint.
func (e Expression) Matches(rec Fields) bool {
	for _, c := range e.must {
		if !c.Matches(rec) {
			return false
		}
	}
	if len(e.should) > 0 {
		matched := false
		for _, c := range e.should {
			if c.Matches(rec) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, c := range e.mustNot {
		if c.Matches(rec) {
			return false
		}
	}
	return true
}

// String renders the expression for logs.
func (e Expression) String() string {
	var parts []string
	for _, c := range e.must {
		parts = append(parts, c.String())
	}
	if len(e.should) > 0 {
		should := make([]string, len(e.should))
		for i, c := range e.should {
			should[i] = c.String()
		}
		parts = append(parts, "("+strings.Join(should, " | ")+")")
	}
	for _, c := range e.mustNot {
		parts = append(parts, "-"+c.String())
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

// Condition is a single filter clause: either a substring match or a numeric range.
type Condition struct {
	key       string
	contains  string
	rangeExpr *Range
}

// NewContains creates a case-insensitive substring match condition.
func NewContains(key, substr string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if substr == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, contains: substr}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Contains returns the substring to match.
func (c Condition) Contains() string { return c.contains }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsContains reports whether this is a substring condition.
func (c Condition) IsContains() bool { return c.contains != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Matches evaluates the condition against a record. A record lacking the
// field never matches.
func (c Condition) Matches(rec Fields) bool {
	switch {
	case c.IsContains():
		v, ok := rec.Text(c.key)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(v), strings.ToLower(c.contains))
	case c.IsRange():
		v, ok := rec.Numeric(c.key)
		if !ok {
			return false
		}
		return c.rangeExpr.Contains(v)
	default:
		return false
	}
}

func (c Condition) String() string {
	if c.IsContains() {
		return fmt.Sprintf("@%s:*%s*", c.key, c.contains)
	}
	if c.IsRange() {
		return fmt.Sprintf("@%s:%s", c.key, c.rangeExpr)
	}
	return ""
}

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Contains reports whether v satisfies every boundary.
func (r Range) Contains(v float64) bool {
	if r.gt != nil && v <= *r.gt {
		return false
	}
	if r.gte != nil && v < *r.gte {
		return false
	}
	if r.lt != nil && v >= *r.lt {
		return false
	}
	if r.lte != nil && v > *r.lte {
		return false
	}
	return true
}

func (r Range) String() string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.gt != nil {
		minBound = fmt.Sprintf("(%g", *r.gt)
	} else if r.gte != nil {
		minBound = fmt.Sprintf("%g", *r.gte)
	}

	if r.lt != nil {
		maxBound = fmt.Sprintf("(%g", *r.lt)
	} else if r.lte != nil {
		maxBound = fmt.Sprintf("%g", *r.lte)
	}

	return fmt.Sprintf("[%s %s]", minBound, maxBound)
}
