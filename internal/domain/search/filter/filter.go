// Package filter describes tag pre-filters applied before a k-NN query.
package filter

import (
	"errors"
	"fmt"
)

// MaxValuesPerClause bounds the alternatives of one clause.
const MaxValuesPerClause = 32

// Clause matches entries whose tag Key equals any of Values, or none of them
// when Negate is set.
type Clause struct {
	Key    string
	Values []string
	Negate bool
}

// Expression is a conjunction of clauses. The zero value matches everything.
type Expression struct {
	clauses []Clause
}

// Tag returns an expression requiring key to be one of values.
func Tag(key string, values ...string) (Expression, error) {
	return Expression{}.And(key, values...)
}

// And returns e narrowed to entries whose key is one of values.
func (e Expression) And(key string, values ...string) (Expression, error) {
	return e.with(Clause{Key: key, Values: values})
}

// Not returns e narrowed to entries whose key is none of values.
func (e Expression) Not(key string, values ...string) (Expression, error) {
	return e.with(Clause{Key: key, Values: values, Negate: true})
}

func (e Expression) with(c Clause) (Expression, error) {
	if err := c.validate(); err != nil {
		return Expression{}, err
	}
	c.Values = append([]string(nil), c.Values...)
	return Expression{clauses: append(e.Clauses(), c)}, nil
}

// Clauses returns a copy of the clauses in insertion order.
func (e Expression) Clauses() []Clause {
	return append([]Clause(nil), e.clauses...)
}

// IsEmpty reports whether e has no clauses.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 }

func (c Clause) validate() error {
	if c.Key == "" {
		return errors.New("filter key is required")
	}
	if len(c.Values) == 0 {
		return fmt.Errorf("filter %q: at least one value is required", c.Key)
	}
	if len(c.Values) > MaxValuesPerClause {
		return fmt.Errorf("filter %q: too many values (max %d)", c.Key, MaxValuesPerClause)
	}
	for _, v := range c.Values {
		if v == "" {
			return fmt.Errorf("filter %q: empty value", c.Key)
		}
	}
	return nil
}
