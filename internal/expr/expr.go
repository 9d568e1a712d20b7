// Package expr parses and evaluates Spring profile activation
// expressions: profile names combined with !, &, | and parentheses.
// ! binds tighter than &, which binds tighter than |; mixed & and |
// therefore parse unambiguously by precedence.
package expr

import (
	"fmt"
	"strings"

	"github.com/gopatchy/springcfg/pkg/errors"
)

// Expr is a parsed profile expression node.
type Expr interface {
	// Evaluate reports whether the expression matches the active
	// profile set.
	Evaluate(active map[string]struct{}) bool

	fmt.Stringer
}

type Name struct {
	Name string
}

func (e Name) Evaluate(active map[string]struct{}) bool {
	_, found := active[e.Name]
	return found
}

func (e Name) String() string {
	return e.Name
}

type Not struct {
	Operand Expr
}

func (e Not) Evaluate(active map[string]struct{}) bool {
	return !e.Operand.Evaluate(active)
}

func (e Not) String() string {
	return "!" + e.Operand.String()
}

type And struct {
	Left  Expr
	Right Expr
}

func (e And) Evaluate(active map[string]struct{}) bool {
	return e.Left.Evaluate(active) && e.Right.Evaluate(active)
}

func (e And) String() string {
	return fmt.Sprintf("(%s & %s)", e.Left, e.Right)
}

type Or struct {
	Left  Expr
	Right Expr
}

func (e Or) Evaluate(active map[string]struct{}) bool {
	return e.Left.Evaluate(active) || e.Right.Evaluate(active)
}

func (e Or) String() string {
	return fmt.Sprintf("(%s | %s)", e.Left, e.Right)
}

// Error reports a malformed profile expression with the offending
// position.
type Error struct {
	Position int
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("position %d: %s: %s", e.Position, e.Message, errors.ErrProfileExpression)
}

func (e *Error) Unwrap() error {
	return errors.ErrProfileExpression
}

// ActiveSet converts a profile list to the set representation Evaluate
// expects.
func ActiveSet(profiles []string) map[string]struct{} {
	active := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		active[p] = struct{}{}
	}

	return active
}

// IsSimpleName reports whether expression is a bare profile name with
// no operators, evaluable as a direct membership test.
func IsSimpleName(expression string) bool {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return false
	}

	return !strings.ContainsAny(expression, "!&|()")
}

// Matches evaluates a profile expression against active profiles,
// taking the membership fast path for simple names.
func Matches(expression string, profiles []string) (bool, error) {
	expression = strings.TrimSpace(expression)

	if IsSimpleName(expression) {
		for _, p := range profiles {
			if p == expression {
				return true, nil
			}
		}

		return false, nil
	}

	e, err := Parse(expression)
	if err != nil {
		return false, err
	}

	return e.Evaluate(ActiveSet(profiles)), nil
}
