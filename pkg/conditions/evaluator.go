package conditions

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formval/pkg/schema"
)

// DefaultMaxDepth bounds rule-tree recursion. Loaded schemas are cycle-free,
// but rules assembled programmatically can still reference themselves;
// bailing out beats hanging the caller.
const DefaultMaxDepth = 16

// ErrDepthExceeded reports a rule tree nested past the configured bound,
// almost always a self-referential conditional.
type ErrDepthExceeded struct {
	Field string
}

func (e ErrDepthExceeded) Error() string {
	return fmt.Sprintf("conditions: rule depth exceeded evaluating %q; conditional likely cycles", e.Field)
}

// Evaluator resolves conditional rule trees against a live value map. It is
// stateless and safe for concurrent use.
type Evaluator struct {
	maxDepth    int
	pureCombine bool
	logger      *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDepth overrides the recursion bound.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithPureCombine makes a rule that has nested rules but no operator combine
// the children alone instead of folding in a permissive true for the missing
// base comparison. The default keeps the permissive reading.
func WithPureCombine(enabled bool) Option {
	return func(e *Evaluator) {
		e.pureCombine = enabled
	}
}

// WithLogger sets the logger used for depth-bound bailouts.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New constructs an Evaluator.
func New(options ...Option) *Evaluator {
	e := &Evaluator{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// Evaluate resolves a rule tree to a visibility verdict. A nil rule imposes
// no restriction and yields true. When the depth bound trips, Evaluate
// returns true (keeping the field visible and its constraints active) along
// with an ErrDepthExceeded the caller can surface as a configuration error.
func (e *Evaluator) Evaluate(rule *schema.ConditionalRule, values map[string]any) (bool, error) {
	if rule == nil {
		return true, nil
	}
	return e.eval(*rule, values, e.maxDepth)
}

// Visible is Evaluate for callers that only need the verdict. Depth-bound
// errors are logged and the field stays visible.
func (e *Evaluator) Visible(rule *schema.ConditionalRule, values map[string]any) bool {
	ok, err := e.Evaluate(rule, values)
	if err != nil {
		e.logger.Warn("conditional rule evaluation bailed out", "error", err)
	}
	return ok
}

func (e *Evaluator) eval(rule schema.ConditionalRule, values map[string]any, depth int) (bool, error) {
	if depth <= 0 {
		return true, ErrDepthExceeded{Field: rule.Field}
	}

	base, hasBase := e.compare(rule, values)

	if len(rule.Rules) == 0 {
		return base, nil
	}

	nested := make([]bool, 0, len(rule.Rules))
	for _, child := range rule.Rules {
		ok, err := e.eval(child, values, depth-1)
		if err != nil {
			return true, err
		}
		nested = append(nested, ok)
	}

	includeBase := hasBase || !e.pureCombine

	if rule.Logic == schema.LogicOr {
		out := includeBase && base
		for _, ok := range nested {
			out = out || ok
		}
		return out, nil
	}

	out := !includeBase || base
	for _, ok := range nested {
		out = out && ok
	}
	return out, nil
}

// compare applies the rule's own operator to the referenced value. The
// second return reports whether an actual comparison took place; a missing
// or unknown operator defaults to true.
func (e *Evaluator) compare(rule schema.ConditionalRule, values map[string]any) (bool, bool) {
	value := values[rule.Field]

	switch rule.Operator {
	case schema.OpEquals:
		return strictEqual(value, rule.Value), true
	case schema.OpNotEquals:
		return !strictEqual(value, rule.Value), true
	case schema.OpGreaterThan:
		got, okGot := coerceNumber(value)
		want, okWant := coerceNumber(rule.Value)
		return okGot && okWant && got > want, true
	case schema.OpLessThan:
		got, okGot := coerceNumber(value)
		want, okWant := coerceNumber(rule.Value)
		return okGot && okWant && got < want, true
	case schema.OpContains:
		return strings.Contains(coerceString(value), coerceString(rule.Value)), true
	case schema.OpNotContains:
		return !strings.Contains(coerceString(value), coerceString(rule.Value)), true
	default:
		return true, false
	}
}

// strictEqual compares without coercion. Uncomparable kinds (slices, maps)
// never match. Integer widths are normalized first so that a decoded 5 and
// 5.0 denoting the same number still compare equal across YAML and JSON
// inputs.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if !ta.Comparable() || !tb.Comparable() {
		return false
	}
	if a == b {
		return true
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	return aok && bok && af == bf
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func coerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
