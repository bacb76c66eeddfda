package directory

import (
	"fmt"
	"strings"

	"github.com/wilbur182/viewcache/internal/component"
	"github.com/wilbur182/viewcache/internal/state"
)

// Rule is one edge set of the dependency graph: what a click on Source does
// to the shared state.
type Rule struct {
	// Source is the component whose click triggers the rule.
	Source component.ID
	// Append is the root-level text mutation.
	Append state.AppendText
	// Owner is the component the counter mutation is delegated to.
	Owner component.ID
	// Counter is the counter Owner is expected to own.
	Counter state.Field
}

// Touched returns every field the rule may write.
func (r Rule) Touched() []state.Field {
	return append(r.Append.Fields(), r.Counter)
}

// Canonical is the coupling table: each click appends to a text field the
// source does not display and bumps a counter the source does not display.
var Canonical = []Rule{
	{
		Source:  component.Header,
		Append:  state.AppendText{Field: state.FieldDescription, Suffix: "x"},
		Owner:   component.Header,
		Counter: state.FieldCounter2,
	},
	{
		Source:  component.Content,
		Append:  state.AppendText{Field: state.FieldAuthor, Suffix: "y"},
		Owner:   component.Content,
		Counter: state.FieldCounter3,
	},
	{
		Source:  component.Footer,
		Append:  state.AppendText{Field: state.FieldTitle, Suffix: "z"},
		Owner:   component.Footer,
		Counter: state.FieldCounter1,
	},
}

// Policy decides which caches reconcile after an interaction.
type Policy int

const (
	// PolicyDiff reconciles every cache and invalidates those that drifted.
	// It cannot under-invalidate.
	PolicyDiff Policy = iota
	// PolicyGraph reconciles only caches that display a field the rule
	// touches, as declared by each cache's Fields.
	PolicyGraph
)

func (p Policy) String() string {
	switch p {
	case PolicyDiff:
		return "diff"
	case PolicyGraph:
		return "graph"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Policies returns every policy.
func Policies() []Policy {
	return []Policy{PolicyDiff, PolicyGraph}
}

// ParsePolicy parses a policy name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diff", "":
		return PolicyDiff, nil
	case "graph":
		return PolicyGraph, nil
	}
	return 0, fmt.Errorf("unknown invalidation policy %q", name)
}
