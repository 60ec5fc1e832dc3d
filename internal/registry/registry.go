// Package registry provides a global registry of custom rule conditions.
// Custom rules register themselves in init() functions, so level files can
// name them without the rule interpreter hardcoding any of them.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Jean-Jawed/Patternia/internal/grid"
)

// Context is what a custom rule sees when the player lands on a cell.
// Slices are copies; mutating them has no effect on the interpreter.
type Context struct {
	Col, Row int
	Cell     grid.Cell
	Grid     grid.View

	Colors       []string // normalized colors touched, oldest first
	SolidColors  []string // same, excluding blinking cells
	Steps        int
	Deaths       int
	IdleTicks    int
	MusicPlaying bool
}

// LastColors returns the final n entries of the primary color sequence,
// or nil when fewer were recorded.
func (c Context) LastColors(n int) []string {
	if n <= 0 || len(c.Colors) < n {
		return nil
	}
	return c.Colors[len(c.Colors)-n:]
}

// RuleFunc evaluates a custom condition.
type RuleFunc func(ctx Context) bool

// RuleInfo contains metadata about a registered rule.
type RuleInfo struct {
	Name        string
	Description string
}

type entry struct {
	fn   RuleFunc
	desc string
}

var (
	rules = make(map[string]entry)
	mu    sync.RWMutex
)

// Register adds a custom rule under name.
// Typically called from an init() function.
// Panics if a rule with the same name is already registered.
func Register(name, description string, fn RuleFunc) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := rules[name]; exists {
		panic(fmt.Sprintf("registry: custom rule %q already registered", name))
	}
	rules[name] = entry{fn: fn, desc: description}
}

// List returns all registered rules, sorted by name.
func List() []RuleInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]RuleInfo, 0, len(rules))
	for name, e := range rules {
		result = append(result, RuleInfo{Name: name, Description: e.desc})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Lookup returns the rule registered under name.
func Lookup(name string) (RuleFunc, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := rules[name]
	return e.fn, ok
}

// Exists checks if a rule with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := rules[name]
	return ok
}
