package command

import (
	"strconv"
	"strings"
)

// Spec is one argv for an external binary: the binary name followed by
// flag and value tokens in the order they were appended.
type Spec struct {
	tokens []string
}

// New seeds a Spec with the leading tokens, usually the launcher prefix
// and binary name.
func New(tokens ...string) *Spec {
	s := &Spec{}
	s.Add(tokens...)
	return s
}

// Add appends raw tokens.
func (s *Spec) Add(tokens ...string) *Spec {
	s.tokens = append(s.tokens, tokens...)
	return s
}

// Flag appends a bare flag with no value.
func (s *Spec) Flag(name string) *Spec {
	return s.Add(name)
}

// Option appends a flag/value pair.
func (s *Spec) Option(name, value string) *Spec {
	return s.Add(name, value)
}

// OptionInt appends a flag with an integer value.
func (s *Spec) OptionInt(name string, value int) *Spec {
	return s.Option(name, strconv.Itoa(value))
}

// OptionFloat appends a flag with a float value. Formatting uses the
// shortest decimal representation so repeated builds emit identical tokens.
func (s *Spec) OptionFloat(name string, value float64) *Spec {
	return s.Option(name, strconv.FormatFloat(value, 'f', -1, 64))
}

// Tokens returns a copy of the token sequence.
func (s *Spec) Tokens() []string {
	out := make([]string, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// String renders the argv as a space-joined command line.
func (s *Spec) String() string {
	return strings.Join(s.tokens, " ")
}

// Chain is an ordered list of Specs. When more than one Spec is present
// the steps are sequential and each runs only if the previous succeeded.
type Chain struct {
	specs []*Spec
}

// Single wraps one Spec in a Chain.
func Single(spec *Spec) Chain {
	return Chain{specs: []*Spec{spec}}
}

// And appends a Spec that must run after, and conditionally on, the
// existing steps.
func (c Chain) And(spec *Spec) Chain {
	specs := make([]*Spec, 0, len(c.specs)+1)
	specs = append(specs, c.specs...)
	specs = append(specs, spec)
	return Chain{specs: specs}
}

// Specs returns the ordered steps.
func (c Chain) Specs() []*Spec {
	out := make([]*Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Len reports the number of steps.
func (c Chain) Len() int {
	return len(c.specs)
}

// Render serializes the chain for a shell, joining steps with "&&" so a
// later step only runs when the earlier one exits successfully. Shell
// syntax appears here and nowhere else.
func (c Chain) Render() string {
	parts := make([]string, 0, len(c.specs))
	for _, spec := range c.specs {
		parts = append(parts, spec.String())
	}
	return strings.Join(parts, " && ")
}
