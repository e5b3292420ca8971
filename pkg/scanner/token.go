package scanner

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// StepResult is the outcome of offering one byte to a Token.
type StepResult int

const (
	// NoMatch means the byte broke the partial match and the token has reset.
	NoMatch StepResult = iota
	// InProgress means the byte was accepted and the match is still open.
	InProgress
	// Completed means the byte finished a match. LastMatch holds its captures
	// and the token is ready for the next occurrence.
	Completed
)

func (r StepResult) String() string {
	switch r {
	case NoMatch:
		return "no-match"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Pattern is an immutable, named sequence of element specs. Each scan gets
// its own Token from NewToken, so patterns may be shared freely.
type Pattern struct {
	name  string
	specs []ElementSpec
}

// NewPattern validates the specs and returns a pattern.
func NewPattern(name string, specs []ElementSpec) (*Pattern, error) {
	if name == "" {
		return nil, xerrors.New("pattern name is empty")
	}
	if len(specs) == 0 {
		return nil, xerrors.Errorf("pattern '%s' has no elements", name)
	}
	copied := make([]ElementSpec, len(specs))
	for i, spec := range specs {
		if spec.Class.Len() == 0 {
			return nil, xerrors.Errorf("pattern '%s': element %d has an empty class", name, i)
		}
		if spec.MaxRepeat < 1 {
			return nil, xerrors.Errorf("pattern '%s': element %d has repeat bound %d, want at least 1", name, i, spec.MaxRepeat)
		}
		if spec.MaxRepeat > MaxRepeatLimit {
			return nil, xerrors.Errorf("pattern '%s': element %d has repeat bound %d, want at most %d", name, i, spec.MaxRepeat, MaxRepeatLimit)
		}
		copied[i] = spec
	}
	return &Pattern{name: name, specs: copied}, nil
}

// MustPattern is like NewPattern but panics on invalid input. It is meant
// for built-in pattern tables.
func MustPattern(name string, specs []ElementSpec) *Pattern {
	p, err := NewPattern(name, specs)
	if err != nil {
		panic(err)
	}
	return p
}

// LiteralSpecs expands text into one single-shot element per byte.
func LiteralSpecs(text string) []ElementSpec {
	specs := make([]ElementSpec, 0, len(text))
	for i := 0; i < len(text); i++ {
		specs = append(specs, ElementSpec{Class: Literal(text[i]), MaxRepeat: 1})
	}
	return specs
}

// Name returns the pattern name.
func (p *Pattern) Name() string { return p.name }

// Specs returns a copy of the element specs.
func (p *Pattern) Specs() []ElementSpec {
	out := make([]ElementSpec, len(p.specs))
	copy(out, p.specs)
	return out
}

// Groups returns the number of capture groups.
func (p *Pattern) Groups() int {
	n := 0
	for _, spec := range p.specs {
		if spec.Capture {
			n++
		}
	}
	return n
}

func (p *Pattern) String() string {
	var b strings.Builder
	b.WriteString(p.name)
	b.WriteString(":")
	for _, spec := range p.specs {
		b.WriteString(" ")
		b.WriteString(spec.Class.String())
		if spec.MaxRepeat > 1 {
			b.WriteString("{1,")
			b.WriteString(strconv.Itoa(spec.MaxRepeat))
			b.WriteString("}")
		}
	}
	return b.String()
}

// NewToken returns a fresh automaton for the pattern.
func (p *Pattern) NewToken() *Token {
	t := &Token{
		pattern:  p,
		elements: make([]Element, len(p.specs)),
	}
	for i, spec := range p.specs {
		t.elements[i] = newElement(spec)
	}
	return t
}

// Token is the incremental automaton for one pattern. It resets itself after
// a mismatch and after every completed match, so it can run over an
// unbounded stream without outside intervention.
//
// A Token is not safe for concurrent use.
type Token struct {
	pattern  *Pattern
	elements []Element
	cursor   int
	last     []string
}

// Pattern returns the pattern the token was built from.
func (t *Token) Pattern() *Pattern { return t.pattern }

// Cursor returns the index of the element currently expected.
func (t *Token) Cursor() int { return t.cursor }

// Element returns the state of the i-th element.
func (t *Token) Element(i int) *Element { return &t.elements[i] }

// LastMatch returns the captures of the most recent completed match, one
// string per capture group in pattern order.
func (t *Token) LastMatch() []string { return t.last }

// Step offers c to the token.
func (t *Token) Step(c byte) StepResult {
	res, pending := t.advance(c)
	if res == Completed && pending {
		// The byte that closed a trailing repetition is offered to the
		// fresh token so it can open the next occurrence. Offering it to
		// the first element before the reset, then clearing, would lose
		// that occurrence: "a1a23x" against "a" [0-9]{1,2} would match once.
		t.advance(c)
	}
	return res
}

// advance runs c through the current element, re-offering it across each
// boundary crossed by a repetition that finished without consuming it.
// Elements past the cursor are always in their reset state, so the loop
// crosses at most two boundaries. pending reports whether c was still
// unconsumed when the pattern completed.
func (t *Token) advance(c byte) (res StepResult, pending bool) {
	for {
		e := &t.elements[t.cursor]
		switch e.Consume(c) {
		case Rejected:
			t.Reset()
			return NoMatch, false
		case Matched:
			return InProgress, false
		}

		consumed := !e.repeats()
		t.cursor++
		if t.cursor == len(t.elements) {
			t.complete()
			return Completed, !consumed
		}
		if consumed {
			return InProgress, false
		}
	}
}

func (t *Token) complete() {
	captures := make([]string, 0, len(t.elements))
	for i := range t.elements {
		if t.pattern.specs[i].Capture {
			captures = append(captures, string(t.elements[i].capture))
		}
	}
	t.last = captures
	t.Reset()
}

// Reset returns every element and the cursor to the pattern-start condition.
// The captures of the last completed match are kept.
func (t *Token) Reset() {
	for i := range t.elements {
		t.elements[i].Reset()
	}
	t.cursor = 0
}
