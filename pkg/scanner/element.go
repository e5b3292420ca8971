package scanner

// ConsumeResult is the outcome of offering one byte to an Element.
type ConsumeResult int

const (
	// Rejected means the byte cannot continue the match; the owning token resets.
	Rejected ConsumeResult = iota
	// Matched means the byte was consumed and the element is still open.
	Matched
	// MatchedFinal means the element's requirement is satisfied. A repeating
	// element reports this only for a byte it did not consume.
	MatchedFinal
)

func (r ConsumeResult) String() string {
	switch r {
	case Rejected:
		return "rejected"
	case Matched:
		return "matched"
	case MatchedFinal:
		return "matched-final"
	}
	return "unknown"
}

// MaxRepeatLimit is the largest repetition bound a pattern may declare. It
// bounds the capture buffer of every element.
const MaxRepeatLimit = 1024

// ElementSpec describes one position of a pattern: a class and the maximum
// number of consecutive repetitions allowed. The minimum is always one.
type ElementSpec struct {
	Class     Class
	MaxRepeat int
	// Capture marks the element as a capture group surfaced on completion.
	Capture bool
}

// Element is the mutable per-scan state of one ElementSpec.
type Element struct {
	class      Class
	maxRepeat  int
	matchCount int
	capture    []byte
	finished   bool
}

// Captures start small and grow with append up to maxRepeat.
const initialCaptureSize = 16

func newElement(spec ElementSpec) Element {
	limit := min(max(spec.MaxRepeat, 1), MaxRepeatLimit)
	return Element{
		class:     spec.Class,
		maxRepeat: limit,
		capture:   make([]byte, 0, min(limit, initialCaptureSize)),
	}
}

// Consume offers c to the element.
func (e *Element) Consume(c byte) ConsumeResult {
	member := e.class.Contains(c)

	if !e.repeats() {
		if !member {
			return Rejected
		}
		e.capture = append(e.capture[:0], c)
		e.matchCount = 1
		e.finished = true
		return MatchedFinal
	}

	if member {
		if e.matchCount == e.maxRepeat {
			// one repetition too many
			return Rejected
		}
		e.matchCount++
		e.capture = append(e.capture, c)
		return Matched
	}

	if e.matchCount >= 1 {
		e.finished = true
		return MatchedFinal
	}
	return Rejected
}

// Reset returns the element to its pattern-start condition.
func (e *Element) Reset() {
	e.matchCount = 0
	e.capture = e.capture[:0]
	e.finished = false
}

// MatchCount returns the number of bytes matched in the current pass.
func (e *Element) MatchCount() int { return e.matchCount }

// MaxRepeat returns the repetition bound.
func (e *Element) MaxRepeat() int { return e.maxRepeat }

// Finished reports whether the requirement was satisfied in the current pass.
func (e *Element) Finished() bool { return e.finished }

// Capture returns the bytes matched in the current pass. The slice is only
// valid until the next call to Consume or Reset.
func (e *Element) Capture() []byte { return e.capture }

func (e *Element) repeats() bool {
	return e.maxRepeat > 1
}
