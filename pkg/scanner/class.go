package scanner

// Class is a fixed, ordered set of bytes an Element may match against.
// A Class is immutable once constructed.
type Class struct {
	chars []byte
}

// Digits is the class of decimal digits.
var Digits = NewClass([]byte("0123456789"))

// NewClass creates a class from the given bytes. Duplicates are dropped,
// the first occurrence keeps its position.
func NewClass(chars []byte) Class {
	seen := [256]bool{}
	out := make([]byte, 0, len(chars))
	for _, c := range chars {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return Class{chars: out}
}

// Literal creates a single-byte class.
func Literal(c byte) Class {
	return Class{chars: []byte{c}}
}

// Contains reports whether c belongs to the class.
func (k Class) Contains(c byte) bool {
	for _, x := range k.chars {
		if x == c {
			return true
		}
	}
	return false
}

// Len returns the number of bytes in the class.
func (k Class) Len() int {
	return len(k.chars)
}

// Chars returns a copy of the bytes in the class, in construction order.
func (k Class) Chars() []byte {
	out := make([]byte, len(k.chars))
	copy(out, k.chars)
	return out
}

// String renders the class the way the pattern language writes it.
func (k Class) String() string {
	if len(k.chars) == 1 {
		return "'" + escapeByte(k.chars[0]) + "'"
	}
	s := "["
	for _, c := range k.chars {
		if c == ']' || c == '-' || c == '\\' {
			s += "\\"
		}
		s += escapeByte(c)
	}
	return s + "]"
}

func escapeByte(c byte) string {
	switch {
	case c == '\n':
		return `\n`
	case c == '\t':
		return `\t`
	case c < 0x20 || c >= 0x7f:
		const hex = "0123456789abcdef"
		return `\x` + string(hex[c>>4]) + string(hex[c&0xf])
	}
	return string(c)
}
