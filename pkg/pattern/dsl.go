package pattern

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spicery/streamscan/pkg/scanner"
	"golang.org/x/xerrors"
)

// Definition is the parsed form of a pattern such as
//
//	"mul(" [0-9]{1,3} "," [0-9]{1,3} ")"
type Definition struct {
	Items []*Item `parser:"@@+"`
}

// Item is either a quoted literal or a byte class with an optional bound.
type Item struct {
	Literal *string    `parser:"  @String"`
	Class   *ClassItem `parser:"| @@"`
}

type ClassItem struct {
	Set    string  `parser:"@Class"`
	Repeat *Repeat `parser:"@@?"`
}

// Repeat is written {N} or {1,N}; both mean one to N repetitions.
type Repeat struct {
	First  int  `parser:"'{' @Int"`
	Second *int `parser:"( ',' @Int )? '}'"`
}

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Class", Pattern: `\[(\\.|[^\]\\])*\]`},
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "Punct", Pattern: `[{},]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	})

	dslParser = participle.MustBuild[Definition](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)
)

// Parse parses pattern text without compiling it.
func Parse(text string) (*Definition, error) {
	def, err := dslParser.ParseString("pattern", text)
	if err != nil {
		return nil, err
	}
	return def, nil
}

// Compile parses text and builds a named scanner pattern. Literals expand to
// one single-shot element per byte; each class becomes a capture group.
func Compile(name, text string) (*scanner.Pattern, error) {
	def, err := Parse(text)
	if err != nil {
		return nil, xerrors.Errorf("unable to parse pattern '%s': %w", name, err)
	}
	specs, err := def.Specs()
	if err != nil {
		return nil, xerrors.Errorf("invalid pattern '%s': %w", name, err)
	}
	return scanner.NewPattern(name, specs)
}

// MustCompile is like Compile but panics on error.
func MustCompile(name, text string) *scanner.Pattern {
	p, err := Compile(name, text)
	if err != nil {
		panic(err)
	}
	return p
}

// Specs lowers the definition to element specs.
func (d *Definition) Specs() ([]scanner.ElementSpec, error) {
	var specs []scanner.ElementSpec
	for _, item := range d.Items {
		switch {
		case item.Literal != nil:
			if *item.Literal == "" {
				return nil, xerrors.New("empty literal")
			}
			specs = append(specs, scanner.LiteralSpecs(*item.Literal)...)
		case item.Class != nil:
			spec, err := item.Class.spec()
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func (c *ClassItem) spec() (scanner.ElementSpec, error) {
	chars, err := expandClass(c.Set)
	if err != nil {
		return scanner.ElementSpec{}, err
	}
	limit := 1
	if c.Repeat != nil {
		limit, err = c.Repeat.limit()
		if err != nil {
			return scanner.ElementSpec{}, xerrors.Errorf("class %s: %w", c.Set, err)
		}
	}
	return scanner.ElementSpec{
		Class:     scanner.NewClass(chars),
		MaxRepeat: limit,
		Capture:   true,
	}, nil
}

func (r *Repeat) limit() (int, error) {
	if r.Second == nil {
		if r.First < 1 {
			return 0, xerrors.Errorf("repetition bound {%d} must be at least 1", r.First)
		}
		return r.First, nil
	}
	if r.First != 1 {
		return 0, xerrors.Errorf("repetition {%d,%d}: minimum must be 1", r.First, *r.Second)
	}
	if *r.Second < 1 {
		return 0, xerrors.Errorf("repetition {%d,%d}: maximum must be at least 1", r.First, *r.Second)
	}
	return *r.Second, nil
}

// expandClass turns the text of a bracketed class, brackets included, into
// its member bytes. Ranges like a-z are expanded; a '-' at either end is a
// literal dash.
func expandClass(set string) ([]byte, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(set, "["), "]")

	var chars []byte
	escaped := make([]bool, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 0x80 {
			return nil, xerrors.Errorf("class %s: only ASCII bytes are supported", set)
		}
		if c != '\\' {
			chars = append(chars, c)
			escaped = append(escaped, false)
			continue
		}
		i++
		if i == len(body) {
			return nil, xerrors.Errorf("class %s: dangling escape", set)
		}
		chars = append(chars, unescape(body[i]))
		escaped = append(escaped, true)
	}

	var out []byte
	for i := 0; i < len(chars); i++ {
		if i+2 < len(chars) && chars[i+1] == '-' && !escaped[i+1] {
			lo, hi := chars[i], chars[i+2]
			if lo > hi {
				return nil, xerrors.Errorf("class %s: range %c-%c is reversed", set, lo, hi)
			}
			for c := int(lo); c <= int(hi); c++ {
				out = append(out, byte(c))
			}
			i += 2
			continue
		}
		out = append(out, chars[i])
	}
	if len(out) == 0 {
		return nil, xerrors.Errorf("class %s is empty", set)
	}
	return out, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}
