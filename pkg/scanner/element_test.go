package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementSingleShot(t *testing.T) {
	tests := []struct {
		name     string
		input    byte
		expected ConsumeResult
	}{
		{"matching byte", 'm', MatchedFinal},
		{"other letter", 'n', Rejected},
		{"digit", '7', Rejected},
		{"nul byte", 0, Rejected},
		{"high byte", 0xff, Rejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newElement(ElementSpec{Class: Literal('m'), MaxRepeat: 1})
			fresh := newElement(ElementSpec{Class: Literal('m'), MaxRepeat: 1})

			assert.Equal(t, tt.expected, e.Consume(tt.input))
			if tt.expected == MatchedFinal {
				assert.True(t, e.Finished())
				assert.Equal(t, 1, e.MatchCount())
				assert.Equal(t, []byte{'m'}, e.Capture())
			}

			e.Reset()
			assert.Equal(t, fresh, e)
			assert.Equal(t, fresh.Consume(tt.input), e.Consume(tt.input))
		})
	}
}

func TestElementRepeating(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []ConsumeResult
		count    int
		capture  string
	}{
		{"one digit then stop", "1,", []ConsumeResult{Matched, MatchedFinal}, 1, "1"},
		{"three digits then stop", "123)", []ConsumeResult{Matched, Matched, Matched, MatchedFinal}, 3, "123"},
		{"overflow", "1234", []ConsumeResult{Matched, Matched, Matched, Rejected}, 3, "123"},
		{"no repetition", ",", []ConsumeResult{Rejected}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newElement(ElementSpec{Class: Digits, MaxRepeat: 3})
			for i := 0; i < len(tt.input); i++ {
				require.Equal(t, tt.expected[i], e.Consume(tt.input[i]), "byte %d", i)
				require.LessOrEqual(t, e.MatchCount(), e.MaxRepeat())
				require.Len(t, e.Capture(), e.MatchCount())
			}
			assert.Equal(t, tt.count, e.MatchCount())
			assert.Equal(t, tt.capture, string(e.Capture()))
		})
	}
}

func TestElementFinishedClearedByReset(t *testing.T) {
	e := newElement(ElementSpec{Class: Digits, MaxRepeat: 3})
	require.Equal(t, Matched, e.Consume('4'))
	assert.False(t, e.Finished())
	require.Equal(t, MatchedFinal, e.Consume('x'))
	assert.True(t, e.Finished())
	assert.Equal(t, "4", string(e.Capture()), "a byte that is not consumed is not captured")

	e.Reset()
	assert.False(t, e.Finished())
	assert.Zero(t, e.MatchCount())
	assert.Empty(t, e.Capture())
}

func TestClass(t *testing.T) {
	k := NewClass([]byte("abca"))
	assert.Equal(t, 3, k.Len())
	assert.Equal(t, []byte("abc"), k.Chars())
	assert.True(t, k.Contains('c'))
	assert.False(t, k.Contains('d'))
	assert.Equal(t, "[abc]", k.String())
	assert.Equal(t, "'('", Literal('(').String())
	assert.Equal(t, `[\]\-x]`, NewClass([]byte("]-x")).String())
	assert.Equal(t, 10, Digits.Len())
}
