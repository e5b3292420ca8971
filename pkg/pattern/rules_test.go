package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPatterns(t *testing.T) {
	patterns := DefaultPatterns()
	require.Len(t, patterns, 3)

	names := make([]string, 0, len(patterns))
	for _, p := range patterns {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{DoName, DontName, MulName}, names)
	assert.Equal(t, 2, patterns[2].Groups())
}

func TestRulesRoundTrip(t *testing.T) {
	data, err := MarshalRules(DefaultRules())
	require.NoError(t, err)

	rules, err := ParseRules(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestLoadRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
patterns:
  - name: add
    match: '"add(" [0-9]{1,3} "," [0-9]{1,3} ")"'
  - name: do
    match: '"enable"'
`), 0o644))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	require.Len(t, rules.Patterns, 2)
	assert.Equal(t, "add", rules.Patterns[0].Name)

	_, err = LoadRulesFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read rules file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("patterns: [name"), 0o644))
	_, err = LoadRulesFile(bad)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestApplyRulesToDefaults(t *testing.T) {
	merged, err := ApplyRulesToDefaults(&RulesFile{Patterns: []PatternRule{
		{Name: DoName, Match: `"enable"`},
		{Name: "add", Match: `"add(" [0-9]{1,3} ")"`},
	}})
	require.NoError(t, err)
	assert.Equal(t, []PatternRule{
		{Name: DoName, Match: `"enable"`},
		{Name: DontName, Match: `"don't()"`},
		{Name: MulName, Match: `"mul(" [0-9]{1,3} "," [0-9]{1,3} ")"`},
		{Name: "add", Match: `"add(" [0-9]{1,3} ")"`},
	}, merged.Patterns)

	_, err = ApplyRulesToDefaults(&RulesFile{Patterns: []PatternRule{
		{Name: "x", Match: `"a"`},
		{Name: "x", Match: `"b"`},
	}})
	assert.ErrorContains(t, err, "defined by both rule 0 and rule 1")
}

func TestRulesCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		rules   RulesFile
		message string
	}{
		{"no patterns", RulesFile{}, "no patterns"},
		{"missing name", RulesFile{Patterns: []PatternRule{{Match: `"a"`}}}, "no name"},
		{"missing match", RulesFile{Patterns: []PatternRule{{Name: "a"}}}, "no match text"},
		{"bad match", RulesFile{Patterns: []PatternRule{{Name: "a", Match: `[`}}}, "unable to parse pattern 'a'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rules.Compile()
			assert.ErrorContains(t, err, tt.message)
		})
	}
}
