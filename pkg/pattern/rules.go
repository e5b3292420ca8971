package pattern

import (
	"os"

	"github.com/spicery/streamscan/pkg/scanner"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML rules file
type RulesFile struct {
	Patterns []PatternRule `yaml:"patterns"`
}

// PatternRule names one pattern and gives its text in the pattern language.
type PatternRule struct {
	Name  string `yaml:"name"`
	Match string `yaml:"match"`
}

// Names of the built-in patterns.
const (
	MulName  = "mul"
	DoName   = "do"
	DontName = "dont"
)

// DefaultRules returns the built-in instruction patterns.
func DefaultRules() *RulesFile {
	return &RulesFile{
		Patterns: []PatternRule{
			{Name: DoName, Match: `"do()"`},
			{Name: DontName, Match: `"don't()"`},
			{Name: MulName, Match: `"mul(" [0-9]{1,3} "," [0-9]{1,3} ")"`},
		},
	}
}

// DefaultPatterns compiles DefaultRules.
// Default rules should never fail to compile, so we panic if they do.
func DefaultPatterns() []*scanner.Pattern {
	patterns, err := DefaultRules().Compile()
	if err != nil {
		panic("invalid default rules: " + err.Error())
	}
	return patterns
}

// LoadRulesFile loads and parses a YAML rules file
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, xerrors.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, xerrors.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}
	return rules, nil
}

// ParseRules decodes a rules document.
func ParseRules(data []byte) (*RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// MarshalRules encodes rules as YAML.
func MarshalRules(rules *RulesFile) ([]byte, error) {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal rules to YAML: %w", err)
	}
	return data, nil
}

// ApplyRulesToDefaults overlays rules on the defaults: a rule with the name
// of a built-in pattern replaces it, any other rule is appended.
// Returns an error if the rules file itself defines a name twice.
func ApplyRulesToDefaults(rules *RulesFile) (*RulesFile, error) {
	if err := rules.checkNames(); err != nil {
		return nil, err
	}

	merged := DefaultRules()
	index := make(map[string]int, len(merged.Patterns))
	for i, rule := range merged.Patterns {
		index[rule.Name] = i
	}
	for _, rule := range rules.Patterns {
		if i, ok := index[rule.Name]; ok {
			merged.Patterns[i] = rule
			continue
		}
		index[rule.Name] = len(merged.Patterns)
		merged.Patterns = append(merged.Patterns, rule)
	}
	return merged, nil
}

// Compile builds one scanner pattern per rule, in file order.
func (rules *RulesFile) Compile() ([]*scanner.Pattern, error) {
	if len(rules.Patterns) == 0 {
		return nil, xerrors.New("rules define no patterns")
	}
	if err := rules.checkNames(); err != nil {
		return nil, err
	}

	patterns := make([]*scanner.Pattern, 0, len(rules.Patterns))
	for i, rule := range rules.Patterns {
		if rule.Match == "" {
			return nil, xerrors.Errorf("pattern %d ('%s') has no match text", i, rule.Name)
		}
		p, err := Compile(rule.Name, rule.Match)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

func (rules *RulesFile) checkNames() error {
	seen := make(map[string]int, len(rules.Patterns))
	for i, rule := range rules.Patterns {
		if rule.Name == "" {
			return xerrors.Errorf("pattern %d has no name", i)
		}
		if first, exists := seen[rule.Name]; exists {
			return xerrors.Errorf("pattern '%s' is defined by both rule %d and rule %d", rule.Name, first, i)
		}
		seen[rule.Name] = i
	}
	return nil
}
