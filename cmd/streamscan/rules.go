package main

import (
	"github.com/spf13/cobra"
	"github.com/spicery/streamscan/pkg/pattern"
	"github.com/spicery/streamscan/pkg/scanner"
	"golang.org/x/xerrors"
)

func newMakeRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "make-rules",
		Short: "Print the default rules YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := pattern.MarshalRules(pattern.DefaultRules())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// loadPatterns returns the default patterns, or the defaults overlaid with
// the rules file when one is given.
func loadPatterns(rulesFile string) ([]*scanner.Pattern, error) {
	if rulesFile == "" {
		return pattern.DefaultPatterns(), nil
	}
	rules, err := pattern.LoadRulesFile(rulesFile)
	if err != nil {
		return nil, err
	}
	merged, err := pattern.ApplyRulesToDefaults(rules)
	if err != nil {
		return nil, xerrors.Errorf("error applying rules: %w", err)
	}
	return merged.Compile()
}
