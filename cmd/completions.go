package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/glowtrack/internal/model"
)

// completeCategories returns the categories matching toComplete.
func completeCategories(toComplete string) []string {
	var completions []string
	for _, c := range model.AllCategories() {
		if strings.HasPrefix(string(c), toComplete) {
			completions = append(completions, string(c)+"\t"+c.Label())
		}
	}
	return completions
}

// completeCategoryArg handles completion for commands that take a single category.
func completeCategoryArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Only complete first argument
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeCategories(toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeFrequencyArgs handles completion for "prefs frequency CATEGORY FREQUENCY".
func completeFrequencyArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeCategories(toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		var completions []string
		for _, f := range []model.Frequency{model.Daily, model.Weekly, model.Monthly, model.Never} {
			if strings.HasPrefix(string(f), toComplete) {
				completions = append(completions, string(f))
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
