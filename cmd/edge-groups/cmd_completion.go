package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// groupNameCompletion completes edge group names from the inventory. It is
// silent on errors so a broken inventory never breaks the shell.
func groupNameCompletion(opts *rootOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		e, err := opts.open()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		groups, err := e.store.Groups(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		prefix := strings.ToLower(toComplete)
		var out []string
		for _, g := range groups {
			if strings.HasPrefix(strings.ToLower(g.Name), prefix) {
				out = append(out, g.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

func formatCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp
}
