package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	shells := []string{"bash", "zsh", "fish", "powershell"}
	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate a completion script for your shell.

Completions cover commands, flags, output formats (-f a,b,...) and the
--fit rule. For example:

  source <(%[1]s completion bash)
  %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish
  %[1]s completion zsh > "${fpath[1]}/_%[1]s"`, appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeFixed completes a flag from a fixed list.
func completeFixed(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes the last element of a comma-separated format
// list, skipping formats already named.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	seen := map[string]bool{}
	for _, f := range strings.Split(done, ",") {
		seen[strings.ToLower(strings.TrimSpace(f))] = true
	}

	var out []string
	for _, f := range pipeline.Formats {
		if !seen[f] && strings.HasPrefix(f, strings.ToLower(last)) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// registerFlagCompletions wires value completion for the flags cmd defines.
func registerFlagCompletions(cmd *cobra.Command) {
	complete := map[string]func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective){
		"fit":    completeFixed("inclusive", "exclusive"),
		"format": completeFormats,
		"output": completeFixed(plan.FormatText, plan.FormatJSON, plan.FormatYAML),
	}
	for name, fn := range complete {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fn)
		}
	}
	if cmd.Flags().Lookup("output-dir") != nil {
		_ = cmd.MarkFlagDirname("output-dir")
	}
	if cmd.Flags().Lookup("source") != nil {
		_ = cmd.MarkFlagFilename("source", "scad")
	}
}
