package cli

import (
	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
)

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		board  boardFlags
		output string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Work out the tiles and print stacks for a board",
		Long: `Plan resolves the board size, picks a base tile size, splits the board into
core, side and corner tiles, and packs them into print stacks. Nothing is
rendered.`,
		Example: `  multiboard plan -w 600 -h 400
  multiboard plan --width-cells 20 --height-cells 16 --max-tile-size 7 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, fit, err := board.request(cmd, c.Config)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("prefix") {
				prefix = c.Config.Prefix
			}

			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			p, err := runner.Plan(cmd.Context(), pipeline.Options{Board: req, Fit: fit, Prefix: prefix})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case plan.FormatText:
				if isTerminal(w) {
					printPlan(w, p)
					return nil
				}
				return p.WriteSummary(w)
			case plan.FormatJSON, plan.FormatYAML:
				return p.Encode(w, output)
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid --output %q (must be text, json or yaml)", output)
			}
		},
	}

	board.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", plan.FormatText, "output format: text, json or yaml")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix for stack names")
	registerFlagCompletions(cmd)
	return cmd
}
