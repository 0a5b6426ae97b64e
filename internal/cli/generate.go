package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/render/scad"
)

// generateOpts holds the generate flags besides the board ones.
type generateOpts struct {
	prefix    string
	outputDir string
	formats   string
	jobs      int
	yes       bool
	noCache   bool
	refresh   bool
	title     string
	gapMM     float64
	openscad  string
	source    string
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		board boardFlags
		opts  generateOpts
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Plan a board and render its stacks and drawings",
		Long: `Generate plans the board, shows the summary, asks for confirmation, then
compiles one model per print stack with OpenSCAD and renders the board-level
drawings. A stack that fails to compile is reported and the others still run.

Formats:
  stl, 3mf   one model per stack (needs openscad)
  dxf        cutting drawing with tile outlines and holes
  pdf        1:1 printable cutting sheet
  svg, png   coloured layout preview
  json       the plan itself`,
		Example: `  multiboard generate -w 600 -h 400 --prefix garage_ -y
  multiboard generate --width-cells 20 --height-cells 16 -f stl,dxf,pdf -d out/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &board, &opts)
		},
	}

	board.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&opts.prefix, "prefix", "", "prefix for output file names")
	flags.StringVarP(&opts.outputDir, "output-dir", "d", "", "directory to write files into (default from config)")
	flags.StringVarP(&opts.formats, "format", "f", "", "comma-separated output formats (default from config)")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "parallel render jobs (default from config)")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	flags.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	flags.StringVar(&opts.title, "title", "", "title for the cutting sheet")
	flags.Float64Var(&opts.gapMM, "gap-mm", 0, "space between tiles on drawings")
	flags.StringVar(&opts.openscad, "openscad", "", "openscad binary (default from config)")
	flags.StringVar(&opts.source, "source", "", "custom .scad model (default built-in)")
	registerFlagCompletions(cmd)
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, board *boardFlags, g *generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	req, fit, err := board.request(cmd, c.Config)
	if err != nil {
		return err
	}
	opts := c.generateOptions(cmd, g)
	opts.Board, opts.Fit, opts.Logger = req, fit, logger
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	outputDir := g.outputDir
	if outputDir == "" {
		outputDir = c.Config.OutputDir
	}
	if err := errors.ValidateOutputDir(outputDir); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, g.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	p, err := runner.Plan(ctx, opts)
	if err != nil {
		return err
	}
	printPlan(out, p)
	fmt.Fprintln(out)

	if hasModelFormat(opts.Formats) {
		if err := opts.Compiler.Available(); err != nil {
			printWarning(out, "%s", errors.UserMessage(err))
		}
	}

	if !g.yes {
		ok, err := c.confirm(ctx, fmt.Sprintf("Generate %s for %d stack(s) in %s?",
			strings.Join(opts.Formats, ", "), len(p.Stacks), outputDir))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeDeclined, "generation cancelled")
		}
	}

	prog := newProgress(logger)
	var spin *Spinner
	if isTerminal(cmd.ErrOrStderr()) {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %d stack(s)...", len(p.Stacks)))
		spin.Start()
	}
	result, err := runner.Render(ctx, p, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := pipeline.WriteArtifacts(outputDir, result.Artifacts)
	for i, path := range paths {
		printFile(out, path, result.Artifacts[i].Cached)
	}
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		printError(out, "%s: %s", f.Filename, errors.UserMessage(f.Err))
	}
	printStats(out, result.Stats, len(result.Failures))
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	if len(result.Failures) > 0 {
		return errors.Wrap(errors.ErrCodeExternalTool, result.Err(), "%d of %d output(s) failed", len(result.Failures), len(result.Failures)+len(result.Artifacts))
	}
	printSuccess(out, "Generated %d file(s) in %s", len(paths), outputDir)
	return nil
}

// generateOptions merges flags over config into pipeline options.
func (c *CLI) generateOptions(cmd *cobra.Command, g *generateOpts) pipeline.Options {
	flags := cmd.Flags()
	opts := pipeline.Options{
		Prefix:  c.Config.Prefix,
		Formats: c.Config.Formats,
		Jobs:    c.Config.Jobs,
		GapMM:   g.gapMM,
		Title:   g.title,
		Refresh: g.refresh,
		Compiler: scad.Compiler{
			Binary: c.Config.OpenSCAD.Binary,
			Source: c.Config.OpenSCAD.Source,
		},
	}
	if flags.Changed("prefix") {
		opts.Prefix = g.prefix
	}
	if flags.Changed("format") {
		opts.Formats = pipeline.ParseFormats(g.formats)
	}
	if flags.Changed("jobs") {
		opts.Jobs = g.jobs
	}
	if flags.Changed("openscad") {
		opts.Compiler.Binary = g.openscad
	}
	if flags.Changed("source") {
		opts.Compiler.Source = g.source
	}
	return opts
}

func hasModelFormat(formats []string) bool {
	for _, f := range formats {
		if pipeline.IsModelFormat(f) {
			return true
		}
	}
	return false
}
