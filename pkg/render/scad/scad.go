// Package scad compiles stacks into printable models with OpenSCAD.
//
// A stack is passed to the model source as a list parameter:
//
//	openscad -o out.stl -D 'stack=[[4,7,7,"core"],[1,6,6,"corner"]]' multiboard.scad
//
// The model source defaults to the one embedded in this package; a different
// file can be supplied through [Compiler.Source].
package scad

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/stack"
)

//go:embed multiboard.scad
var defaultSource []byte

// DefaultSource returns the embedded model source.
func DefaultSource() []byte {
	return defaultSource
}

// DefaultBinary is looked up on PATH when no binary is configured.
const DefaultBinary = "openscad"

// Model formats.
const (
	FormatSTL = "stl"
	Format3MF = "3mf"
)

// ValidFormat reports whether OpenSCAD can produce the model format.
func ValidFormat(format string) bool {
	return format == FormatSTL || format == Format3MF
}

// Param formats a stack as an OpenSCAD list literal.
func Param(s stack.Stack) string {
	parts := make([]string, len(s))
	for i, g := range s {
		parts[i] = fmt.Sprintf("[%d,%d,%d,%q]", g.Count, g.Width, g.Height, g.Shape.String())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Compiler runs OpenSCAD.
type Compiler struct {
	// Binary is the openscad executable name or path.
	Binary string
	// Source is the .scad model path. Empty uses DefaultSource.
	Source string
}

func (c Compiler) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return DefaultBinary
}

// SourceBytes returns the model source that Compile will use.
func (c Compiler) SourceBytes() ([]byte, error) {
	if c.Source == "" {
		return defaultSource, nil
	}
	data, err := os.ReadFile(c.Source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read model source")
	}
	return data, nil
}

// Available reports whether the compiler binary can be found.
func (c Compiler) Available() error {
	if _, err := exec.LookPath(c.binary()); err != nil {
		return errors.Wrap(errors.ErrCodeExternalTool, err,
			"%s not found; install OpenSCAD from https://openscad.org or set [openscad] binary in the config", c.binary())
	}
	return nil
}

// Compile renders one stack to the given model format and returns the file
// contents. Failures carry the EXTERNAL_TOOL code and the tool's stderr.
func (c Compiler) Compile(ctx context.Context, s stack.Stack, format string) ([]byte, error) {
	if !ValidFormat(format) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "openscad cannot produce %q models", format)
	}
	if err := c.Available(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "multiboard-scad-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	source := c.Source
	if source == "" {
		source = filepath.Join(dir, "multiboard.scad")
		if err := os.WriteFile(source, defaultSource, 0o644); err != nil {
			return nil, fmt.Errorf("write model source: %w", err)
		}
	}

	out := filepath.Join(dir, "stack."+format)
	cmd := exec.CommandContext(ctx, c.binary(), "-o", out, "-D", "stack="+Param(s), source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "openscad: %s", strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternalTool, err, "openscad produced no %s output", format)
	}
	return data, nil
}
