package cmdutil

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uvmasm/internal/diag"
	"uvmasm/internal/lexer"
	"uvmasm/internal/parser"
	"uvmasm/internal/source"
	"uvmasm/internal/typecheck"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and type-check a UVM assembly file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	view := source.New(path, buf)
	log.WithField("file", path).Debug("scanning source")

	lx := lexer.New(bytes.NewReader(buf))
	root, err := parser.Parse(lx, view)
	if err != nil {
		if d, ok := err.(diag.Diagnostic); ok {
			fmt.Fprint(os.Stderr, diag.Render(view, d))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	log.Debug("parse succeeded, type-checking")

	ok, diags := typecheck.Check(root)
	if !ok {
		fmt.Fprint(os.Stderr, diag.RenderAll(view, diags))
		return fmt.Errorf("%d type-check error(s)", len(diags))
	}

	fmt.Printf("%s: ok\n", path)
	return nil
}
