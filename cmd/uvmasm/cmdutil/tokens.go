package cmdutil

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"uvmasm/internal/lexer"
	"uvmasm/internal/source"
	"uvmasm/internal/token"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream scanned from a UVM assembly file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(args[0])
		},
	}
}

func runTokens(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	view := source.New(path, buf)
	lx := lexer.New(bytes.NewReader(buf))

	kindLabel := color.New(color.FgCyan).SprintFunc()
	for {
		t := lx.Next()
		fmt.Printf("%4d:%-3d %-20s %q\n", t.LineRow, t.LineCol, kindLabel(t.Kind.String()), view.Substring(t.Index, t.Size))
		if t.Kind == token.EndOfFile {
			return nil
		}
	}
}
