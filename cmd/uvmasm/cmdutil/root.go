// Package cmdutil wires the cobra command tree for uvmasm.
package cmdutil

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var (
	verbose  bool
	colorArg string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "uvmasm",
		Short: "Front-end parser and type checker for UVM assembly",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			switch colorArg {
			case "auto":
				// leave color's own tty auto-detection in place
			case "always":
				color.NoColor = false
			case "never":
				color.NoColor = true
			default:
				return fmt.Errorf("invalid --color value %q (want auto, always, or never)", colorArg)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&colorArg, "color", "auto", "colorize diagnostics: auto, always, never")
	root.AddCommand(newCheckCmd())
	root.AddCommand(newTokensCmd())
	return root
}

// Execute runs the uvmasm command tree.
func Execute() error {
	return newRootCmd().Execute()
}
