package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for srcbundle
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "srcbundle",
		Short: "Bundle source files into one document and back",
		Long: `srcbundle assembles a set of text files into one self-describing
document (plain text, Markdown, XML, JSON, or JSONL) and can invert the
process, reconstructing the original files and directory layout from such
a document.

Combining is template-driven: per-file and whole-document headers and
footers accept {{PLACEHOLDER}} tokens. Extraction detects the document
format from its structure and only supports documents produced with the
default templates.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCombineCommand())
	cmd.AddCommand(NewExtractCommand())
	cmd.AddCommand(NewTreeCommand())

	return cmd
}

// DefaultArgs makes combine the default command: when the first argument
// names no subcommand and is not a flag, the invocation is rewritten to
// "combine <args>", so "srcbundle src/" bundles src/.
func DefaultArgs(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}
	first := args[0]
	if strings.HasPrefix(first, "-") || first == "help" || first == "completion" {
		return args
	}
	for _, c := range root.Commands() {
		if c.Name() == first || c.HasAlias(first) {
			return args
		}
	}
	return append([]string{"combine"}, args...)
}
