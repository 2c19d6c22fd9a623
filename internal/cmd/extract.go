package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"srcbundle/internal/decode"
	"srcbundle/internal/extract"
	"srcbundle/internal/logger"
)

// NewExtractCommand creates the extract command
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [document]",
		Short: "Reconstruct files from a combined document",
		Long: `Detect the format of a combined document and write every file it
contains back under a destination directory, recreating the original
relative layout.

The input is a file path, "-" for stdin, or the clipboard with
--clipboard. Only documents produced with the default templates are
supported. A document containing any unsafe path (absolute, drive-
prefixed, or escaping via "..") is rejected before anything is written.

Examples:
  srcbundle extract bundle.md
  srcbundle extract bundle.json -o restored
  cat bundle.txt | srcbundle extract -
  srcbundle extract --clipboard --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringP("output-dir", "o", "extracted", "Destination directory")
	cmd.Flags().Bool("clipboard", false, "Read the document from the clipboard")
	cmd.Flags().Bool("force", false, "Overwrite a non-empty destination without asking")
	cmd.Flags().Bool("dry-run", false, "List the files that would be written without writing")

	return cmd
}

// runExtract implements the extract command logic
func runExtract(cmd *cobra.Command, args []string) error {
	fromClipboard, _ := cmd.Flags().GetBool("clipboard")
	outDir, _ := cmd.Flags().GetString("output-dir")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	data, source, err := readInput(cmd, args, fromClipboard)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), "info")

	records, format, err := decode.Decode(data, source)
	if err != nil {
		return err
	}
	log.Debugf("detected %s format, %d files", format, len(records))

	if !dryRun && !force && extract.DestinationExists(outDir) {
		ok, err := confirmOverwrite(outDir)
		if err != nil {
			return err
		}
		if !ok {
			log.Infof("extraction cancelled")
			return nil
		}
	}

	result, err := extract.Materialize(records, outDir, extract.Options{DryRun: dryRun})
	if err != nil {
		return err
	}

	if dryRun {
		for _, path := range result.Written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		log.Infof("dry run: %d files would be extracted to %s", len(result.Written), outDir)
		return nil
	}

	for _, werr := range result.Errors {
		log.Errorf("%v", werr)
	}

	log.Infof("extracted %d files (%s format) to %s", len(result.Written), format, outDir)
	if n := len(result.Errors); n > 0 {
		return fmt.Errorf("%d of %d files failed to write", n, len(records))
	}
	return nil
}

// readInput resolves the document bytes from the clipboard, stdin, or a
// file argument.
func readInput(cmd *cobra.Command, args []string, fromClipboard bool) ([]byte, string, error) {
	if fromClipboard {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("cannot give both --clipboard and a document argument")
		}
		text, err := clipboard.ReadAll()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return []byte(text), "clipboard", nil
	}

	if len(args) == 0 {
		return nil, "", fmt.Errorf("a document argument, \"-\", or --clipboard is required")
	}

	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, args[0], nil
}

// confirmOverwrite asks before writing into a non-empty destination. When
// stdin is not a terminal there is nobody to ask, so it declines.
func confirmOverwrite(outDir string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("destination %s is not empty (use --force to overwrite)", outDir)
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Destination %s is not empty. Overwrite existing files?", outDir),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return confirmed, nil
}
