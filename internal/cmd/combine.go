package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"srcbundle/internal/config"
	"srcbundle/internal/display"
	"srcbundle/internal/encode"
	"srcbundle/internal/filelock"
	"srcbundle/internal/fileutil"
	"srcbundle/internal/logger"
	"srcbundle/internal/models"
	"srcbundle/internal/tokens"
)

// NewCombineCommand creates the combine command
func NewCombineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine [root-folder]...",
		Short: "Bundle discovered files into one document",
		Long: `Discover files under one or more root folders and render them into a
single self-describing document.

Root folders given as arguments override the root_folders list from the
config file. Configuration is loaded from srcbundle.yaml in the current
directory unless --config points elsewhere; CLI flags override config
file settings.

Examples:
  # Combine ./src into combined_files.txt with the default templates
  srcbundle combine src

  # Markdown output with a table of contents and folder tree
  srcbundle combine src -o bundle.md --toc --tree

  # JSON output for byte-exact round trips
  srcbundle combine src --format json -o bundle.json

  # Pairing mode driven entirely by the config file
  srcbundle combine --config pairing.yaml

  # List what would be combined without writing anything
  srcbundle combine src --dry-run`,
		Args: cobra.ArbitraryArgs,
		RunE: runCombine,
	}

	cmd.Flags().StringP("config", "c", "srcbundle.yaml", "Path to config file")
	cmd.Flags().StringP("output", "o", "", "Output document path (overrides config)")
	cmd.Flags().StringP("format", "f", "", "Output format: text, markdown, xml, json, jsonl")
	cmd.Flags().Bool("toc", false, "Prepend a table of contents")
	cmd.Flags().Bool("tree", false, "Prepend a folder tree section")
	cmd.Flags().Bool("line-numbers", false, "Prefix each content line with its number")
	cmd.Flags().Int("max-tokens", 0, "Token budget for the document (0 = unlimited)")
	cmd.Flags().String("sort", "", "Record order: name, name-desc, size, mtime")
	cmd.Flags().Bool("clipboard", false, "Copy the document to the clipboard instead of writing a file")
	cmd.Flags().Bool("stdout", false, "Write the document to stdout instead of a file")
	cmd.Flags().Bool("dry-run", false, "List the files that would be combined without writing")

	return cmd
}

// runCombine implements the combine command logic
func runCombine(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) > 0 {
		cfg.Search.RootFolders = args
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.File, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("toc") {
		cfg.Output.TableOfContents, _ = cmd.Flags().GetBool("toc")
	}
	if cmd.Flags().Changed("tree") {
		cfg.Output.IncludeTree, _ = cmd.Flags().GetBool("tree")
	}
	if cmd.Flags().Changed("line-numbers") {
		cfg.Output.AddLineNumbers, _ = cmd.Flags().GetBool("line-numbers")
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.Filters.MaxTotalTokens, _ = cmd.Flags().GetInt("max-tokens")
	}
	if cmd.Flags().Changed("sort") {
		cfg.Output.SortBy, _ = cmd.Flags().GetString("sort")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Search.RootFolders) == 0 {
		return &models.ConfigError{Reason: "no root folders configured"}
	}

	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toClipboard && toStdout {
		return fmt.Errorf("cannot use both --clipboard and --stdout")
	}
	if cfg.Pairing.Enabled && (toClipboard || toStdout) {
		return &models.ConfigError{Reason: "pairing mode writes one file per pair and cannot target stdout or the clipboard"}
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	format, _ := cfg.Format()
	counter := tokens.ByName(cfg.Output.TokenCounter)

	scanOpts := fileutil.ScanOptions{
		Recursive:         cfg.Search.Recursive,
		MaxDepth:          cfg.Search.MaxDepth,
		AllowedExtensions: cfg.Search.AllowedExtensions,
		ExcludeFilenames:  cfg.Filters.Exclusions.Filenames,
		ExcludeExtensions: cfg.Filters.Exclusions.Extensions,
		ExcludeFolders:    cfg.Filters.Exclusions.Folders,
		MinSize:           cfg.Filters.MinSizeBytes,
		SortBy:            cfg.Output.SortBy,
	}
	// Oversized files stay in the scan when a placeholder will stand in
	// for their content; otherwise they are dropped at discovery time.
	if cfg.Output.MaxSizePlaceholder == "" {
		scanOpts.MaxSize = cfg.Filters.MaxSizeBytes
	}
	if cfg.Pairing.Enabled {
		scanOpts.AllowedExtensions = append(
			append([]string{}, cfg.Pairing.SourceExtensions...),
			cfg.Pairing.HeaderExtensions...)
	}

	var records []models.FileRecord
	for _, root := range cfg.Search.RootFolders {
		files, err := fileutil.ScanRoot(root, scanOpts)
		if err != nil {
			return err
		}
		log.Debugf("discovered %d files under %s", len(files), root)

		recs, err := fileutil.LoadRecords(files, fileutil.LoadOptions{
			AddLineNumbers: cfg.Output.AddLineNumbers,
			Counter:        counter,
		})
		if err != nil {
			return err
		}
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return fmt.Errorf("no files matched under %v", cfg.Search.RootFolders)
	}

	if dryRun {
		for _, r := range records {
			fmt.Fprintln(cmd.OutOrStdout(), r.RelPath)
		}
		log.Infof("dry run: %d files would be combined", len(records))
		return nil
	}

	doc := models.Document{
		Records:              records,
		Format:               format,
		HeaderTemplate:       cfg.Output.HeaderTemplate,
		FooterTemplate:       cfg.Output.FooterTemplate,
		GlobalHeaderTemplate: cfg.Output.GlobalHeaderTemplate,
		GlobalFooterTemplate: cfg.Output.GlobalFooterTemplate,
		TableOfContents:      cfg.Output.TableOfContents,
		IncludeTree:          cfg.Output.IncludeTree,
		TreeRoot:             filepath.Base(cfg.Search.RootFolders[0]),
		MaxTotalTokens:       cfg.Filters.MaxTotalTokens,
		MaxFileSize:          cfg.Filters.MaxSizeBytes,
		MaxSizePlaceholder:   cfg.Output.MaxSizePlaceholder,
	}

	if !encode.Decodable(&doc) {
		log.Warnf("custom header or footer templates are in effect: extract will not be able to decode this document")
	}

	if cfg.Pairing.Enabled {
		return runPairedCombine(cmd, cfg, &doc, counter, log)
	}

	result, err := encode.Encode(&doc, counter)
	if err != nil {
		return err
	}

	switch {
	case toClipboard:
		if err := clipboard.WriteAll(result.Output); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		log.Infof("copied %s to clipboard", display.FormatMetadata(
			result.Stats.TotalFiles, result.Stats.TotalSizeBytes,
			result.Stats.TotalLines, result.Stats.TotalTokens))
	case toStdout:
		fmt.Fprint(cmd.OutOrStdout(), result.Output)
	default:
		lock := filelock.New(cfg.Output.File + ".lock")
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("failed to lock output file: %w", err)
		}
		defer lock.Unlock()

		if err := filelock.AtomicWrite(cfg.Output.File, []byte(result.Output)); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfg.Output.File, err)
		}
		log.Infof("wrote %s", cfg.Output.File)
	}

	display.PrintSummary(cmd.ErrOrStderr(), result.Stats, "COMBINE COMPLETE")
	return nil
}

// runPairedCombine writes one document per source/header pair into the
// configured output folder.
func runPairedCombine(cmd *cobra.Command, cfg *config.Config, doc *models.Document, counter tokens.Counter, log *logger.ConsoleLogger) error {
	opts := encode.PairingOptions{
		SourceExtensions:  cfg.Pairing.SourceExtensions,
		HeaderExtensions:  cfg.Pairing.HeaderExtensions,
		IncludeMismatched: cfg.Pairing.IncludeMismatched,
		FilenameTemplate:  cfg.Output.PairedFilenameTemplate,
	}

	outputs, err := encode.EncodePairs(doc, opts, counter)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		return fmt.Errorf("no pairs matched under %v", cfg.Search.RootFolders)
	}

	folder := cfg.Output.Folder
	if folder == "" {
		folder = "combined"
	}

	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		target := filepath.Join(folder, filepath.FromSlash(name))
		if err := filelock.AtomicWrite(target, []byte(outputs[name])); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		log.Debugf("wrote %s", target)
	}

	log.Infof("wrote %d paired documents to %s", len(outputs), folder)
	return nil
}
