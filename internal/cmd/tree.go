package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"srcbundle/internal/config"
	"srcbundle/internal/display"
	"srcbundle/internal/fileutil"
	"srcbundle/internal/models"
	"srcbundle/internal/render"
)

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [root-folder]...",
		Short: "Show the folder tree of the files that would be combined",
		Long: `Discover files with the same filters the combine command uses and print
the resulting folder tree with per-file sizes, without combining anything.

Examples:
  srcbundle tree src
  srcbundle tree --config pairing.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runTree,
	}

	cmd.Flags().StringP("config", "c", "srcbundle.yaml", "Path to config file")

	return cmd
}

// runTree implements the tree command logic
func runTree(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Search.RootFolders = args
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Search.RootFolders) == 0 {
		return &models.ConfigError{Reason: "no root folders configured"}
	}

	scanOpts := fileutil.ScanOptions{
		Recursive:         cfg.Search.Recursive,
		MaxDepth:          cfg.Search.MaxDepth,
		AllowedExtensions: cfg.Search.AllowedExtensions,
		ExcludeFilenames:  cfg.Filters.Exclusions.Filenames,
		ExcludeExtensions: cfg.Filters.Exclusions.Extensions,
		ExcludeFolders:    cfg.Filters.Exclusions.Folders,
		MinSize:           cfg.Filters.MinSizeBytes,
		MaxSize:           cfg.Filters.MaxSizeBytes,
		SortBy:            cfg.Output.SortBy,
	}

	for _, root := range cfg.Search.RootFolders {
		files, err := fileutil.ScanRoot(root, scanOpts)
		if err != nil {
			return err
		}

		// The tree only needs paths and sizes, not file contents.
		records := make([]models.FileRecord, 0, len(files))
		var totalSize int64
		for _, f := range files {
			records = append(records, models.FileRecord{RelPath: f.RelPath, Size: f.Size})
			totalSize += f.Size
		}

		display.PrintTree(cmd.OutOrStdout(), records, filepath.Base(root))
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d files, %s\n", len(files), render.HumanSize(totalSize))
	}
	return nil
}
