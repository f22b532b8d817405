// Package cli provides command definitions for searchsync.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/searchsync/searchsync/internal/codec"
	"github.com/searchsync/searchsync/internal/config"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/sync"
	"github.com/searchsync/searchsync/internal/ui"
	"github.com/searchsync/searchsync/internal/ui/tui"
	"github.com/searchsync/searchsync/internal/validate"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export the current configuration to a document",
		UsageText: "searchsync export [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the document to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "include-history",
				Usage: "Include search history in the document",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "Emit compact single-line JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, st, _, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			includeHistory := cfg.Export.IncludeHistory || cmd.Bool("include-history")
			pretty := cfg.Export.Pretty && !cmd.Bool("compact")

			exporter := sync.NewExporter(st)
			doc, err := exporter.Export(ctx, includeHistory)
			if err != nil {
				return err
			}

			out := os.Stdout
			if path := cmd.String("output"); path != "" {
				// #nosec G304 - path is provided by caller
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if err := codec.EncodeTo(out, doc, pretty); err != nil {
				return err
			}

			if cmd.String("output") != "" {
				fmt.Println(ui.StatusSuccess(fmt.Sprintf(
					"Exported %d engine(s) to %s", doc.Metadata.TotalEngines, cmd.String("output"))))
			}
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a configuration document",
		UsageText: "searchsync import [options] <file>",
		Description: `Import engines, preferences, and search history from a
   configuration document.

   Examples:
     searchsync import config.json
     searchsync import --dry-run --replace config.json
     searchsync import --interactive config.json`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without modifying the store",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Review the import plan in a TUI before applying",
			},
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Add non-duplicate engines, keep existing ones (default)",
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Clear existing engines before importing",
			},
			&cli.BoolFlag{
				Name:  "replace-preferences",
				Usage: "Overwrite stored preferences even when already configured",
			},
			&cli.BoolFlag{
				Name:  "replace-history",
				Usage: "Replace stored search history with the document's",
			},
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Skip document validation (not recommended)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("import requires exactly 1 argument: <file>")
			}

			if cmd.Bool("merge") && cmd.Bool("replace") {
				return errors.New("--merge and --replace are mutually exclusive")
			}

			cfg, st, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			// #nosec G304 - path is provided by caller
			data, err := os.ReadFile(args.Get(0))
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			doc, err := codec.Decode(data)
			if err != nil {
				return err
			}

			opts := sync.Options{
				ReplaceEngines:     cmd.Bool("replace") || (!cmd.Bool("merge") && cfg.GetMode() == model.ModeReplace),
				ReplacePreferences: cmd.Bool("replace-preferences"),
				ReplaceHistory:     cmd.Bool("replace-history"),
				SkipValidation:     cmd.Bool("skip-validation") || cfg.Import.SkipValidation,
				DryRun:             cmd.Bool("dry-run"),
			}

			importer := sync.NewImporter(st, mgr)

			if cmd.Bool("interactive") && !opts.DryRun {
				return runInteractiveImport(ctx, importer, doc, opts)
			}

			result, err := importer.Import(ctx, doc, opts)
			if err != nil {
				return err
			}

			printImportResult(result)
			return nil
		},
	}
}

// runInteractiveImport previews the plan in a TUI and applies it only on
// confirmation.
func runInteractiveImport(ctx context.Context, importer *sync.Importer, doc *model.ConfigDocument, opts sync.Options) error {
	preview, err := importer.Preview(ctx, doc, opts)
	if err != nil {
		return err
	}

	final, err := tui.Run(tui.NewPlanListModel(preview))
	if err != nil {
		return fmt.Errorf("plan preview: %w", err)
	}

	planModel, ok := final.(tui.PlanListModel)
	if !ok || planModel.Result().Action != tui.PlanActionApply {
		fmt.Println(ui.StatusSkipped("Import cancelled"))
		return nil
	}

	result, err := importer.Import(ctx, doc, opts)
	if err != nil {
		return err
	}

	printImportResult(result)
	return nil
}

func printImportResult(result *sync.ImportResult) {
	fmt.Print(result.Summary())
	if result.HasErrors() {
		fmt.Println(ui.StatusWarning("Import completed with errors"))
		return
	}
	if result.DryRun {
		return
	}
	fmt.Println(ui.StatusSuccess("Import complete"))
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a configuration document without importing it",
		UsageText: "searchsync validate <file>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("validate requires exactly 1 argument: <file>")
			}

			// #nosec G304 - path is provided by caller
			data, err := os.ReadFile(args.Get(0))
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			doc, err := codec.Decode(data)
			if err != nil {
				return err
			}

			result := validate.Document(doc)
			for _, w := range result.Warnings {
				fmt.Println(ui.StatusWarning(w))
			}
			for _, e := range result.Errors {
				fmt.Println(ui.StatusError(e))
			}
			fmt.Println(result.Summary())

			if result.HasErrors() {
				return errors.New("document is invalid")
			}
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Display the active configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Println(ui.Header("Configuration"))
			fmt.Printf("  File:            %s\n", configFileStatus())
			fmt.Printf("  Store driver:    %s\n", cfg.Store.Driver)
			fmt.Printf("  Store path:      %s\n", cfg.Store.Path)
			fmt.Printf("  Export pretty:   %t\n", cfg.Export.Pretty)
			fmt.Printf("  Include history: %t\n", cfg.Export.IncludeHistory)
			fmt.Printf("  Import mode:     %s\n", cfg.GetMode())
			fmt.Printf("  History enabled: %t\n", cfg.History.Enabled)
			fmt.Printf("  History cap:     %d\n", cfg.History.MaxItems)
			return nil
		},
	}
}

func configFileStatus() string {
	if config.Exists() {
		return config.FilePath()
	}
	return config.FilePath() + " (not present, using defaults)"
}
