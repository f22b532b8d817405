package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"

	"github.com/searchsync/searchsync/internal/engine"
	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/seed"
	"github.com/searchsync/searchsync/internal/ui"
)

var nameFold = cases.Fold()

func enginesCommand() *cli.Command {
	return &cli.Command{
		Name:  "engines",
		Usage: "Manage search engines",
		Commands: []*cli.Command{
			enginesListCommand(),
			enginesAddCommand(),
			enginesRemoveCommand(),
			enginesDefaultCommand(),
			enginesSeedCommand(),
		},
	}
}

func enginesListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List configured engines",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, _, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			engines := mgr.Engines()
			if len(engines) == 0 {
				fmt.Println("No engines configured")
				return nil
			}

			fmt.Println(ui.Header(fmt.Sprintf("%d engine(s)", len(engines))))
			for _, e := range engines {
				marker := " "
				if e.IsDefault {
					marker = ui.DefaultMarker()
				}
				state := ui.Success("enabled")
				if !e.Enabled {
					state = ui.Dim("disabled")
				}
				fmt.Printf("  %s %s  %s  %s\n", marker, ui.Bold(e.Name), state, ui.Dim(e.URL))
			}
			return nil
		},
	}
}

func enginesAddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a search engine",
		UsageText: "searchsync engines add [options] <name> <url>",
		Description: `The URL is a search template containing the literal {query}
   placeholder, e.g. https://example.com/search?q={query}`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "icon",
				Usage: "Icon URL",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Accent color as #RRGGBB",
			},
			&cli.BoolFlag{
				Name:  "disabled",
				Usage: "Add the engine in disabled state",
			},
			&cli.BoolFlag{
				Name:  "default",
				Usage: "Make this engine the default",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("add requires exactly 2 arguments: <name> <url>")
			}

			_, _, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			record := model.EngineRecord{
				Name:    args.Get(0),
				URL:     args.Get(1),
				Icon:    cmd.String("icon"),
				Color:   cmd.String("color"),
				Enabled: !cmd.Bool("disabled"),
			}

			added, err := mgr.AddEngine(ctx, record)
			if err != nil {
				return err
			}

			if cmd.Bool("default") {
				if err := mgr.SetDefault(ctx, added.ID); err != nil {
					return err
				}
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Added engine %s", added.Name)))
			return nil
		},
	}
}

func enginesRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a search engine by name or id",
		UsageText: "searchsync engines remove <name-or-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("remove requires exactly 1 argument: <name-or-id>")
			}

			_, _, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			target, err := findEngine(mgr, args.Get(0))
			if err != nil {
				return err
			}

			if err := mgr.DeleteEngine(ctx, target.ID); err != nil {
				return err
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Removed engine %s", target.Name)))
			if promoted, ok := mgr.Default(); ok && promoted.ID != target.ID && target.IsDefault {
				fmt.Println(ui.StatusWarning(fmt.Sprintf("Default engine is now %s", promoted.Name)))
			}
			return nil
		},
	}
}

func enginesDefaultCommand() *cli.Command {
	return &cli.Command{
		Name:      "default",
		Usage:     "Show or set the default engine",
		UsageText: "searchsync engines default [<name-or-id>]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, _, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			args := cmd.Args()
			if args.Len() == 0 {
				current, ok := mgr.Default()
				if !ok {
					fmt.Println("No default engine")
					return nil
				}
				fmt.Printf("%s %s\n", ui.DefaultMarker(), current.Name)
				return nil
			}

			target, err := findEngine(mgr, args.Get(0))
			if err != nil {
				return err
			}
			if err := mgr.SetDefault(ctx, target.ID); err != nil {
				return err
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Default engine set to %s", target.Name)))
			return nil
		},
	}
}

func enginesSeedCommand() *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "Bulk-add engines from a TOML seed file",
		UsageText: "searchsync engines seed <file>",
		Description: `A seed file holds [[engines]] tables:

     [[engines]]
     name = "DuckDuckGo"
     url = "https://duckduckgo.com/?q={query}"

   Entries matching an existing engine by name or URL are skipped.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return errors.New("seed requires exactly 1 argument: <file>")
			}

			_, _, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			file, err := seed.LoadFile(args.Get(0))
			if err != nil {
				return err
			}

			result, err := seed.Apply(ctx, mgr, file)
			if err != nil {
				return err
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf(
				"Seeded %d engine(s), skipped %d duplicate(s)", result.Added, result.Skipped)))
			for _, e := range result.Errors {
				fmt.Println(ui.StatusError(e))
			}
			return nil
		},
	}
}

// findEngine resolves an engine by exact id or case-insensitive name.
func findEngine(mgr *engine.Manager, key string) (model.EngineRecord, error) {
	folded := nameFold.String(key)
	for _, e := range mgr.Engines() {
		if e.ID == key || nameFold.String(e.Name) == folded {
			return e, nil
		}
	}
	return model.EngineRecord{}, fmt.Errorf("no such engine %q", key)
}
