package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/searchsync/searchsync/internal/model"
	"github.com/searchsync/searchsync/internal/ui"
	"github.com/searchsync/searchsync/internal/validate"
)

func prefsCommand() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Manage user preferences",
		Commands: []*cli.Command{
			prefsShowCommand(),
			prefsSetCommand(),
		},
	}
}

func prefsShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Display current preferences",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, st, _, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			current, err := st.GetPreferences(ctx)
			if err != nil {
				return err
			}

			prefs := model.DefaultPreferences()
			header := "Preferences (defaults, none saved)"
			if current != nil {
				prefs = *current
				header = "Preferences"
			}

			fmt.Println(ui.Header(header))
			entries := prefs.Map()
			keys := make([]string, 0, len(entries))
			for k := range entries {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %-16s %v\n", k, entries[k])
			}
			return nil
		},
	}
}

func prefsSetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a preference option",
		UsageText: "searchsync prefs set <key> <value>",
		Description: `Keys: defaultEngine, theme (light|dark|auto),
   resultsPerPage (5-100), openInNewTab, showPreviews, autoComplete,
   enableHistory, maxHistoryItems (0-10000)`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("set requires exactly 2 arguments: <key> <value>")
			}
			key, value := args.Get(0), args.Get(1)

			_, st, _, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			current, err := st.GetPreferences(ctx)
			if err != nil {
				return err
			}
			prefs := model.DefaultPreferences()
			if current != nil {
				prefs = *current
			}

			raw := prefs.Map()
			if _, ok := raw[key]; !ok {
				return fmt.Errorf("unknown preference key %q", key)
			}
			raw[key] = parsePrefValue(value)

			// The sanitizer silently drops out-of-range values; a sanitized
			// value differing from the requested one means it was rejected.
			updated := validate.Preferences(raw)
			if fmt.Sprint(updated.Map()[key]) != fmt.Sprint(raw[key]) {
				return fmt.Errorf("invalid value %q for %s", value, key)
			}

			if err := st.UpdatePreferences(ctx, updated); err != nil {
				return err
			}

			fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s = %v", key, raw[key])))
			return nil
		},
	}
}

// parsePrefValue converts a CLI string to the loose type the sanitizer
// expects: bool, int, or string.
func parsePrefValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Manage search history",
		Commands: []*cli.Command{
			historyListCommand(),
			historyClearCommand(),
		},
	}
}

func historyListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recent searches, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum entries to show (0 for all)",
				Value:   20,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, st, _, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := st.GetSearchHistory(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No search history")
				return nil
			}

			for _, e := range entries {
				fmt.Printf("  %s  %s  %s\n",
					ui.Dim(e.Timestamp.Format("2006-01-02 15:04")),
					ui.Bold(e.Query),
					ui.Dim("via "+e.Engine))
			}
			return nil
		},
	}
}

func historyClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all search history",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, st, _, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := st.ClearSearchHistory(ctx); err != nil {
				return err
			}
			fmt.Println(ui.StatusSuccess("Search history cleared"))
			return nil
		},
	}
}
