package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/searchsync/searchsync/internal/ui"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Display store statistics",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, st, mgr, closeStore, err := loadManager(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := st.GetStats(ctx)
			if err != nil {
				return err
			}

			fmt.Println(ui.Header("Store statistics"))
			fmt.Printf("  Engines:         %d (%d enabled)\n", stats.TotalEngines, stats.EnabledEngines)
			if def, ok := mgr.Default(); ok {
				fmt.Printf("  Default engine:  %s\n", def.Name)
			} else {
				fmt.Printf("  Default engine:  %s\n", ui.Dim("none"))
			}
			fmt.Printf("  History entries: %d\n", stats.HistoryEntries)
			fmt.Printf("  Preferences:     %s\n", boolWord(stats.HasPreferences))
			return nil
		},
	}
}

func boolWord(b bool) string {
	if b {
		return "saved"
	}
	return "defaults"
}
