package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show player stats and recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		env, err := openEnv(cmd, modeOneShot)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := commandContext(cmd)
		totals, err := env.backend.SessionTotals(ctx)
		if err != nil {
			return fmt.Errorf("session totals: %w", err)
		}
		recent, err := env.backend.QuerySessionEvents(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("session history: %w", err)
		}

		out := cmd.OutOrStdout()
		printPlayer(out, env.ledger.Snapshot())
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Sessions: %d started, %d completed, %d abandoned (%d focus min logged)\n",
			totals.Started, totals.Completed, totals.Abandoned, totals.FocusSecs/60)
		if len(recent) > 0 {
			fmt.Fprintln(out)
			printHistory(out, recent)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent session events to show")
}

func printPlayer(out io.Writer, p game.PlayerState) {
	citizen := catalog.CitizenRankFor(p.TotalFocusMinutes)
	fmt.Fprintf(out, "Bucks:        $%d\n", p.Currency)
	fmt.Fprintf(out, "ZPD rank:     %s (%d/%d)\n", p.Rank.DisplayName(), p.RankProgress, game.RankProgressMax)
	fmt.Fprintf(out, "Citizen rank: %s\n", citizen.Name)
	fmt.Fprintf(out, "Focus:        %d min\n", p.TotalFocusMinutes)
	fmt.Fprintf(out, "Apartment:    level %d/%d, %d items\n", p.UnlockLevel, game.MaxUnlockLevel, len(p.OwnedList()))
}

func printHistory(out io.Writer, recs []store.SessionEventRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tKIND\tDETAIL\tELAPSED")
	for _, r := range recs {
		detail := r.Region
		switch {
		case r.Stage != "":
			detail = r.Stage
		case r.Stake > 0:
			detail = fmt.Sprintf("$%d stake", r.Stake)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d min\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"), r.Action, r.Kind, detail,
			r.ElapsedSecs/60, r.TotalSecs/60)
	}
	w.Flush()
}
