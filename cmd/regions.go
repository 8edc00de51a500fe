package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/metrofocus/internal/catalog"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the city's regions",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, modeOneShot)
		if err != nil {
			return err
		}
		defer env.Close()

		minutes := env.ledger.Snapshot().TotalFocusMinutes
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s · %d focus min\n\n", catalog.CitizenRankFor(minutes).Name, minutes)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREGION\tGUIDE\tSTATUS")
		for _, r := range catalog.Regions() {
			status := "open"
			if minutes < r.UnlockThreshold {
				status = fmt.Sprintf("locked (%d min)", r.UnlockThreshold)
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", r.ID, r.Icon, r.Name, r.Character, status)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if next, ok := catalog.NextRegion(minutes); ok {
			fmt.Fprintf(out, "\nNext unlock: %s at %d min\n", next.Name, next.UnlockThreshold)
		}
		return nil
	},
}
