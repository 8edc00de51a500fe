package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/metrofocus/internal/game"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "List apartment furniture",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, modeOneShot)
		if err != nil {
			return err
		}
		defer env.Close()

		p := env.ledger.Snapshot()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Balance: $%d\n\n", p.Currency)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOST\tSTATUS")
		for _, item := range env.ledger.Furniture().Items() {
			status := ""
			switch {
			case p.Owns(item.ID):
				status = "owned"
			case p.Currency < item.Cost:
				status = "can't afford"
			}
			fmt.Fprintf(w, "%s\t%s %s\t%s\t$%d\t%s\n", item.ID, item.Emoji, item.Name, item.Category, item.Cost, status)
		}
		return w.Flush()
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <item>",
	Short: "Buy a furniture item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, modeOneShot)
		if err != nil {
			return err
		}
		defer env.Close()

		item, err := env.ledger.Purchase(commandContext(cmd), game.ItemID(args[0]))
		out := cmd.OutOrStdout()
		switch {
		case err == nil:
		case game.IsPersistence(err):
			fmt.Fprintf(out, "warning: %v\n", err)
		case errors.Is(err, game.ErrUnknownItem):
			return fmt.Errorf("%w (see `metrofocus shop`)", err)
		default:
			return err
		}

		fmt.Fprintf(out, "Bought %s for $%d. Balance: $%d\n", item.Name, item.Cost, env.ledger.Snapshot().Currency)
		if item.ID == game.CapstoneItem {
			fmt.Fprintln(out, "The penthouse is yours.")
		}
		return nil
	},
}

func init() {
	shopCmd.AddCommand(shopBuyCmd)
}
