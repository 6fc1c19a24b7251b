package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/drinkwise/drinkwise/internal/daemon"
)

func init() {
	rootCmd.AddCommand(badgesCmd)
}

var badgesCmd = &cobra.Command{
	Use:   "badges <user-id>",
	Short: "List the badge catalog with the user's unlocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	badges, err := d.Engagement.BadgeOverview(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BADGE\tTIER\tSTATUS\tDESCRIPTION")
	for _, b := range badges {
		status := "—"
		if b.Unlocked {
			status = "unlocked"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, b.Tier, status, b.Description)
	}
	return w.Flush()
}
