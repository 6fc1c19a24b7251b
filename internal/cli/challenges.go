package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/drinkwise/drinkwise/internal/daemon"
)

func init() {
	rootCmd.AddCommand(challengesCmd)
}

var challengesCmd = &cobra.Command{
	Use:   "challenges <user-id>",
	Short: "List challenges with the user's progress in the current windows",
	Args:  cobra.ExactArgs(1),
	RunE:  runChallenges,
}

func runChallenges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	challenges, err := d.Engagement.ChallengeOverview(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHALLENGE\tPERIOD\tXP\tPROGRESS\tSTATUS")
	for _, c := range challenges {
		status := fmt.Sprintf("%d%%", c.Progress.Percentage)
		if c.Completed {
			status = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%s\n",
			c.Title, c.Period, c.XP, c.Progress.Current, c.Progress.Target, status)
	}
	return w.Flush()
}
