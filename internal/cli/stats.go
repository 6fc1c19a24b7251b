package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/drinkwise/drinkwise/internal/app/engagement"
	"github.com/drinkwise/drinkwise/internal/daemon"
	"github.com/drinkwise/drinkwise/internal/domain"
)

func init() {
	statsCmd.Flags().StringVar(&statsPeriod, "period", "", "Restrict to the current window: weekly or monthly")
	rootCmd.AddCommand(statsCmd)
}

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats <user-id>",
	Short: "Show a user's aggregated stats and progression",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	userID := args[0]

	var stats domain.CumulativeStats
	switch statsPeriod {
	case "":
		stats, err = d.Engagement.Stats(userID)
	case "weekly":
		stats, err = d.Engagement.PeriodStats(userID, domain.PeriodWeekly)
	case "monthly":
		stats, err = d.Engagement.PeriodStats(userID, domain.PeriodMonthly)
	default:
		return fmt.Errorf("unknown period %q (want weekly or monthly)", statsPeriod)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Parties\t%d\n", stats.TotalParties)
	fmt.Fprintf(w, "Drinks\t%d\n", stats.TotalDrinks)
	fmt.Fprintf(w, "Volume\t%d cl\n", stats.TotalVolume)
	fmt.Fprintf(w, "Vomi\t%d\n", stats.TotalVomi)
	fmt.Fprintf(w, "Fights\t%d\n", stats.TotalFights)
	fmt.Fprintf(w, "Recals\t%d\n", stats.TotalRecal)
	fmt.Fprintf(w, "Contacts\t%d\n", stats.TotalContacts)
	fmt.Fprintf(w, "Locations\t%d\n", stats.UniqueLocations)
	fmt.Fprintf(w, "Clean streak\t%d\n", stats.CleanStreak)
	if stats.MostConsumed.Quantity > 0 {
		fmt.Fprintf(w, "Most consumed\t%s", stats.MostConsumed.Type)
		if stats.MostConsumed.Brand != "" {
			fmt.Fprintf(w, " (%s)", stats.MostConsumed.Brand)
		}
		fmt.Fprintf(w, " ×%d\n", stats.MostConsumed.Quantity)
	}

	// Lifetime view also shows progression
	if statsPeriod == "" {
		profile, err := d.Engagement.Profile(userID)
		switch {
		case errors.Is(err, domain.ErrProfileNotFound):
			// No parties logged yet
		case err != nil:
			return err
		default:
			fmt.Fprintln(w)
			fmt.Fprintf(w, "XP\t%d\n", profile.XP)
			fmt.Fprintf(w, "Level\t%d (%s)\n", profile.Level, engagement.LevelName(profile.Level))
			fmt.Fprintf(w, "Next level\t%d XP away\n", engagement.XPToNextLevel(profile.XP))
			fmt.Fprintf(w, "Badges\t%d\n", len(profile.UnlockedBadges))
			fmt.Fprintf(w, "Challenges\t%d\n", len(profile.CompletedChallenges))
			fmt.Fprintf(w, "Daily streak\t%d (best %d)\n", profile.CurrentStreak, profile.LongestStreak)
		}
	}
	return w.Flush()
}
