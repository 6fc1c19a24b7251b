package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/drinkwise/drinkwise/internal/app/engagement"
	"github.com/drinkwise/drinkwise/internal/daemon"
	"github.com/drinkwise/drinkwise/internal/domain"
)

func init() {
	logCmd.Flags().StringVar(&logUser, "user", "", "User ID (required)")
	logCmd.Flags().StringVar(&logCategory, "category", string(domain.CatAutre), "Party category")
	logCmd.Flags().StringVar(&logLocation, "location", "", "Where the party happened")
	logCmd.Flags().StringArrayVar(&logDrinks, "drink", nil, "Drink line as type:brand:quantity (repeatable)")
	logCmd.Flags().StringVar(&logDate, "date", "", "Party date as YYYY-MM-DD (default today)")
	logCmd.Flags().IntVar(&logVomi, "vomi", 0, "Vomiting count")
	logCmd.Flags().IntVar(&logFights, "fights", 0, "Fight count")
	logCmd.Flags().IntVar(&logRecal, "recal", 0, "Rejection count")
	logCmd.Flags().IntVar(&logContacts, "contacts", 0, "People talked to")
	logCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(logCmd)
}

var (
	logUser     string
	logCategory string
	logLocation string
	logDrinks   []string
	logDate     string
	logVomi     int
	logFights   int
	logRecal    int
	logContacts int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a party and collect its rewards",
	Example: `  drinkwise log --user alice --category Bar --location "Le Zinc" \
    --drink "Bière:Chouffe:3" --drink "Shot::2"`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	party := domain.PartyRecord{
		UserID:     logUser,
		Category:   domain.PartyCategory(logCategory),
		Location:   logLocation,
		Vomiting:   logVomi,
		Fights:     logFights,
		Rejections: logRecal,
		Contacts:   logContacts,
	}
	if logDate != "" {
		date, err := time.Parse("2006-01-02", logDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", logDate, err)
		}
		party.Date = date
	}
	for _, spec := range logDrinks {
		drink, err := parseDrink(spec)
		if err != nil {
			return err
		}
		party.Drinks = append(party.Drinks, drink)
	}

	rewards, err := d.Engagement.CompleteParty(party)
	if err != nil {
		return err
	}

	fmt.Printf("Party logged. +%d XP\n", rewards.XPGained)
	for _, id := range rewards.NewBadges {
		if def, err := d.Engagement.Badges().Lookup(id); err == nil {
			fmt.Printf("  Badge: %s (%s)\n", def.Name, def.Tier)
		}
	}
	for _, id := range rewards.NewChallenges {
		if def, err := d.Engagement.Challenges().Lookup(id); err == nil {
			fmt.Printf("  Défi: %s (+%d XP)\n", def.Title, def.XP)
		}
	}
	if rewards.LeveledUp {
		fmt.Printf("  Level up! %d → %d (%s)\n",
			rewards.OldLevel, rewards.NewLevel, engagement.LevelName(rewards.NewLevel))
	}
	return nil
}

// parseDrink parses "type:brand:quantity". Brand may be empty; a missing
// quantity defaults to 1.
func parseDrink(spec string) (domain.Drink, error) {
	parts := strings.SplitN(spec, ":", 3)
	drink := domain.Drink{Type: domain.DrinkType(parts[0]), Quantity: 1}
	if len(parts) > 1 {
		drink.Brand = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		qty, err := strconv.Atoi(parts[2])
		if err != nil {
			return drink, fmt.Errorf("invalid drink quantity in %q: %w", spec, err)
		}
		drink.Quantity = qty
	}
	return drink, nil
}
