package engagement

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/drinkwise/drinkwise/internal/domain"
	"github.com/drinkwise/drinkwise/internal/infra/metrics"
	"github.com/drinkwise/drinkwise/internal/infra/sqlite"
)

// Service orchestrates the reward pipeline: it owns persistence around the
// pure engines (aggregation, XP, badges, challenges, streaks).
type Service struct {
	db         *sqlite.DB
	badges     *BadgeEngine
	challenges *ChallengeEngine
	notifs     *NotificationService

	now func() time.Time
}

// NewService creates the engagement service with the built-in catalogs.
func NewService(db *sqlite.DB) *Service {
	return &Service{
		db:         db,
		badges:     NewBadgeEngine(AllBadges()),
		challenges: NewChallengeEngine(AllChallenges()),
		notifs:     NewNotificationService(db),
		now:        time.Now,
	}
}

// Badges returns the badge engine (for display handlers).
func (s *Service) Badges() *BadgeEngine { return s.badges }

// Challenges returns the challenge engine (for display handlers).
func (s *Service) Challenges() *ChallengeEngine { return s.challenges }

// Notifications returns the notification service.
func (s *Service) Notifications() *NotificationService { return s.notifs }

// ─── Party Completion ───────────────────────────────────────────────────────

// CompleteParty is the composite reward operation: it persists the party,
// recomputes stats, grants base XP, advances the daily streak, unlocks
// badges, completes challenges, detects level-ups, refreshes the public
// snapshot and queues notifications. Every grant goes through an append-only
// idempotent store write, so re-running after a partial failure never
// double-awards.
func (s *Service) CompleteParty(party domain.PartyRecord) (*domain.RewardSummary, error) {
	if party.UserID == "" {
		return nil, domain.ErrEmptyUserID
	}
	now := s.now().UTC()
	if party.ID == "" {
		party.ID = uuid.NewString()
	}
	if party.Date.IsZero() {
		party.Date = now
	}
	if party.CreatedAt.IsZero() {
		party.CreatedAt = now
	}

	if err := s.db.InsertParty(party); err != nil {
		return nil, fmt.Errorf("insert party: %w", err)
	}
	metrics.PartiesLogged.WithLabelValues(string(party.Category)).Inc()
	for _, d := range party.Drinks {
		if d.Quantity > 0 {
			metrics.DrinksLogged.WithLabelValues(string(d.Type)).Add(float64(d.Quantity))
		}
	}

	return s.applyRewards(party.UserID, &party, now)
}

// AttachQuiz records a post-party questionnaire result and runs the reward
// pipeline again: quiz questions grant XP, and quiz-gated badges can unlock.
func (s *Service) AttachQuiz(partyID, title string, questions int) (*domain.RewardSummary, error) {
	prevQuestions, err := s.db.SetQuizResult(partyID, title, questions)
	if err != nil {
		return nil, err
	}
	party, err := s.db.GetParty(partyID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	// Quiz XP is granted here rather than through the stats delta so a
	// re-attached quiz does not re-grant party and drink XP. The stored
	// question count is the idempotency key: only the first attachment
	// (prior count zero) grants.
	profile, err := s.loadOrCreateProfile(party.UserID)
	if err != nil {
		return nil, err
	}
	oldXP := profile.XP

	var gained int64
	if prevQuestions == 0 {
		gained = int64(questions) * XPPerQuizQuestion
	}
	if gained > 0 {
		metrics.XPGranted.WithLabelValues("quiz").Add(float64(gained))
	}

	sum, err := s.grantAndSave(profile, party, oldXP, gained, now)
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// applyRewards runs the shared reward tail for a freshly logged party.
func (s *Service) applyRewards(userID string, latest *domain.PartyRecord, now time.Time) (*domain.RewardSummary, error) {
	profile, err := s.loadOrCreateProfile(userID)
	if err != nil {
		return nil, err
	}
	oldXP := profile.XP

	gained := XPPerParty + int64(latest.TotalDrinks())*XPPerDrink
	metrics.XPGranted.WithLabelValues("party").Add(float64(XPPerParty))
	if d := int64(latest.TotalDrinks()); d > 0 {
		metrics.XPGranted.WithLabelValues("drinks").Add(float64(d * XPPerDrink))
	}

	UpdateStreak(profile, latest.Date)

	return s.grantAndSave(profile, latest, oldXP, gained, now)
}

// grantAndSave evaluates badges and challenges, applies XP, persists the
// profile and publishes the public snapshot. All reward rows commit in one
// transaction: a badge or challenge row is never durable without the XP it
// granted, so a crash mid-grant followed by a retry can never under-award.
func (s *Service) grantAndSave(profile *domain.ProgressProfile, latest *domain.PartyRecord, oldXP, baseGain int64, now time.Time) (*domain.RewardSummary, error) {
	parties, err := s.db.ListParties(profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	stats := Aggregate(parties)
	weekly := WindowStats(parties, domain.PeriodWeekly, now)
	monthly := WindowStats(parties, domain.PeriodMonthly, now)
	gained := baseGain

	var newBadges, newChallenges []string
	var levelUp domain.LevelUp
	err = s.db.RunInTx(func(tx *sqlite.Tx) error {
		// Badges
		for _, id := range s.badges.Evaluate(stats, latest, profile.BadgeSet()) {
			fresh, err := tx.UnlockBadge(profile.UserID, id, now)
			if err != nil {
				return fmt.Errorf("unlock badge %s: %w", id, err)
			}
			if !fresh {
				continue
			}
			newBadges = append(newBadges, id)
			profile.UnlockedBadges = append(profile.UnlockedBadges, id)
			def, _ := s.badges.Lookup(id)
			gained += def.XPBonus
		}

		// Challenges, evaluated over the current calendar windows
		for _, id := range s.challenges.Evaluate(weekly, monthly, profile.ChallengeSet()) {
			def, _ := s.challenges.Lookup(id)
			fresh, err := tx.CompleteChallenge(profile.UserID, id, WindowFor(def.Period, now), now)
			if err != nil {
				return fmt.Errorf("complete challenge %s: %w", id, err)
			}
			if !fresh {
				continue
			}
			newChallenges = append(newChallenges, id)
			if profile.CompletedChallenges == nil {
				profile.CompletedChallenges = make(map[string]time.Time)
			}
			profile.CompletedChallenges[id] = now
			gained += def.XP
		}

		// XP and level
		profile.XP = oldXP + gained
		levelUp = DetectLevelUp(oldXP, profile.XP)
		profile.Level = levelUp.NewLevel
		profile.TotalParties = stats.TotalParties
		profile.TotalDrinks = stats.TotalDrinks
		profile.UpdatedAt = now
		if err := tx.SaveProfile(*profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		if err := tx.UpsertPublicStats(publicSnapshot(*profile, stats, now)); err != nil {
			return fmt.Errorf("publish public stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Grant metrics count only committed rewards.
	for _, id := range newBadges {
		def, _ := s.badges.Lookup(id)
		metrics.BadgesUnlocked.WithLabelValues(string(def.Tier)).Inc()
		metrics.XPGranted.WithLabelValues("badge").Add(float64(def.XPBonus))
	}
	for _, id := range newChallenges {
		def, _ := s.challenges.Lookup(id)
		metrics.ChallengesCompleted.WithLabelValues(string(def.Period)).Inc()
		metrics.XPGranted.WithLabelValues("challenge").Add(float64(def.XP))
	}
	if levelUp.LeveledUp {
		metrics.LevelUps.Inc()
	}

	sum := &domain.RewardSummary{
		XPGained:      gained,
		NewBadges:     newBadges,
		NewChallenges: newChallenges,
		LevelUp:       levelUp,
	}
	// Notifications are best-effort: the rewards are already durable.
	if err := s.notifs.RecordRewards(profile.UserID, *sum, s.badges, s.challenges); err != nil {
		log.Printf("[engagement] notify %s: %v", profile.UserID, err)
	}
	return sum, nil
}

func (s *Service) loadOrCreateProfile(userID string) (*domain.ProgressProfile, error) {
	profile, err := s.db.GetProfile(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return &domain.ProgressProfile{UserID: userID, Level: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func publicSnapshot(p domain.ProgressProfile, stats domain.CumulativeStats, now time.Time) domain.PublicStats {
	return domain.PublicStats{
		UserID:              p.UserID,
		Username:            p.Username,
		Stats:               stats,
		XP:                  p.XP,
		Level:               p.Level,
		BadgeCount:          len(p.UnlockedBadges),
		ChallengesCompleted: len(p.CompletedChallenges),
		UpdatedAt:           now,
	}
}

// ─── Read Side ──────────────────────────────────────────────────────────────

// Profile returns a user's progression state.
func (s *Service) Profile(userID string) (*domain.ProgressProfile, error) {
	return s.db.GetProfile(userID)
}

// Stats recomputes a user's lifetime stats from the party log.
func (s *Service) Stats(userID string) (domain.CumulativeStats, error) {
	parties, err := s.db.ListParties(userID)
	if err != nil {
		return domain.CumulativeStats{}, err
	}
	return Aggregate(parties), nil
}

// PeriodStats recomputes a user's stats over the current calendar window.
func (s *Service) PeriodStats(userID string, period domain.ChallengePeriod) (domain.CumulativeStats, error) {
	parties, err := s.db.ListParties(userID)
	if err != nil {
		return domain.CumulativeStats{}, err
	}
	return WindowStats(parties, period, s.now().UTC()), nil
}

// Parties returns a user's full party log, oldest first.
func (s *Service) Parties(userID string) ([]domain.PartyRecord, error) {
	return s.db.ListParties(userID)
}

// BadgeStatus pairs a badge definition with its unlocked state.
type BadgeStatus struct {
	domain.BadgeDef
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlocked_at,omitempty"`
}

// BadgeOverview returns the whole catalog with per-user unlocked flags.
func (s *Service) BadgeOverview(userID string) ([]BadgeStatus, error) {
	unlocked, err := s.db.ListBadges(userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		set[id] = true
	}

	defs := s.badges.Definitions()
	out := make([]BadgeStatus, 0, len(defs))
	for _, def := range defs {
		out = append(out, BadgeStatus{BadgeDef: def, Unlocked: set[def.ID]})
	}
	return out, nil
}

// ChallengeStatus pairs a challenge definition with its completion state
// and current-window progress.
type ChallengeStatus struct {
	domain.ChallengeDef
	Completed bool                     `json:"completed"`
	Progress  domain.ChallengeProgress `json:"progress"`
}

// ChallengeOverview returns the whole catalog with per-user completion and
// progress in the current windows.
func (s *Service) ChallengeOverview(userID string) ([]ChallengeStatus, error) {
	parties, err := s.db.ListParties(userID)
	if err != nil {
		return nil, err
	}
	done, err := s.db.ChallengeCompletions(userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	weekly := WindowStats(parties, domain.PeriodWeekly, now)
	monthly := WindowStats(parties, domain.PeriodMonthly, now)

	defs := s.challenges.Definitions()
	out := make([]ChallengeStatus, 0, len(defs))
	for _, def := range defs {
		stats := weekly
		if def.Period == domain.PeriodMonthly {
			stats = monthly
		}
		_, completed := done[def.ID]
		out = append(out, ChallengeStatus{
			ChallengeDef: def,
			Completed:    completed,
			Progress:     s.challenges.Progress(def, stats, completed),
		})
	}
	return out, nil
}
