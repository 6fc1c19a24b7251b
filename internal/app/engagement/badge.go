package engagement

import (
	"log"

	"github.com/drinkwise/drinkwise/internal/domain"
)

// BadgeEngine evaluates the achievement catalog against cumulative stats.
// It is a pure evaluator: it owns no storage and performs no I/O. The
// definitions are injected at construction and never mutated.
type BadgeEngine struct {
	defs []domain.BadgeDef
}

// NewBadgeEngine creates a badge engine over the given catalog.
func NewBadgeEngine(defs []domain.BadgeDef) *BadgeEngine {
	return &BadgeEngine{defs: defs}
}

// Definitions returns the full catalog (for display).
func (e *BadgeEngine) Definitions() []domain.BadgeDef {
	return e.defs
}

// Lookup returns the definition for a badge ID.
func (e *BadgeEngine) Lookup(id string) (domain.BadgeDef, error) {
	for _, def := range e.defs {
		if def.ID == id {
			return def, nil
		}
	}
	return domain.BadgeDef{}, domain.ErrUnknownBadge
}

// Evaluate scans the whole catalog and returns the IDs of badges that newly
// qualify: criteria met and not in alreadyUnlocked. Calling it again with
// the returned IDs merged into alreadyUnlocked yields nothing, so retries
// and out-of-order re-runs are safe.
//
// latest is the party that triggered the evaluation (nil outside a
// party-completion trigger); criteria never see any other single record.
func (e *BadgeEngine) Evaluate(stats domain.CumulativeStats, latest *domain.PartyRecord, alreadyUnlocked map[string]bool) []string {
	var newly []string
	for _, def := range e.defs {
		if alreadyUnlocked[def.ID] {
			continue
		}
		if e.met(def, stats, latest) {
			newly = append(newly, def.ID)
		}
	}
	return newly
}

// met evaluates one badge, fail-closed: a nil or panicking predicate counts
// as not met so one bad definition cannot block the rest of the catalog.
func (e *BadgeEngine) met(def domain.BadgeDef, stats domain.CumulativeStats, latest *domain.PartyRecord) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engagement] badge %q criteria panicked: %v (treated as not met)", def.ID, r)
			ok = false
		}
	}()
	if def.Criteria == nil {
		return false
	}
	return def.Criteria(stats, latest)
}

// ─── Badge Catalog ──────────────────────────────────────────────────────────

// quizBlackout is the questionnaire title that unlocks blackout_king.
const quizBlackout = "Trou Noir Galactique"

// AllBadges returns the full badge catalog. IDs, criteria and XP bonuses
// are part of the external contract with existing user profiles — they must
// not change meaning between releases.
func AllBadges() []domain.BadgeDef {
	return []domain.BadgeDef{
		{
			ID: "first_party", Name: "Le Baptême du Feu", Tier: domain.TierCommon, XPBonus: XPPerBadge,
			Description: "Enregistrer sa toute première soirée.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalParties >= 1
			},
		},
		{
			ID: "drinks_1", Name: "Buveur Novice", Tier: domain.TierCommon, XPBonus: XPPerBadge,
			Description: "Boire 50 verres au total.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalDrinks >= 50
			},
		},
		{
			ID: "drinks_2", Name: "Pilier de Bar", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Boire 250 verres au total.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalDrinks >= 250
			},
		},
		{
			ID: "drinks_3", Name: "Légende de la Soif", Tier: domain.TierLegendary, XPBonus: XPPerBadge,
			Description: "Boire 1000 verres au total.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalDrinks >= 1000
			},
		},
		{
			ID: "vomi_1", Name: "Premier Regret", Tier: domain.TierCommon, XPBonus: XPPerBadge,
			Description: "Vomir pour la première fois.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalVomi >= 1
			},
		},
		{
			ID: "vomi_2", Name: "Habitué des Toilettes", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Vomir 10 fois au total.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalVomi >= 10
			},
		},
		{
			ID: "fights_1", Name: "Le Bagarreur", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Participer à 5 bagarres.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalFights >= 5
			},
		},
		{
			ID: "iron_stomach", Name: "Estomac d'Acier", Tier: domain.TierEpic, XPBonus: XPPerBadge,
			Description: "Boire 10 verres ou plus en une soirée sans vomir.",
			Criteria: func(_ domain.CumulativeStats, p *domain.PartyRecord) bool {
				return p != nil && p.TotalDrinks() >= 10 && p.Vomiting == 0
			},
		},
		{
			ID: "pacifist", Name: "Le Pacifiste", Tier: domain.TierEpic, XPBonus: XPPerBadge,
			Description: "Participer à 20 soirées sans aucune bagarre.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalParties >= 20 && s.TotalFights == 0
			},
		},
		{
			ID: "legendary_night", Name: "Nuit Légendaire", Tier: domain.TierEpic, XPBonus: XPPerBadge,
			Description: "Boire 15 verres ou plus en une seule soirée.",
			Criteria: func(_ domain.CumulativeStats, p *domain.PartyRecord) bool {
				return p != nil && p.TotalDrinks() >= 15
			},
		},
		{
			ID: "blackout_king", Name: "Roi du Blackout", Tier: domain.TierLegendary, XPBonus: XPPerBadge,
			Description: "Obtenir 'Trou Noir Galactique' au quiz.",
			Criteria: func(_ domain.CumulativeStats, p *domain.PartyRecord) bool {
				return p != nil && p.QuizTitle == quizBlackout
			},
		},
		{
			ID: "social_butterfly", Name: "Papillon Social", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Parler à 50 personnes au total.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalContacts >= 50
			},
		},
		{
			ID: "heartbreaker", Name: "Le Brise-cœur", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Prendre 20 recals au total.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.TotalRecal >= 20
			},
		},
		{
			ID: "festival_goer", Name: "Festivalier", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Participer à 5 festivals.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.CategoryCount(domain.CatFestival) >= 5
			},
		},
		{
			ID: "clubber", Name: "Clubber Invétéré", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Participer à 10 soirées en club.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.CategoryCount(domain.CatClubbing) >= 10
			},
		},
		{
			ID: "sommelier", Name: "Sommelier en Herbe", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Boire 50 verres de vin.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.DrinkCount(domain.DrinkVin) >= 50
			},
		},
		{
			ID: "explorer", Name: "L'Explorateur", Tier: domain.TierRare, XPBonus: XPPerBadge,
			Description: "Enregistrer des soirées dans 5 lieux différents.",
			Criteria: func(s domain.CumulativeStats, _ *domain.PartyRecord) bool {
				return s.UniqueLocations >= 5
			},
		},
	}
}
