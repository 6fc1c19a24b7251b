// Package domain holds the DrinkWise core types.
// Party records are the raw event log; everything else (stats, XP, badges,
// challenges, group aggregates) is derived from them.
package domain

import (
	"strings"
	"time"
)

// ─── Drink Types ────────────────────────────────────────────────────────────

// DrinkType is one of the fixed drink categories from the logging form.
// The values are the exact catalog strings stored with each party record.
type DrinkType string

const (
	DrinkBiere      DrinkType = "Bière"
	DrinkVin        DrinkType = "Vin"
	DrinkCocktail   DrinkType = "Cocktail"
	DrinkSpiritueux DrinkType = "Spiritueux"
	DrinkShot       DrinkType = "Shot"
	DrinkChampagne  DrinkType = "Champagne"
	DrinkAutre      DrinkType = "Autre"
)

// Drink is one line of a party's drink list.
type Drink struct {
	Type     DrinkType `json:"type"`
	Brand    string    `json:"brand,omitempty"`
	Quantity int       `json:"quantity"`
}

// ─── Party Categories ───────────────────────────────────────────────────────

// PartyCategory classifies the kind of outing.
type PartyCategory string

const (
	CatAnniversaire PartyCategory = "Anniversaire"
	CatEntreAmis    PartyCategory = "Soirée entre amis"
	CatConcert      PartyCategory = "Concert"
	CatClubbing     PartyCategory = "Clubbing"
	CatBar          PartyCategory = "Bar"
	CatMaison       PartyCategory = "Maison"
	CatFestival     PartyCategory = "Festival"
	CatMariage      PartyCategory = "Mariage"
	CatSport        PartyCategory = "Événement sportif"
	CatNouvelAn     PartyCategory = "Nouvel An"
	CatAutre        PartyCategory = "Autre"
)

// AllCategories lists every valid party category, in form order.
func AllCategories() []PartyCategory {
	return []PartyCategory{
		CatAnniversaire, CatEntreAmis, CatConcert, CatClubbing, CatBar,
		CatMaison, CatFestival, CatMariage, CatSport, CatNouvelAn, CatAutre,
	}
}

// privateVenues holds the categories where drinks are self-served.
// Everything else (including unknown categories) counts as a public venue,
// which changes the per-unit volume table.
var privateVenues = map[PartyCategory]bool{
	CatMaison:       true,
	CatAnniversaire: true,
	CatEntreAmis:    true,
	CatMariage:      true,
	CatNouvelAn:     true,
	CatAutre:        true,
}

// IsPrivateVenue reports whether the category is a private-venue context.
func (c PartyCategory) IsPrivateVenue() bool {
	return privateVenues[c]
}

// ─── Party Record ───────────────────────────────────────────────────────────

// PartyRecord is one logged outing. Records are immutable once created;
// aggregation never mutates them. Counters left unset by older clients are
// simply zero, and a nil Drinks slice means no drinks were logged.
type PartyRecord struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	Date     time.Time     `json:"date"`
	Category PartyCategory `json:"category"`
	Location string        `json:"location,omitempty"`
	Drinks   []Drink       `json:"drinks"`

	Vomiting   int `json:"vomi"`
	Fights     int `json:"fights"`
	Rejections int `json:"recal"`
	Contacts   int `json:"girls_talked_to"`

	// Post-party questionnaire, attached after the fact.
	QuizTitle     string `json:"party_title,omitempty"`
	QuizQuestions int    `json:"quiz_questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TotalDrinks sums the quantities of every drink line.
func (p PartyRecord) TotalDrinks() int {
	total := 0
	for _, d := range p.Drinks {
		if d.Quantity > 0 {
			total += d.Quantity
		}
	}
	return total
}

// IsClean reports whether the party had zero vomiting and zero fights.
func (p PartyRecord) IsClean() bool {
	return p.Vomiting == 0 && p.Fights == 0
}

// LocationKey normalizes the location for unique-location counting.
// Returns "" when no usable location was logged.
func (p PartyRecord) LocationKey() string {
	return strings.ToLower(strings.TrimSpace(p.Location))
}
