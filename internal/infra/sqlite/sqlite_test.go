package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var t0 = time.Date(2026, 6, 10, 21, 0, 0, 0, time.UTC)

func testParty(id string, date time.Time) domain.PartyRecord {
	return domain.PartyRecord{
		ID:       id,
		UserID:   "alice",
		Date:     date,
		Category: domain.CatBar,
		Location: "Le Zinc",
		Drinks: []domain.Drink{
			{Type: domain.DrinkBiere, Brand: "Chouffe", Quantity: 2},
			{Type: domain.DrinkShot, Brand: "", Quantity: 1},
		},
		Vomiting:  1,
		Contacts:  3,
		CreatedAt: date,
	}
}

// ─── Parties ────────────────────────────────────────────────────────────────

func TestPartyRoundTrip(t *testing.T) {
	db := testDB(t)

	want := testParty("p1", t0)
	if err := db.InsertParty(want); err != nil {
		t.Fatalf("InsertParty() error: %v", err)
	}

	got, err := db.GetParty("p1")
	if err != nil {
		t.Fatalf("GetParty() error: %v", err)
	}
	if got.UserID != "alice" || got.Category != domain.CatBar || got.Location != "Le Zinc" {
		t.Errorf("got %+v", got)
	}
	if len(got.Drinks) != 2 || got.Drinks[0].Brand != "Chouffe" || got.Drinks[1].Type != domain.DrinkShot {
		t.Errorf("drinks did not survive the round trip: %v", got.Drinks)
	}
	if got.Vomiting != 1 || got.Contacts != 3 {
		t.Errorf("counters = %d/%d", got.Vomiting, got.Contacts)
	}
	if !got.Date.Equal(t0) {
		t.Errorf("date = %v, want %v", got.Date, t0)
	}
}

func TestGetParty_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetParty("missing"); !errors.Is(err, domain.ErrPartyNotFound) {
		t.Errorf("error = %v, want ErrPartyNotFound", err)
	}
}

func TestListParties_Ordering(t *testing.T) {
	db := testDB(t)

	// Inserted out of order; listing is chronological.
	for _, p := range []domain.PartyRecord{
		testParty("p3", t0.AddDate(0, 0, 2)),
		testParty("p1", t0),
		testParty("p2", t0.AddDate(0, 0, 1)),
	} {
		if err := db.InsertParty(p); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.ListParties("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"p1", "p2", "p3"} {
		if got[i].ID != want {
			t.Errorf("parties[%d] = %s, want %s", i, got[i].ID, want)
		}
	}

	if other, _ := db.ListParties("bob"); len(other) != 0 {
		t.Errorf("bob has %d parties, want 0", len(other))
	}
}

func TestLatestParty(t *testing.T) {
	db := testDB(t)

	if p, err := db.LatestParty("alice"); err != nil || p != nil {
		t.Fatalf("empty log should yield nil, got %v, %v", p, err)
	}

	if err := db.InsertParty(testParty("p1", t0)); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertParty(testParty("p2", t0.AddDate(0, 0, 3))); err != nil {
		t.Fatal(err)
	}

	p, err := db.LatestParty("alice")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "p2" {
		t.Errorf("latest = %s, want p2", p.ID)
	}
}

func TestSetQuizResult(t *testing.T) {
	db := testDB(t)
	if err := db.InsertParty(testParty("p1", t0)); err != nil {
		t.Fatal(err)
	}

	prev, err := db.SetQuizResult("p1", "Trou Noir Galactique", 4)
	if err != nil {
		t.Fatalf("SetQuizResult() error: %v", err)
	}
	if prev != 0 {
		t.Errorf("first attach prev = %d, want 0", prev)
	}
	p, _ := db.GetParty("p1")
	if p.QuizTitle != "Trou Noir Galactique" || p.QuizQuestions != 4 {
		t.Errorf("quiz = %q/%d", p.QuizTitle, p.QuizQuestions)
	}

	// Re-attaching reports the stored count so callers can skip the grant
	if prev, err = db.SetQuizResult("p1", "Trou Noir Galactique", 4); err != nil || prev != 4 {
		t.Errorf("second attach = %d, %v, want prev 4", prev, err)
	}

	if _, err := db.SetQuizResult("missing", "Titre", 1); !errors.Is(err, domain.ErrPartyNotFound) {
		t.Errorf("error = %v, want ErrPartyNotFound", err)
	}
}

func TestDeleteParty(t *testing.T) {
	db := testDB(t)
	if err := db.InsertParty(testParty("p1", t0)); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteParty("p1"); err != nil {
		t.Fatalf("DeleteParty() error: %v", err)
	}
	if _, err := db.GetParty("p1"); !errors.Is(err, domain.ErrPartyNotFound) {
		t.Errorf("party survived deletion: %v", err)
	}
}

// ─── Profiles ───────────────────────────────────────────────────────────────

func TestProfileRoundTrip(t *testing.T) {
	db := testDB(t)

	if _, err := db.GetProfile("alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("error = %v, want ErrProfileNotFound", err)
	}

	want := domain.ProgressProfile{
		UserID:        "alice",
		XP:            510,
		Level:         3,
		TotalParties:  2,
		TotalDrinks:   7,
		CurrentStreak:  1,
		LongestStreak:  4,
		LastStreakDate: "2026-06-10",
	}
	if err := db.SaveProfile(want); err != nil {
		t.Fatalf("SaveProfile() error: %v", err)
	}

	got, err := db.GetProfile("alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.XP != 510 || got.Level != 3 || got.LongestStreak != 4 || got.LastStreakDate != "2026-06-10" {
		t.Errorf("got %+v", got)
	}

	// Upsert overwrites
	want.XP = 600
	if err := db.SaveProfile(want); err != nil {
		t.Fatal(err)
	}
	got, _ = db.GetProfile("alice")
	if got.XP != 600 {
		t.Errorf("XP after upsert = %d, want 600", got.XP)
	}
}

func TestSaveProfile_EmptyUserID(t *testing.T) {
	db := testDB(t)
	if err := db.SaveProfile(domain.ProgressProfile{}); !errors.Is(err, domain.ErrEmptyUserID) {
		t.Errorf("error = %v, want ErrEmptyUserID", err)
	}
}

func TestUnlockBadge_Idempotent(t *testing.T) {
	db := testDB(t)

	fresh, err := db.UnlockBadge("alice", "first_party", t0)
	if err != nil || !fresh {
		t.Fatalf("first unlock = %v, %v, want fresh", fresh, err)
	}
	fresh, err = db.UnlockBadge("alice", "first_party", t0.Add(time.Hour))
	if err != nil || fresh {
		t.Fatalf("second unlock = %v, %v, want not fresh", fresh, err)
	}

	if _, err := db.UnlockBadge("alice", "vomi_1", t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	badges, err := db.ListBadges("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(badges) != 2 || badges[0] != "first_party" || badges[1] != "vomi_1" {
		t.Errorf("badges = %v, want unlock order", badges)
	}
}

func TestCompleteChallenge_NeverRearms(t *testing.T) {
	db := testDB(t)

	fresh, err := db.CompleteChallenge("alice", "weekly_drinks_10", "2026-W24", t0)
	if err != nil || !fresh {
		t.Fatalf("first completion = %v, %v, want fresh", fresh, err)
	}
	// Same challenge in a later window stays completed.
	fresh, err = db.CompleteChallenge("alice", "weekly_drinks_10", "2026-W25", t0.AddDate(0, 0, 7))
	if err != nil || fresh {
		t.Fatalf("re-completion = %v, %v, want not fresh", fresh, err)
	}

	done, err := db.ChallengeCompletions("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 {
		t.Fatalf("completions = %v", done)
	}
	if _, ok := done["weekly_drinks_10"]; !ok {
		t.Error("weekly_drinks_10 missing from completions")
	}
}

func TestGetProfile_JoinsRewards(t *testing.T) {
	db := testDB(t)
	if err := db.SaveProfile(domain.ProgressProfile{UserID: "alice", Level: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.UnlockBadge("alice", "first_party", t0); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CompleteChallenge("alice", "weekly_no_vomi", "2026-W24", t0); err != nil {
		t.Fatal(err)
	}

	p, err := db.GetProfile("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasBadge("first_party") {
		t.Error("profile missing unlocked badge")
	}
	if _, ok := p.CompletedChallenges["weekly_no_vomi"]; !ok {
		t.Error("profile missing completed challenge")
	}
}

func TestPublicStatsRoundTrip(t *testing.T) {
	db := testDB(t)

	if ps, err := db.GetPublicStats("alice"); err != nil || ps != nil {
		t.Fatalf("absent snapshot should yield nil, got %v, %v", ps, err)
	}

	want := domain.PublicStats{
		UserID:              "alice",
		Stats:               domain.CumulativeStats{TotalDrinks: 7, TotalParties: 2},
		XP:                  510,
		Level:               3,
		BadgeCount:          1,
		ChallengesCompleted: 2,
		UpdatedAt:           t0,
	}
	if err := db.UpsertPublicStats(want); err != nil {
		t.Fatalf("UpsertPublicStats() error: %v", err)
	}

	got, err := db.GetPublicStats("alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.Stats.TotalDrinks != 7 || got.BadgeCount != 1 || got.Level != 3 {
		t.Errorf("got %+v", got)
	}
}

// ─── Reward Transaction ─────────────────────────────────────────────────────

func TestRunInTx_CommitsRewardWritesTogether(t *testing.T) {
	db := testDB(t)

	err := db.RunInTx(func(tx *Tx) error {
		if fresh, err := tx.UnlockBadge("alice", "first_party", t0); err != nil || !fresh {
			t.Fatalf("UnlockBadge() = %v, %v", fresh, err)
		}
		if fresh, err := tx.CompleteChallenge("alice", "weekly_no_vomi", "2026-W24", t0); err != nil || !fresh {
			t.Fatalf("CompleteChallenge() = %v, %v", fresh, err)
		}
		if err := tx.SaveProfile(domain.ProgressProfile{UserID: "alice", XP: 250, Level: 2, UpdatedAt: t0}); err != nil {
			t.Fatalf("SaveProfile() error: %v", err)
		}
		return tx.UpsertPublicStats(domain.PublicStats{UserID: "alice", XP: 250, Level: 2, BadgeCount: 1, UpdatedAt: t0})
	})
	if err != nil {
		t.Fatalf("RunInTx() error: %v", err)
	}

	p, err := db.GetProfile("alice")
	if err != nil {
		t.Fatal(err)
	}
	if p.XP != 250 || !p.HasBadge("first_party") {
		t.Errorf("profile = %+v", p)
	}
	if ps, _ := db.GetPublicStats("alice"); ps == nil || ps.BadgeCount != 1 {
		t.Errorf("snapshot = %+v", ps)
	}
}

func TestRunInTx_RollsBackRewardWrites(t *testing.T) {
	db := testDB(t)
	boom := errors.New("boom")

	err := db.RunInTx(func(tx *Tx) error {
		if _, err := tx.UnlockBadge("alice", "first_party", t0); err != nil {
			t.Fatal(err)
		}
		if _, err := tx.CompleteChallenge("alice", "weekly_no_vomi", "2026-W24", t0); err != nil {
			t.Fatal(err)
		}
		if err := tx.SaveProfile(domain.ProgressProfile{UserID: "alice", XP: 510, Level: 3, UpdatedAt: t0}); err != nil {
			t.Fatal(err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx() error = %v, want the callback error", err)
	}

	// None of the writes survive: a badge row must never be durable
	// without the profile XP it granted.
	if badges, _ := db.ListBadges("alice"); len(badges) != 0 {
		t.Errorf("badges = %v after rollback", badges)
	}
	if done, _ := db.ChallengeCompletions("alice"); len(done) != 0 {
		t.Errorf("completions = %v after rollback", done)
	}
	if _, err := db.GetProfile("alice"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("profile survived rollback: %v", err)
	}
}

// ─── Groups ─────────────────────────────────────────────────────────────────

func testGroup(id string) domain.Group {
	return domain.Group{
		ID:        id,
		Name:      "La Bande",
		CreatedBy: "alice",
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestGroupLifecycle(t *testing.T) {
	db := testDB(t)

	if err := db.CreateGroup(testGroup("g1")); err != nil {
		t.Fatalf("CreateGroup() error: %v", err)
	}

	g, err := db.GetGroup("g1")
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsAdmin("alice") || !g.IsMember("alice") {
		t.Errorf("creator should be admin member: %+v", g)
	}

	if err := db.AddMember("g1", "bob", t0.Add(time.Hour)); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}
	if err := db.AddMember("g1", "bob", t0.Add(2*time.Hour)); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("double add error = %v, want ErrAlreadyMember", err)
	}

	g, _ = db.GetGroup("g1")
	if len(g.Members) != 2 || g.IsAdmin("bob") {
		t.Errorf("members = %v admins = %v", g.Members, g.Admins)
	}

	groups, err := db.ListGroupsForUser("bob")
	if err != nil || len(groups) != 1 || groups[0].ID != "g1" {
		t.Errorf("ListGroupsForUser() = %v, %v", groups, err)
	}

	if err := db.RemoveMember("g1", "bob"); err != nil {
		t.Fatalf("RemoveMember() error: %v", err)
	}
	if err := db.RemoveMember("g1", "bob"); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("double remove error = %v, want ErrNotMember", err)
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetGroup("missing"); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Errorf("error = %v, want ErrGroupNotFound", err)
	}
}

func TestUpdateGroupStats(t *testing.T) {
	db := testDB(t)
	if err := db.CreateGroup(testGroup("g1")); err != nil {
		t.Fatal(err)
	}

	stats := domain.GroupStats{TotalDrinks: 12, TotalParties: 3, MemberCount: 2}
	if err := db.UpdateGroupStats("g1", stats, t0.Add(time.Hour)); err != nil {
		t.Fatalf("UpdateGroupStats() error: %v", err)
	}

	g, _ := db.GetGroup("g1")
	if g.Stats != stats {
		t.Errorf("stats = %+v, want %+v", g.Stats, stats)
	}
}

func TestGroupGoals_OneWayCompletion(t *testing.T) {
	db := testDB(t)
	if err := db.CreateGroup(testGroup("g1")); err != nil {
		t.Fatal(err)
	}

	goal := domain.GroupGoal{ID: "goal1", Type: domain.GoalTotalDrinks, Target: 100, CreatedAt: t0}
	if err := db.AddGoal("g1", goal); err != nil {
		t.Fatalf("AddGoal() error: %v", err)
	}

	if err := db.CompleteGoal("goal1", t0.Add(time.Hour)); err != nil {
		t.Fatalf("CompleteGoal() error: %v", err)
	}
	// Completing an already-completed goal is rejected, not re-timestamped.
	if err := db.CompleteGoal("goal1", t0.Add(2*time.Hour)); !errors.Is(err, domain.ErrGoalNotFound) {
		t.Errorf("re-complete error = %v, want ErrGoalNotFound", err)
	}
	if err := db.CompleteGoal("missing", t0); !errors.Is(err, domain.ErrGoalNotFound) {
		t.Errorf("missing goal error = %v, want ErrGoalNotFound", err)
	}

	g, _ := db.GetGroup("g1")
	if len(g.Goals) != 1 || !g.Goals[0].IsCompleted {
		t.Errorf("goals = %+v", g.Goals)
	}
	if g.Goals[0].CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}

	if err := db.DeleteGoal("goal1"); err != nil {
		t.Fatalf("DeleteGoal() error: %v", err)
	}
	g, _ = db.GetGroup("g1")
	if len(g.Goals) != 0 {
		t.Errorf("goals after delete = %+v", g.Goals)
	}
}

// ─── Notifications ──────────────────────────────────────────────────────────

func TestNotificationQueue(t *testing.T) {
	db := testDB(t)

	for i, title := range []string{"Badge débloqué !", "Niveau 3 !"} {
		n := domain.Notification{
			UserID:    "alice",
			Type:      domain.NotifyBadgeUnlocked,
			Title:     title,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		}
		if err := db.InsertNotification(n); err != nil {
			t.Fatalf("InsertNotification() error: %v", err)
		}
	}

	pending, err := db.PendingNotifications("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].Title != "Badge débloqué !" {
		t.Errorf("pending = %+v, want oldest first", pending)
	}

	n, err := db.MarkNotificationsShown("alice")
	if err != nil || n != 2 {
		t.Fatalf("MarkNotificationsShown() = %d, %v", n, err)
	}
	if pending, _ = db.PendingNotifications("alice"); len(pending) != 0 {
		t.Errorf("still pending after mark: %v", pending)
	}
	if n, _ := db.MarkNotificationsShown("alice"); n != 0 {
		t.Errorf("second mark = %d, want 0", n)
	}
}
