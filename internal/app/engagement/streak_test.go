package engagement

import (
	"testing"
	"time"

	"github.com/drinkwise/drinkwise/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 22, 0, 0, 0, time.UTC)
}

func TestUpdateStreak_FirstParty(t *testing.T) {
	p := &domain.ProgressProfile{UserID: "u1"}
	UpdateStreak(p, day(1))

	if p.CurrentStreak != 1 || p.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", p.CurrentStreak, p.LongestStreak)
	}
	if p.LastStreakDate != "2026-06-01" {
		t.Errorf("LastStreakDate = %q", p.LastStreakDate)
	}
}

func TestUpdateStreak_SameDayNoOp(t *testing.T) {
	p := &domain.ProgressProfile{UserID: "u1"}
	UpdateStreak(p, day(1))
	UpdateStreak(p, day(1).Add(2*time.Hour))

	if p.CurrentStreak != 1 {
		t.Errorf("second party same day should not extend streak, got %d", p.CurrentStreak)
	}
}

func TestUpdateStreak_ConsecutiveDays(t *testing.T) {
	p := &domain.ProgressProfile{UserID: "u1"}
	for d := 1; d <= 4; d++ {
		UpdateStreak(p, day(d))
	}

	if p.CurrentStreak != 4 || p.LongestStreak != 4 {
		t.Errorf("streak = %d/%d, want 4/4", p.CurrentStreak, p.LongestStreak)
	}
}

func TestUpdateStreak_GapResets(t *testing.T) {
	p := &domain.ProgressProfile{UserID: "u1"}
	UpdateStreak(p, day(1))
	UpdateStreak(p, day(2))
	UpdateStreak(p, day(5)) // Two-day gap

	if p.CurrentStreak != 1 {
		t.Errorf("gap should reset streak to 1, got %d", p.CurrentStreak)
	}
	if p.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", p.LongestStreak)
	}
}

func TestUpdateStreak_CorruptStoredDate(t *testing.T) {
	p := &domain.ProgressProfile{UserID: "u1", LastStreakDate: "garbage", CurrentStreak: 7}
	UpdateStreak(p, day(1))

	if p.CurrentStreak != 1 {
		t.Errorf("corrupt date should restart streak, got %d", p.CurrentStreak)
	}
	if p.LastStreakDate != "2026-06-01" {
		t.Errorf("LastStreakDate = %q", p.LastStreakDate)
	}
}
