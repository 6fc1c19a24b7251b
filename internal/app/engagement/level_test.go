package engagement

import (
	"testing"
)

// ─── Level Curve ────────────────────────────────────────────────────────────

func TestLevelForXP_Thresholds(t *testing.T) {
	tests := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
		{-50, 1}, // Clamped
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{1, 0},
		{2, 100},
		{3, 300},
		{4, 600},
		{5, 1000},
		{10, 4500},
	}
	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestLevelCurve_Inverse(t *testing.T) {
	// At exactly the threshold for level L, LevelForXP reports L;
	// one XP below it reports L-1.
	for level := 2; level <= 200; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Fatalf("LevelForXP(XPForLevel(%d)=%d) = %d", level, threshold, got)
		}
		if got := LevelForXP(threshold - 1); got != level-1 {
			t.Fatalf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
		}
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := int64(0); xp <= 50000; xp += 7 {
		cur := LevelForXP(xp)
		if cur < prev {
			t.Fatalf("level decreased: LevelForXP(%d) = %d after %d", xp, cur, prev)
		}
		prev = cur
	}
}

// ─── Level-Up Detection ─────────────────────────────────────────────────────

func TestDetectLevelUp(t *testing.T) {
	tests := []struct {
		name         string
		oldXP, newXP int64
		leveled      bool
		gained       int
	}{
		{"no change", 50, 80, false, 0},
		{"single level", 50, 150, true, 1},
		{"multi-level jump", 0, 600, true, 3},
		{"exact threshold", 99, 100, true, 1},
		{"negative clamped", -10, 50, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lu := DetectLevelUp(tt.oldXP, tt.newXP)
			if lu.LeveledUp != tt.leveled {
				t.Errorf("LeveledUp = %v, want %v", lu.LeveledUp, tt.leveled)
			}
			if lu.LevelsGained != tt.gained {
				t.Errorf("LevelsGained = %d, want %d", lu.LevelsGained, tt.gained)
			}
			if lu.NewLevel != LevelForXP(tt.newXP) {
				t.Errorf("NewLevel = %d, want %d", lu.NewLevel, LevelForXP(tt.newXP))
			}
		})
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPToNextLevel(0); got != 100 {
		t.Errorf("XPToNextLevel(0) = %d, want 100", got)
	}
	if got := XPToNextLevel(250); got != 50 {
		t.Errorf("XPToNextLevel(250) = %d, want 50", got)
	}
}

func TestProgressPct_Bounds(t *testing.T) {
	for xp := int64(0); xp <= 5000; xp += 31 {
		pct := ProgressPct(xp)
		if pct < 0 || pct > 100 {
			t.Fatalf("ProgressPct(%d) = %f, out of [0,100]", xp, pct)
		}
	}
}

// ─── Level Names ────────────────────────────────────────────────────────────

func TestLevelName(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Novice"},
		{5, "Expert"},
		{10, "Dieu de la Fête"},
		{11, "Dieu de la Fête Niveau 11"},
		{25, "Dieu de la Fête Niveau 25"},
		{26, "Titan Niveau 26"},
		{50, "Titan Niveau 50"},
		{51, "Déité Niveau 51"},
	}
	for _, tt := range tests {
		if got := LevelName(tt.level); got != tt.want {
			t.Errorf("LevelName(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
