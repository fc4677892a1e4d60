package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/cybertank/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkOxygenCrash     BookmarkType = "oxygen_crash"
	BookmarkFishDeath       BookmarkType = "fish_death"
	BookmarkSurfacingStreak BookmarkType = "surfacing_streak"
	BookmarkPlantGrowth     BookmarkType = "plant_growth"
	BookmarkBalancedTank    BookmarkType = "balanced_tank"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the tank.
type BookmarkDetector struct {
	cfg config.EventsConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// Consecutive-window streaks
	surfacingStreak int
	balancedStreak  int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.EventsConfig) *BookmarkDetector {
	if historySize < 2 {
		historySize = 2
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.previous(); ok {
		// Oxygen crash: mean O2 fell sharply since the previous window
		if b := bd.checkOxygenCrash(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	if stats.FishDeaths > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFishDeath,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Fish died with mean carbon %.1f, oxygen %.1f", stats.FishCarbonMean, stats.FishOxygenMean),
		})
	}

	if b := bd.checkSurfacingStreak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.PlantGrowths > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkPlantGrowth,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Plant grew to %d nodes", stats.PlantNodes),
		})
	}

	if b := bd.checkBalancedTank(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// previous returns the most recently added window.
func (bd *BookmarkDetector) previous() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	i := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[i], true
}

func (bd *BookmarkDetector) checkOxygenCrash(prev, stats WindowStats) *Bookmark {
	if prev.OxygenMean < bd.cfg.OxygenCrashMin || prev.OxygenMean <= 0 {
		return nil
	}
	drop := 1 - stats.OxygenMean/prev.OxygenMean
	if drop <= bd.cfg.OxygenCrashDrop {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkOxygenCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Oxygen fell %.0f%% from %.1f to %.1f", drop*100, prev.OxygenMean, stats.OxygenMean),
	}
}

func (bd *BookmarkDetector) checkSurfacingStreak(stats WindowStats) *Bookmark {
	if stats.Surfacings == 0 {
		bd.surfacingStreak = 0
		return nil
	}
	bd.surfacingStreak++
	if bd.surfacingStreak != bd.cfg.SurfacingWindows { // trigger exactly once per streak
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSurfacingStreak,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Fish surfaced for air in %d consecutive windows", bd.surfacingStreak),
	}
}

func (bd *BookmarkDetector) checkBalancedTank(stats WindowStats) *Bookmark {
	if stats.FishState == "dead" || stats.OxygenMean <= 0 {
		bd.balancedStreak = 0
		return nil
	}
	cv := stats.OxygenStd / stats.OxygenMean
	if cv >= bd.cfg.BalanceCV || stats.Surfacings > 0 {
		bd.balancedStreak = 0
		return nil
	}
	bd.balancedStreak++
	if bd.balancedStreak != bd.cfg.BalanceWindows {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkBalancedTank,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Oxygen steady around %.1f for %d windows", stats.OxygenMean, bd.balancedStreak),
	}
}
