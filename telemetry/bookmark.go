package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/neatracer/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewChampion     BookmarkType = "new_champion"
	BookmarkStagnationBroken BookmarkType = "stagnation_broken"
	BookmarkSpeciesSpike    BookmarkType = "species_spike"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Generation  int
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments across generations: a new
// fitness champion, a stagnation streak broken, or a sudden jump in
// species count.
type BookmarkDetector struct {
	bestFitness       float64
	haveBest          bool
	stagnantGens      int
	lastSpeciesCount  int
}

// NewBookmarkDetector creates a detector with no history.
func NewBookmarkDetector() *BookmarkDetector {
	return &BookmarkDetector{}
}

// Check analyzes the latest generation stats and returns any triggered
// bookmarks, updating the detector's rolling state.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark
	cfg := config.Cfg().Telemetry

	// The stagnation check runs first: it compares against the best
	// fitness from earlier generations, which checkNewChampion updates.
	if b := bd.checkStagnationBroken(stats, cfg); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkNewChampion(stats, cfg); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSpeciesSpike(stats, cfg); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.lastSpeciesCount = stats.SpeciesCount
	return bookmarks
}

func (bd *BookmarkDetector) checkNewChampion(stats GenerationStats, cfg config.TelemetryConfig) *Bookmark {
	defer func() {
		if !bd.haveBest || stats.BestFitness > bd.bestFitness {
			bd.bestFitness = stats.BestFitness
			bd.haveBest = true
		}
	}()

	if !bd.haveBest || bd.bestFitness <= 0 {
		return nil
	}
	if stats.BestFitness > bd.bestFitness*cfg.ChampionMultiplier {
		return &Bookmark{
			Type:       BookmarkNewChampion,
			Generation: stats.Generation,
			Description: fmt.Sprintf("best fitness %.3f beats prior champion %.3f by %.1fx",
				stats.BestFitness, bd.bestFitness, stats.BestFitness/bd.bestFitness),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStagnationBroken(stats GenerationStats, cfg config.TelemetryConfig) *Bookmark {
	if stats.BestFitness > bd.bestFitness {
		streak := bd.stagnantGens
		bd.stagnantGens = 0
		if streak >= cfg.StagnationBookmarkGens {
			return &Bookmark{
				Type:       BookmarkStagnationBroken,
				Generation: stats.Generation,
				Description: fmt.Sprintf("fitness improved after %d stagnant generations", streak),
			}
		}
		return nil
	}
	bd.stagnantGens++
	return nil
}

func (bd *BookmarkDetector) checkSpeciesSpike(stats GenerationStats, cfg config.TelemetryConfig) *Bookmark {
	if bd.lastSpeciesCount == 0 {
		return nil
	}
	if float64(stats.SpeciesCount) > float64(bd.lastSpeciesCount)*cfg.SpeciesSpikeMultiplier {
		return &Bookmark{
			Type:       BookmarkSpeciesSpike,
			Generation: stats.Generation,
			Description: fmt.Sprintf("species count jumped from %d to %d", bd.lastSpeciesCount, stats.SpeciesCount),
		}
	}
	return nil
}
