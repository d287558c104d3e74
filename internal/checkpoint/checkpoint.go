// internal/checkpoint/checkpoint.go

// Package checkpoint persists run progress so an interrupted scrape
// resumes where it left off: which sources are fully processed and
// which records were accepted so far. Saves are atomic (temp file then
// rename) so a crash mid-write never corrupts the last good state.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/evscout/evscout/internal/utils"
	"github.com/evscout/evscout/internal/vehicle"
)

// FormatVersion identifies the on-disk checkpoint layout.
const FormatVersion = "1.0"

// fileState is the on-disk JSON shape. Timestamps serialize as
// ISO-8601 strings via time.Time.
type fileState struct {
	CompletedDealerships []string         `json:"completed_dealerships"`
	ScrapedListings      []vehicle.Record `json:"scraped_listings"`
	StartTime            *time.Time       `json:"start_time"`
	LastUpdate           *time.Time       `json:"last_update"`
	Version              string           `json:"version"`
}

// Manager owns the checkpoint file and the in-memory view of run
// progress. It is not safe for concurrent use; the pipeline is
// sequential and one process owns one checkpoint path.
type Manager struct {
	path       string
	logger     utils.Logger
	completed  map[string]bool
	listings   []*vehicle.Record
	startTime  *time.Time
	lastUpdate *time.Time
}

// NewManager creates a checkpoint manager for the given file path.
func NewManager(path string, logger utils.Logger) *Manager {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Manager{
		path:      path,
		logger:    logger,
		completed: make(map[string]bool),
	}
}

// Load reads persisted state from disk. It returns true when a
// checkpoint was restored. Missing or unreadable checkpoints are never
// fatal: the manager falls back to a fresh empty state.
func (m *Manager) Load() bool {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("No checkpoint found, starting fresh")
		} else {
			m.logger.Warnf("Failed to read checkpoint: %v, starting fresh", err)
		}
		m.reset()
		return false
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		m.logger.Warnf("Failed to parse checkpoint: %v, starting fresh", err)
		m.reset()
		return false
	}

	m.completed = make(map[string]bool, len(state.CompletedDealerships))
	for _, name := range state.CompletedDealerships {
		m.completed[name] = true
	}
	m.listings = make([]*vehicle.Record, 0, len(state.ScrapedListings))
	for i := range state.ScrapedListings {
		rec := state.ScrapedListings[i]
		m.listings = append(m.listings, &rec)
	}
	m.startTime = state.StartTime
	m.lastUpdate = state.LastUpdate

	m.logger.Infof("Loaded checkpoint: %d sources completed, %d listings scraped",
		len(m.completed), len(m.listings))
	if m.lastUpdate != nil {
		m.logger.Infof("Last update: %s", m.lastUpdate.Format(time.RFC3339))
	}
	return true
}

// Save writes the given progress to disk atomically and adopts it as
// the manager's in-memory state. Sets the start time on first save and
// refreshes the last-update time on every save.
func (m *Manager) Save(completed map[string]bool, records []*vehicle.Record) error {
	m.completed = make(map[string]bool, len(completed))
	for name := range completed {
		m.completed[name] = true
	}
	m.listings = append([]*vehicle.Record(nil), records...)

	now := time.Now()
	m.lastUpdate = &now
	if m.startTime == nil {
		m.startTime = &now
	}

	names := make([]string, 0, len(m.completed))
	for name := range m.completed {
		names = append(names, name)
	}
	sort.Strings(names)

	listings := make([]vehicle.Record, 0, len(m.listings))
	for _, rec := range m.listings {
		listings = append(listings, *rec)
	}

	state := fileState{
		CompletedDealerships: names,
		ScrapedListings:      listings,
		StartTime:            m.startTime,
		LastUpdate:           m.lastUpdate,
		Version:              FormatVersion,
	}

	data, err := json.MarshalIndent(&state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	// Temp file in the same directory so the rename stays on one
	// filesystem and replaces the old checkpoint in a single step.
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint temp file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}

	m.logger.Debugf("Checkpoint saved: %d sources, %d listings", len(names), len(listings))
	return nil
}

// IsCompleted reports whether a source finished in this run or a
// previous one.
func (m *Manager) IsCompleted(source string) bool {
	return m.completed[source]
}

// MarkCompleted records a source as finished.
func (m *Manager) MarkCompleted(source string) {
	m.completed[source] = true
}

// AddListing appends an accepted record to the in-memory state.
func (m *Manager) AddListing(rec *vehicle.Record) {
	m.listings = append(m.listings, rec)
}

// CompletedSources returns a copy of the completed-source set.
func (m *Manager) CompletedSources() map[string]bool {
	out := make(map[string]bool, len(m.completed))
	for name := range m.completed {
		out[name] = true
	}
	return out
}

// Listings returns a copy of the accepted records.
func (m *Manager) Listings() []*vehicle.Record {
	return append([]*vehicle.Record(nil), m.listings...)
}

// Progress describes checkpoint state for status output.
type Progress struct {
	CompletedSources int        `json:"completed_sources"`
	ScrapedListings  int        `json:"scraped_listings"`
	StartTime        *time.Time `json:"start_time"`
	LastUpdate       *time.Time `json:"last_update"`
}

// GetProgress returns current progress counters.
func (m *Manager) GetProgress() Progress {
	return Progress{
		CompletedSources: len(m.completed),
		ScrapedListings:  len(m.listings),
		StartTime:        m.startTime,
		LastUpdate:       m.lastUpdate,
	}
}

// Clear deletes the checkpoint file and resets in-memory state,
// forcing the next run to start from scratch.
func (m *Manager) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	m.reset()
	m.logger.Info("Checkpoint cleared")
	return nil
}

func (m *Manager) reset() {
	m.completed = make(map[string]bool)
	m.listings = nil
	m.startTime = nil
	m.lastUpdate = nil
}
