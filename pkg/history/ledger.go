package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"gametracker/pkg/logger"
	"gametracker/pkg/storage"
)

// DateLayout is the on-disk date format of an observation
const DateLayout = "2006-01-02"

const ledgerVersion = 1

// Observation is one follower count seen on one calendar day
type Observation struct {
	Date       string    `json:"date"`
	Followers  int       `json:"followers"`
	ObservedAt time.Time `json:"observed_at"`
}

// Day parses the observation date
func (o Observation) Day() (time.Time, error) {
	return time.Parse(DateLayout, o.Date)
}

// GameHistory holds the observations of one game in ascending date order
type GameHistory struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

// Ledger is the persisted follower history of every tracked game, keyed by app id
type Ledger struct {
	Games     map[string]*GameHistory `json:"games"`
	UpdatedAt time.Time               `json:"updated_at"`
	Version   int                     `json:"version"`
}

// Store reads and writes the ledger file
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a store backed by the JSON file at path
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Store{path: path, logger: log}
}

// Path returns the ledger file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. A missing file yields an empty ledger.
func (s *Store) Load() (*Ledger, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Ledger{Games: map[string]*GameHistory{}, Version: ledgerVersion}, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var ledger Ledger
	if err := json.NewDecoder(file).Decode(&ledger); err != nil {
		return nil, fmt.Errorf("failed to decode history file: %w", err)
	}
	if ledger.Games == nil {
		ledger.Games = map[string]*GameHistory{}
	}

	s.logger.DebugWithFields("History loaded", map[string]interface{}{
		"path":  s.path,
		"games": len(ledger.Games),
	})
	return &ledger, nil
}

// Save writes the ledger atomically
func (s *Store) Save(ledger *Ledger) error {
	ledger.UpdatedAt = time.Now().UTC()
	ledger.Version = ledgerVersion

	err := storage.WriteAtomic(s.path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(ledger)
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	s.logger.DebugWithFields("History saved", map[string]interface{}{"path": s.path})
	return nil
}

// Record stores today's follower count for a game, replacing any earlier
// observation of the same day, and returns that game's history
func (s *Store) Record(appID int, name string, day time.Time, followers int) (*GameHistory, error) {
	ledger, err := s.Load()
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(appID)
	game, ok := ledger.Games[key]
	if !ok {
		game = &GameHistory{}
		ledger.Games[key] = game
	}
	game.Name = name
	game.upsert(Observation{
		Date:       day.Format(DateLayout),
		Followers:  followers,
		ObservedAt: time.Now().UTC(),
	})

	if err := s.Save(ledger); err != nil {
		return nil, err
	}

	s.logger.InfoWithFields("Follower observation recorded", map[string]interface{}{
		"app_id":       appID,
		"date":         day.Format(DateLayout),
		"followers":    followers,
		"observations": len(game.Observations),
	})
	return game, nil
}

func (g *GameHistory) upsert(obs Observation) {
	for i := range g.Observations {
		if g.Observations[i].Date == obs.Date {
			g.Observations[i] = obs
			return
		}
	}
	g.Observations = append(g.Observations, obs)
	sort.Slice(g.Observations, func(i, j int) bool {
		return g.Observations[i].Date < g.Observations[j].Date
	})
}

// Between returns the observations whose dates fall in [from, to], inclusive
func (g *GameHistory) Between(from, to time.Time) []Observation {
	lo, hi := from.Format(DateLayout), to.Format(DateLayout)

	var out []Observation
	for _, obs := range g.Observations {
		if obs.Date >= lo && obs.Date <= hi {
			out = append(out, obs)
		}
	}
	return out
}
