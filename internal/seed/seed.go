// Package seed generates deterministic fixture event files so a fresh
// checkout can exercise the full prediction pipeline.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crewcast/pkg/logger"
)

// Generation range constants.
const (
	minEventAmount   = 50.0
	amountRange      = 450.0
	minEventMinutes  = 30.0
	minutesRange     = 420.0
	minBurnMinutes   = 15.0
	burnMinutesRange = 225.0
	historyDays      = 90

	maxTagsPerEvent = 4
	untaggedOdds    = 12 // one in N money events has no tags

	outputFilePermission = 0o600
	outputDirPermission  = 0o750
)

// Config controls fixture generation.
type Config struct {
	Seed        int64
	People      int
	Projects    int
	MoneyEvents int
	BurnEvents  int
	OutDir      string
}

// moneyRow mirrors the money event file schema.
type moneyRow struct {
	EventID   string   `json:"event_id"`
	Date      string   `json:"date"`
	Amount    float64  `json:"amount"`
	Minutes   float64  `json:"minutes"`
	Tags      []string `json:"tags"`
	ProjectID string   `json:"project_id"`
}

// burnRow mirrors the burn event file schema.
type burnRow struct {
	EventID  string  `json:"event_id"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Minutes  float64 `json:"minutes"`
	PersonID string  `json:"person_id"`
}

// Generator produces fixture event files from a fixed seed. The same
// seed yields the same amounts, minutes, tags, and dates; only the
// event IDs differ between runs.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	logger logger.Logger
}

// NewGenerator creates a new fixture generator.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger.Get().Named("seed"),
	}
}

// Generate writes money_events.json and burn_events.json under the
// configured output directory and returns their paths.
func (g *Generator) Generate(ctx context.Context) (moneyPath, burnPath string, err error) {
	people := makeIDs("person", g.cfg.People)
	projects := makeIDs("project", g.cfg.Projects)
	now := time.Now().UTC()

	money := make([]moneyRow, 0, g.cfg.MoneyEvents)
	for i := 0; i < g.cfg.MoneyEvents; i++ {
		money = append(money, g.moneyEvent(people, projects, now))
	}
	burns := make([]burnRow, 0, g.cfg.BurnEvents)
	for i := 0; i < g.cfg.BurnEvents; i++ {
		burns = append(burns, g.burnEvent(people, now))
	}

	if err := os.MkdirAll(g.cfg.OutDir, outputDirPermission); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}
	moneyPath = filepath.Join(g.cfg.OutDir, "money_events.json")
	burnPath = filepath.Join(g.cfg.OutDir, "burn_events.json")
	if err := writeJSONFile(moneyPath, money); err != nil {
		return "", "", err
	}
	if err := writeJSONFile(burnPath, burns); err != nil {
		return "", "", err
	}

	g.logger.Info(ctx, "fixtures generated",
		logger.String("moneyPath", moneyPath),
		logger.String("burnPath", burnPath),
		logger.Int("moneyEvents", len(money)),
		logger.Int("burnEvents", len(burns)),
	)
	return moneyPath, burnPath, nil
}

func (g *Generator) moneyEvent(people, projects []string, now time.Time) moneyRow {
	row := moneyRow{
		EventID:   uuid.NewString(),
		Date:      g.eventDate(now),
		Amount:    minEventAmount + g.rng.Float64()*amountRange,
		Minutes:   minEventMinutes + g.rng.Float64()*minutesRange,
		ProjectID: projects[g.rng.Intn(len(projects))],
	}
	if g.rng.Intn(untaggedOdds) == 0 {
		return row
	}
	tagCount := 1 + g.rng.Intn(maxTagsPerEvent)
	row.Tags = pickDistinct(g.rng, people, tagCount)
	return row
}

func (g *Generator) burnEvent(people []string, now time.Time) burnRow {
	row := burnRow{
		EventID:  uuid.NewString(),
		Date:     g.eventDate(now),
		Minutes:  minBurnMinutes + g.rng.Float64()*burnMinutesRange,
		PersonID: people[g.rng.Intn(len(people))],
	}
	// Half the burn rows carry amounts directly; the rest only minutes,
	// so the KPI pass exercises rate synthesis too.
	if g.rng.Intn(2) == 0 {
		row.Amount = row.Minutes * (0.5 + g.rng.Float64())
	}
	return row
}

func (g *Generator) eventDate(now time.Time) string {
	back := time.Duration(g.rng.Intn(historyDays*24)) * time.Hour
	return now.Add(-back).Format(time.RFC3339)
}

func makeIDs(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%02d", prefix, i+1)
	}
	return out
}

// pickDistinct samples n distinct entries from pool in a stable order.
func pickDistinct(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	perm := rng.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, idx := range perm {
		out = append(out, pool[idx])
	}
	return out
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixtures: %w", err)
	}
	if err := os.WriteFile(path, data, outputFilePermission); err != nil {
		return fmt.Errorf("write fixtures: %w", err)
	}
	return nil
}
