// Command seed-events writes deterministic fixture event files for local
// runs of the prediction service.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/okian/crewcast/internal/seed"
	"github.com/okian/crewcast/pkg/logger"
)

// Default generation parameters.
const (
	defaultSeed        = 42
	defaultPeople      = 16
	defaultProjects    = 5
	defaultMoneyEvents = 400
	defaultBurnEvents  = 150
)

func main() {
	var (
		seedValue   = flag.Int64("seed", defaultSeed, "Random seed for deterministic output")
		people      = flag.Int("people", defaultPeople, "Number of distinct people")
		projects    = flag.Int("projects", defaultProjects, "Number of distinct projects")
		moneyEvents = flag.Int("money", defaultMoneyEvents, "Number of money events")
		burnEvents  = flag.Int("burn", defaultBurnEvents, "Number of burn events")
		outDir      = flag.String("out", "data", "Output directory for fixture files")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()
	gen := seed.NewGenerator(seed.Config{
		Seed:        *seedValue,
		People:      *people,
		Projects:    *projects,
		MoneyEvents: *moneyEvents,
		BurnEvents:  *burnEvents,
		OutDir:      *outDir,
	})
	if _, _, err := gen.Generate(ctx); err != nil {
		logger.Get().Error(ctx, "fixture generation failed", logger.Error(err))
		os.Exit(1)
	}
}
