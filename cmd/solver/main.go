package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"trash-route-solver/internal/adapters/cache"
	"trash-route-solver/internal/adapters/oracle"
	"trash-route-solver/internal/adapters/problemfile"
	"trash-route-solver/internal/adapters/repositories"
	"trash-route-solver/internal/config"
	"trash-route-solver/internal/domain"
	"trash-route-solver/internal/platform/db"
	"trash-route-solver/internal/platform/obs"
	"trash-route-solver/internal/ports"
	"trash-route-solver/internal/services"
)

// main is the CLI composition root. It loads a problem instance from text
// files, builds the travel-time oracle chain, runs greedy construction and
// writes the solution stream next to the input files.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dataBase := flag.String("data", "", "base path of the instance files (required)")
	outPath := flag.String("out", "", "solution output path (default <data>.sol.txt)")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *dataBase == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *outPath == "" {
		*outPath = *dataBase + ".sol.txt"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, *dataBase, *outPath); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config, dataBase, outPath string) error {
	ctx := context.WithValue(context.Background(), obs.RunIDKey, uuid.NewString())

	problem, matrixEntries, err := problemfile.LoadProblem(dataBase)
	if err != nil {
		return err
	}
	if len(problem.Vehicles) == 0 {
		return fmt.Errorf("no usable vehicles in %q", dataBase)
	}

	cacheDB, err := db.OpenSqlite(cfg.CacheDBPath)
	if err != nil {
		return err
	}
	defer cacheDB.Close()

	if err := repositories.InitSchema(cacheDB); err != nil {
		return err
	}

	travelOracle, err := buildOracle(cfg, problem, matrixEntries, cacheDB)
	if err != nil {
		return err
	}

	sol, err := services.Construct(ctx, problem, travelOracle)

	var incomplete *services.IncompleteError
	if errors.As(err, &incomplete) {
		for _, id := range incomplete.Unassigned {
			log.Printf("pickup %d left unassigned", id)
		}
	} else if err != nil {
		return err
	}

	sol.Weights = cfg.DomainWeights()
	log.Printf("solved dataset=%s cost=%.1f feasible=%t vehicles=%d pickups=%d",
		dataBase, sol.Cost(), sol.Feasible(), sol.FleetSize(), sol.CountPickups())

	if err := writeSolutionFile(sol, outPath); err != nil {
		return err
	}
	log.Printf("solution written to %s", outPath)

	return persistRun(ctx, cfg, dataBase, sol, cacheDB)
}

// buildOracle assembles matrix -> OSRM fallback -> memo. The matrix is
// seeded from the persistent pair cache, then the instance file rows
// overlay it and are written back so later runs start warm. The OSRM leg
// is only attached when a base URL is configured.
func buildOracle(cfg config.Config, problem *domain.Problem, entries []oracle.MatrixEntry, cacheDB *sql.DB) (ports.TravelTimeOracle, error) {
	travelCache := cache.NewSqliteTravelTimeCache(cacheDB)

	matrix := oracle.NewMatrix(nil)
	cached, err := seedMatrixFromCache(travelCache, problem, matrix)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		matrix.Set(e.FromID, e.ToID, e.Seconds)
	}
	if err := persistMatrixEntries(travelCache, entries); err != nil {
		return nil, err
	}
	log.Printf("travel matrix ready pairs=%d cached=%d", matrix.Len(), cached)

	var chain ports.TravelTimeOracle = matrix
	if cfg.OSRMBaseURL != "" {
		locate := func(id int64) (domain.Point, bool) {
			stop, ok := problem.FindStop(id)
			if !ok {
				return domain.Point{}, false
			}
			return stop.Location, true
		}
		osrm, err := oracle.NewOSRM(cfg.OSRMBaseURL, cfg.OSRMProfile, locate, travelCache)
		if err != nil {
			return nil, err
		}
		chain = oracle.NewFallback(chain, osrm)
	}

	return oracle.NewMemo(chain), nil
}

// seedMatrixFromCache loads every cached pair among the problem's stops
// into the matrix and returns how many it found.
func seedMatrixFromCache(travelCache *cache.SqliteTravelTimeCache, problem *domain.Problem, matrix *oracle.Matrix) (int, error) {
	ids := make([]int64, 0, len(problem.Pickups)+len(problem.OtherLocs))
	for _, s := range problem.Pickups {
		ids = append(ids, s.ID)
	}
	for _, s := range problem.OtherLocs {
		ids = append(ids, s.ID)
	}

	total := 0
	for _, from := range ids {
		pairs, err := travelCache.GetMany(from, ids)
		if err != nil {
			return 0, fmt.Errorf("seed matrix from cache: %w", err)
		}
		for to, seconds := range pairs {
			matrix.Set(from, to, seconds)
		}
		total += len(pairs)
	}
	return total, nil
}

// persistMatrixEntries writes the loaded matrix rows through to the
// persistent pair cache, one transaction per origin.
func persistMatrixEntries(travelCache *cache.SqliteTravelTimeCache, entries []oracle.MatrixEntry) error {
	byFrom := make(map[int64]map[int64]float64)
	for _, e := range entries {
		pairs, ok := byFrom[e.FromID]
		if !ok {
			pairs = make(map[int64]float64)
			byFrom[e.FromID] = pairs
		}
		pairs[e.ToID] = e.Seconds
	}
	for from, pairs := range byFrom {
		if err := travelCache.PutMany(from, pairs); err != nil {
			return fmt.Errorf("persist matrix entries: %w", err)
		}
	}
	return nil
}

func writeSolutionFile(sol *domain.Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := sol.WriteSolution(f); err != nil {
		f.Close()
		return fmt.Errorf("write solution to %q: %w", path, err)
	}
	return f.Close()
}

// persistRun records the run in the local SQLite history and, when a
// DATABASE_URL is configured, in Postgres as well.
func persistRun(ctx context.Context, cfg config.Config, dataset string, sol *domain.Solution, cacheDB *sql.DB) error {
	runID, err := repositories.NewSqliteRunRepository(cacheDB).SaveRun(ctx, dataset, sol)
	if err != nil {
		return err
	}
	log.Printf("run saved run_id=%s", runID)

	if cfg.DatabaseURL == "" {
		return nil
	}

	pg, err := db.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := repositories.InitPgSchema(ctx, pg); err != nil {
		return err
	}
	pgRunID, err := repositories.NewPgRunRepository(pg).SaveRun(ctx, dataset, sol)
	if err != nil {
		return err
	}
	log.Printf("run mirrored to postgres run_id=%s", pgRunID)
	return nil
}
