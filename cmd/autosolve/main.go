package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/xLinkOut/minesweeper/internal/solver"
	"github.com/xLinkOut/minesweeper/internal/sweep"
)

var (
	log = logrus.New()

	difficulty string
	rows       int
	cols       int
	mineCount  int
	games      int
	baseSeed   uint64
	parallel   int
	debug      bool
	logFile    string
)

func init() {
	flag.StringVar(&difficulty, "difficulty", "", "preset difficulty: beginner, intermediate or expert")
	flag.IntVar(&rows, "rows", 0, "custom board rows")
	flag.IntVar(&cols, "cols", 0, "custom board columns")
	flag.IntVar(&mineCount, "mines", 0, "custom mine count")
	flag.IntVar(&games, "n", 1, "number of games to play")
	flag.Uint64Var(&baseSeed, "seed", 0, "base seed for reproducible runs (0 picks a random one)")
	flag.IntVar(&parallel, "parallel", runtime.GOMAXPROCS(0), "number of games played concurrently")
	flag.BoolVar(&debug, "debug", false, "log every solver move")
	flag.StringVar(&logFile, "log-file", "", "append JSON logs to a rotated file")
}

func setupLogging() {
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Level:      log.GetLevel(),
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to set up log file: ", err)
		}
		log.AddHook(hook)
	}

	// The board and solver packages log through slog.
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))
}

func boardParams() (sweep.Params, error) {
	custom := rows != 0 || cols != 0 || mineCount != 0
	switch {
	case difficulty != "" && custom:
		return sweep.Params{}, fmt.Errorf("-difficulty cannot be combined with -rows/-cols/-mines")
	case difficulty != "":
		return sweep.PresetParams(difficulty)
	case custom:
		p := sweep.Params{Rows: rows, Cols: cols, MineCount: mineCount}
		return p, p.Validate()
	default:
		return sweep.Beginner, nil
	}
}

// playGame builds board number i from the base seed and plays it to the end.
// The derived seeds make every game of a run independently reproducible.
func playGame(params sweep.Params, base uint64, i int) (bool, error) {
	board, err := sweep.NewBoard(params, sweep.Seed{Hi: base, Lo: uint64(i)})
	if err != nil {
		return false, err
	}
	rnd := rand.New(rand.NewPCG(base^0x9e3779b97f4a7c15, uint64(i)))

	won := solver.New(board, rnd, slog.Default()).Solve()

	log.WithFields(logrus.Fields{
		"game":    i,
		"outcome": board.Status().String(),
	}).Debug("game finished")
	return won, nil
}

func run(ctx context.Context) error {
	params, err := boardParams()
	if err != nil {
		return err
	}
	if games < 1 {
		return fmt.Errorf("-n must be positive, got %d", games)
	}
	if parallel < 1 {
		return fmt.Errorf("-parallel must be positive, got %d", parallel)
	}

	base := baseSeed
	if base == 0 {
		base = sweep.RandomSeed().Lo
	}
	log.WithFields(logrus.Fields{
		"rows":     params.Rows,
		"cols":     params.Cols,
		"mines":    params.MineCount,
		"games":    games,
		"seed":     base,
		"parallel": parallel,
	}).Info("starting batch")

	var wins atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			won, err := playGame(params, base, i)
			if err != nil {
				return err
			}
			if won {
				wins.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	won := wins.Load()
	log.WithFields(logrus.Fields{
		"games":    games,
		"won":      won,
		"lost":     int64(games) - won,
		"win_rate": fmt.Sprintf("%.1f%%", 100*float64(won)/float64(games)),
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("batch finished")
	return nil
}

func main() {
	flag.Parse()
	setupLogging()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}
