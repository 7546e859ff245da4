// Command syncd-bench drives a synthetic fsync-coordinator workload:
// a pool of writer goroutines register sync/unlink requests for a
// fixed set of relations while a single owner goroutine runs
// checkpoint passes on a timer, printing Stats after each pass.
//
// Grounded on cmd/ublk-mem/main.go's flag parsing, logger wiring, and
// SIGINT/SIGTERM shutdown handling.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/handlers"
	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/logging"
	"github.com/ehrlich-b/go-syncd/internal/obsv"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		dataDir       = flag.String("data-dir", "./syncd-bench-data", "root directory for synthetic relation files")
		numRelations  = flag.Int("relations", 16, "number of synthetic relations to cycle fsyncs over")
		writers       = flag.Int("writers", 4, "number of concurrent writer goroutines registering requests")
		checkpointDur = flag.Duration("checkpoint-interval", 2*time.Second, "time between checkpoint passes")
		verbose       = flag.Bool("v", false, "verbose output")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	if err := seedRelations(*dataDir, *numRelations); err != nil {
		log.Fatalf("seeding synthetic relations: %v", err)
	}

	observer := obsv.NewPrometheusObserver(prometheus.NewRegistry(), "syncd_bench")

	cfg := syncd.DefaultConfig()
	cfg.DataDir = *dataDir
	cfg.Logger = logger
	cfg.Observer = observer
	cfg.DataSyncErrorLevel = syncd.LevelWarn

	c := syncd.New(cfg)
	c.RegisterHandler(filetag.HandlerMD, handlers.MD{DataDir: *dataDir})
	c.RegisterHandler(filetag.HandlerCLOG, handlers.CLOG{DataDir: *dataDir})
	c.RegisterHandler(filetag.HandlerCommitTS, handlers.CommitTS{DataDir: *dataDir})
	c.RegisterHandler(filetag.HandlerMultixactOffset, handlers.MultixactOffset{DataDir: *dataDir})
	c.RegisterHandler(filetag.HandlerMultixactMember, handlers.MultixactMember{DataDir: *dataDir})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < *writers; i++ {
		wg.Add(1)
		go runWriter(ctx, &wg, c, *numRelations)
	}

	logger.Info("syncd-bench running", "data_dir", *dataDir, "relations", *numRelations, "writers", *writers)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*checkpointDur)
	defer ticker.Stop()

	pass := 0
	for {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
			wg.Wait()
			return
		case <-ticker.C:
			pass++
			c.PreCheckpoint()
			stats, err := c.ProcessRequests(ctx)
			if err != nil {
				logger.Warn("checkpoint pass completed with errors", "pass", pass, "error", err)
			}
			c.PostCheckpoint()
			fmt.Printf("pass %d: processed=%d longest=%s total=%s\n",
				pass, stats.Processed, stats.Longest, stats.TotalElapsed)
		}
	}
}

// runWriter simulates a backend writer goroutine: it periodically asks
// the coordinator to remember a fsync (and occasionally an unlink) for
// a randomly chosen relation, via the channel-based RegisterRequest
// path rather than mutating coordinator state directly.
func runWriter(ctx context.Context, wg *sync.WaitGroup, c *syncd.Coordinator, numRelations int) {
	defer wg.Done()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rel := uint32(r.Intn(numRelations)) + 1
			tag := filetag.MD(0, 1, rel, filetag.MainFork, 0)
			c.RegisterRequest(ctx, syncd.RequestKindSync, tag, true)

			if r.Intn(50) == 0 {
				c.RegisterRequest(ctx, syncd.RequestKindUnlink, tag, true)
			}
		}
	}
}

// seedRelations creates numRelations empty relation segment files
// under dataDir/base/1/ so the MD handler's Sync calls have a real fd
// to fsync instead of immediately hitting CodeTransientFileGone.
func seedRelations(dataDir string, numRelations int) error {
	dbDir := filepath.Join(dataDir, "base", "1")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return err
	}
	for i := 1; i <= numRelations; i++ {
		path := filepath.Join(dbDir, fmt.Sprintf("%d_main", i))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		f.Close()
	}
	return nil
}
