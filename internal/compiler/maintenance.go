package compiler

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/username/imecore/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Maintain runs Compile for every job concurrently, bounded by the
// machine's CPU count, the deployment/maintenance phase spec §5 describes
// as "an explicit synchronous call by the host... not interleaved with
// normal session work". The first failing job's error is returned once
// every job has finished; results are keyed by schema id so a caller can
// tell which schemas succeeded even when one failed.
func Maintain(ctx context.Context, jobs []Job) (map[string]*Artifacts, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	results := make(map[string]*Artifacts, len(jobs))

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			log := logging.For("compiler")
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			art, err := Compile(job)
			if err != nil {
				log.Error().Str("schema", job.SchemaID).Err(err).Msg("schema compilation failed")
				return fmt.Errorf("compiler: schema %q: %w", job.SchemaID, err)
			}
			log.Info().Str("schema", job.SchemaID).Msg("schema compiled")
			mu.Lock()
			results[job.SchemaID] = art
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
