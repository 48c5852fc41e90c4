package bundle

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// ReadResult is the outcome of reading one matched file. Exactly one of
// Data or Err is meaningful.
type ReadResult struct {
	Path string
	Data []byte
	Err  error
}

// ReadAll reads every path concurrently, at most workers at a time, and
// returns results in the order of paths. A failed read does not stop the
// others; each failure is reported in its own result.
func ReadAll(ctx context.Context, paths []string, workers int) []ReadResult {
	results := make([]ReadResult, len(paths))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, p := range paths {
		g.Go(func() error {
			results[i] = readFile(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func readFile(ctx context.Context, path string) ReadResult {
	if err := ctx.Err(); err != nil {
		return ReadResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ReadResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return ReadResult{Path: path, Data: data}
}
