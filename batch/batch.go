// Package batch fans decode work for many images out across a bounded
// worker pool, one independently constructed Engine per image so no
// Engine is ever shared across goroutines.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/etekin/blade"
)

// Result is one image's outcome: its index in the input slice, the
// barcodes located (and, for each, decoded if any registered symbology
// matched), and the first hard error encountered constructing or
// running the engine for that image, if any. A Failed or CannotDecode
// decode outcome for an individual candidate is not an error here — it
// is already reflected by that Barcode's empty Estimate.
type Result struct {
	Index    int
	Barcodes []blade.Barcode
	Err      error
}

// DecodeAll runs locate-then-decode-every-candidate on each image,
// using a fresh Engine from newEngine per image, bounded by workers
// concurrent goroutines. Context cancellation stops scheduling new
// work but does not interrupt an in-flight locate/decode call, since
// neither supports cancellation.
func DecodeAll(ctx context.Context, newEngine func(image *blade.Image) (*blade.Engine, error), images []*blade.Image, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]Result, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Index: i, Err: gctx.Err()}
				return nil
			default:
			}

			e, err := newEngine(img)
			if err != nil {
				results[i] = Result{Index: i, Err: fmt.Errorf("batch: image %d: %w", i, err)}
				return nil
			}

			barcodes := e.Locate()
			for j := range barcodes {
				e.Decode(&barcodes[j])
			}
			results[i] = Result{Index: i, Barcodes: barcodes}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
