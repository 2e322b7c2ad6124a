// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package par implements the data-parallel partitioning of material points
package par

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Block is a contiguous range [Lo, Hi) of material points owned by a worker
type Block struct {
	Worker int
	Lo, Hi int
}

// Partition splits n items into at most nworkers contiguous blocks. The
// first n % nworkers blocks get one extra item.
func Partition(n, nworkers int) (blocks []Block) {
	if nworkers < 1 {
		nworkers = 1
	}
	if nworkers > n {
		nworkers = n
	}
	if n <= 0 {
		return nil
	}
	size, rem := n/nworkers, n%nworkers
	lo := 0
	for w := 0; w < nworkers; w++ {
		hi := lo + size
		if w < rem {
			hi++
		}
		blocks = append(blocks, Block{Worker: w, Lo: lo, Hi: hi})
		lo = hi
	}
	return
}

// LocalFunc processes the material points of one block
type LocalFunc func(ctx context.Context, b Block) error

// GlobalFunc runs once after every block is finished
type GlobalFunc func(ctx context.Context) error

// Dispatcher runs the local stage of an update over disjoint blocks and the
// global stage on worker 0 after all blocks are done
type Dispatcher struct {
	Nworkers int // number of workers; <= 0 means GOMAXPROCS
}

// Run runs local over all blocks and then global once. global may be nil.
func (o *Dispatcher) Run(ctx context.Context, n int, local LocalFunc, global GlobalFunc) error {
	nw := o.Nworkers
	if nw <= 0 {
		nw = runtime.GOMAXPROCS(0)
	}
	blocks := Partition(n, nw)
	if len(blocks) == 1 {
		if err := local(ctx, blocks[0]); err != nil {
			return err
		}
	} else if len(blocks) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for _, b := range blocks {
			b := b
			g.Go(func() error {
				return local(gctx, b)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	if global == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return global(ctx)
}
