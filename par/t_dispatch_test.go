// Copyright 2024 The mpm-2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package par

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cpmech/gosl/chk"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_partition01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("partition01")

	blocks := Partition(10, 3)
	chk.Int(tst, "nblocks", len(blocks), 3)
	chk.Ints(tst, "lo", []int{blocks[0].Lo, blocks[1].Lo, blocks[2].Lo}, []int{0, 4, 7})
	chk.Ints(tst, "hi", []int{blocks[0].Hi, blocks[1].Hi, blocks[2].Hi}, []int{4, 7, 10})

	chk.Int(tst, "more workers than items", len(Partition(2, 8)), 2)
	chk.Int(tst, "no items", len(Partition(0, 4)), 0)
	chk.Int(tst, "no workers", len(Partition(5, 0)), 1)
}

func Test_dispatch01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dispatch01. every item once; global once after barrier")

	n := 1001
	for _, nw := range []int{1, 2, 7, 64} {
		visits := make([]int32, n)
		var done, globals int32
		d := Dispatcher{Nworkers: nw}
		err := d.Run(context.Background(), n, func(ctx context.Context, b Block) error {
			for i := b.Lo; i < b.Hi; i++ {
				atomic.AddInt32(&visits[i], 1)
			}
			atomic.AddInt32(&done, int32(b.Hi-b.Lo))
			return nil
		}, func(ctx context.Context) error {
			if atomic.LoadInt32(&done) != int32(n) {
				tst.Errorf("global stage started before the barrier\n")
			}
			atomic.AddInt32(&globals, 1)
			return nil
		})
		if err != nil {
			tst.Errorf("%v\n", err)
			return
		}
		for i, v := range visits {
			if v != 1 {
				tst.Errorf("nw=%d: item %d visited %d times\n", nw, i, v)
				return
			}
		}
		chk.Int(tst, "globals", int(globals), 1)
	}
}

func Test_dispatch02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dispatch02. errors")

	fail := errors.New("fail")
	var globals int32
	d := Dispatcher{Nworkers: 4}
	err := d.Run(context.Background(), 100, func(ctx context.Context, b Block) error {
		if b.Worker == 2 {
			return fail
		}
		return nil
	}, func(ctx context.Context) error {
		atomic.AddInt32(&globals, 1)
		return nil
	})
	if !errors.Is(err, fail) {
		tst.Errorf("local error must be returned. err=%v\n", err)
	}
	chk.Int(tst, "globals", int(globals), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = d.Run(ctx, 100, func(ctx context.Context, b Block) error { return nil }, func(ctx context.Context) error {
		atomic.AddInt32(&globals, 1)
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		tst.Errorf("cancelled context must stop the global stage. err=%v\n", err)
	}
	chk.Int(tst, "globals", int(globals), 0)
}
