// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package start

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/sync/errgroup"
)

type StartFunc func(ctx context.Context) error

var ErrStopTimeout = errors.New("start: run did not stop in time")

// stopSignals end a run started by Start.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Start calls run and waits for it to return. On an interrupt or SIGTERM
// the context given to run is cancelled and run has stopTimeout to return.
// A run that does not return in time is abandoned with ErrStopTimeout.
func Start(ctx context.Context, stopTimeout time.Duration, run StartFunc) error {
	notify := make(chan os.Signal, 3)
	signal.Notify(notify, stopSignals...)
	defer signal.Stop(notify)
	ctx, cancel := context.WithCancel(ctx)
	once := &sync.Once{}
	fin := make(chan bool)
	unlock := func() {
		close(fin)
	}
	unlockOnce := func() {
		once.Do(unlock)
	}
	runErr := atomic.Value{}
	go func() {
		err := run(ctx)
		if err != nil {
			runErr.Store(err)
		}
		unlockOnce()
	}()
	stopped := false
	select {
	case sig := <-notify:
		logger.Info("received", sig, "stopping, waiting up to", stopTimeout)
		stopped = true
	case <-fin:
	}
	cancel()
	timedOut := false
	go func() {
		<-time.After(stopTimeout)
		once.Do(func() {
			timedOut = true
			close(fin)
		})
	}()
	<-fin
	if err, ok := runErr.Load().(error); ok {
		return err
	}
	if stopped && timedOut {
		logger.Error("run did not stop within", stopTimeout)
		return ErrStopTimeout
	}
	return nil
}

// RunAll runs every run concurrently. The first error cancels the
// context of the others and is returned once all have returned.
func RunAll(ctx context.Context, runs ...func(ctx context.Context) error) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, run := range runs {
		run := run
		group.Go(func() error { return run(ctx) })
	}

	return group.Wait()
}
