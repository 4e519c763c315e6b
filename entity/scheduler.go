// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package entity

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/log"
)

// scheduler wraps the quartz scheduler to deliver operations to entities in
// the future. Its lifecycle is tied to the engine lifecycle.
type scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex
	// underlying Scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartzScheduler has started or not
	started *atomic.Bool
	// define the logger
	logger log.Logger
	// define the shutdown timeout
	stopTimeout time.Duration
}

// newScheduler creates an instance of scheduler
func newScheduler(logger log.Logger, stopTimeout time.Duration) *scheduler {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	return &scheduler{
		mu:              sync.Mutex{},
		started:         atomic.NewBool(false),
		quartzScheduler: quartzScheduler,
		logger:          logger,
		stopTimeout:     stopTimeout,
	}
}

// Start starts the scheduler
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting operations scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("operations scheduler started.:)")
}

// Stop stops the scheduler
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.logger.Info("stopping operations scheduler...")
	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	x.logger.Info("operations scheduler stopped...:)")
}

// scheduleTask registers the task with the given trigger and returns a
// cancellation handle.
func (x *scheduler) scheduleTask(task func(ctx context.Context) error, trigger quartz.Trigger) (func(), error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil, serrors.ErrSchedulerNotStarted
	}

	functionJob := job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			err := task(ctx)
			return err == nil, err
		},
	)

	jobKey := quartz.NewJobKey(newJobKey())
	detail := quartz.NewJobDetail(functionJob, jobKey)
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return nil, err
	}

	return func() {
		_ = x.quartzScheduler.DeleteJob(jobKey)
	}, nil
}

// newJobKey creates a new job key
func newJobKey() string {
	return uuid.NewString()
}

// Schedule delivers the operation to the identified entity at the given
// interval, fire-and-forget. The returned cancel function removes the
// scheduled job; stopping the engine removes every job.
func (x *Engine) Schedule(ctx context.Context, every time.Duration, to *Identity, operation Operation) (func(), error) {
	if err := x.checkInvocation(to, operation); err != nil {
		return nil, err
	}
	if every <= 0 {
		return nil, stderrors.Join(serrors.ErrInvalidArgument, stderrors.New("interval must be positive"))
	}

	detached := context.WithoutCancel(ctx)
	return x.scheduler.scheduleTask(func(context.Context) error {
		return x.InvokeAsync(detached, to, operation)
	}, quartz.NewSimpleTrigger(every))
}

// ScheduleOnce delivers the operation to the identified entity once, after
// the given delay, fire-and-forget.
func (x *Engine) ScheduleOnce(ctx context.Context, delay time.Duration, to *Identity, operation Operation) (func(), error) {
	if err := x.checkInvocation(to, operation); err != nil {
		return nil, err
	}
	if delay < 0 {
		return nil, stderrors.Join(serrors.ErrInvalidArgument, stderrors.New("delay must not be negative"))
	}

	detached := context.WithoutCancel(ctx)
	return x.scheduler.scheduleTask(func(context.Context) error {
		return x.InvokeAsync(detached, to, operation)
	}, quartz.NewRunOnceTrigger(delay))
}
