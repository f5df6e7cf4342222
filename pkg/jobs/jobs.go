// Package jobs runs long track mutations in the background with progress
// reporting and cooperative cancellation.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"gpstrack/pkg/track"
)

// ErrTrackBusy is returned when a job is started on a track another job is
// still writing to.
var ErrTrackBusy = errors.New("jobs: track is busy")

// Job is a unit of background work on one track.
type Job interface {
	Name() string
	Track() *track.Track
	// Run reports progress as it goes and returns early, without rollback,
	// once ctx is cancelled.
	Run(ctx context.Context, progress track.ProgressFunc) error
}

// BaseJob provides the name and target track of a job.
type BaseJob struct {
	name  string
	track *track.Track
}

func NewBaseJob(name string, t *track.Track) BaseJob {
	return BaseJob{name: name, track: t}
}

func (b *BaseJob) Name() string {
	return b.name
}

func (b *BaseJob) Track() *track.Track {
	return b.track
}

// Runner starts jobs on their own goroutines and keeps at most one job per
// track.
type Runner struct {
	mu   sync.Mutex
	busy map[*track.Track]*Run
	wg   sync.WaitGroup
}

func NewRunner() *Runner {
	return &Runner{busy: make(map[*track.Track]*Run)}
}

// tryLock claims t for run. It returns false if t is already claimed.
func (r *Runner) tryLock(t *track.Track, run *Run) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.busy[t]; ok {
		return false
	}
	r.busy[t] = run
	return true
}

func (r *Runner) unlock(t *track.Track) {
	r.mu.Lock()
	delete(r.busy, t)
	r.mu.Unlock()
}

// Busy reports whether a job is running on t.
func (r *Runner) Busy(t *track.Track) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.busy[t]
	return ok
}

// Start runs j in the background and returns immediately. Cancelling ctx
// cancels the job.
func (r *Runner) Start(ctx context.Context, j Job) (*Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	run := &Run{
		name:   j.Name(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t := j.Track()
	if !r.tryLock(t, run) {
		cancel()
		return nil, ErrTrackBusy
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// The track is released before Done fires.
		defer close(run.done)
		defer r.unlock(t)
		defer cancel()

		start := time.Now()
		slog.Info("Job started", "job", run.name, "track", t.Name)
		run.err = j.Run(ctx, run.report)
		done, total := run.Progress()
		switch {
		case errors.Is(run.err, context.Canceled):
			slog.Info("Job cancelled", "job", run.name, "done", done, "total", total)
		case run.err != nil:
			slog.Error("Job failed", "job", run.name, "error", run.err)
		default:
			slog.Info("Job finished", "job", run.name, "points", total, "duration", time.Since(start))
		}
	}()
	return run, nil
}

// Wait blocks until every started job has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Run is the handle of a started job.
type Run struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	err    error

	processed atomic.Int64
	total     atomic.Int64
}

func (r *Run) report(done, total int) {
	r.total.Store(int64(total))
	r.processed.Store(int64(done))
}

// Name returns the job name.
func (r *Run) Name() string { return r.name }

// Progress returns the number of items processed and the total.
func (r *Run) Progress() (done, total int) {
	return int(r.processed.Load()), int(r.total.Load())
}

// Cancel requests the job to stop after the current item.
func (r *Run) Cancel() { r.cancel() }

// Done is closed when the job has returned.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the job has returned and yields its error.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}
