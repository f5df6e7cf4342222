package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"gpstrack/pkg/geo"
	"gpstrack/pkg/measure"
	"gpstrack/pkg/terrain"
	"gpstrack/pkg/track"
)

func line(n int) *track.Track {
	t := track.New("job")
	pos := geo.Point{Lat: 46, Lon: 7}
	for i := 0; i < n; i++ {
		_ = t.Append(track.NewTrackpoint(pos))
		pos = geo.DestinationPoint(pos, 100, 0)
	}
	return t
}

// blockingJob runs until released or cancelled.
type blockingJob struct {
	BaseJob
	started chan struct{}
	release chan struct{}
}

func newBlockingJob(t *track.Track) *blockingJob {
	return &blockingJob{
		BaseJob: NewBaseJob("block", t),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (j *blockingJob) Run(ctx context.Context, progress track.ProgressFunc) error {
	progress(1, 2)
	close(j.started)
	select {
	case <-j.release:
		progress(2, 2)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestBaseJob_Name(t *testing.T) {
	tr := line(1)
	tests := []struct {
		name     string
		jobName  string
		wantName string
	}{
		{"Simple name", "TestJob", "TestJob"},
		{"Empty name", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBaseJob(tt.jobName, tr)
			if got := b.Name(); got != tt.wantName {
				t.Errorf("Name() = %q, want %q", got, tt.wantName)
			}
			if b.Track() != tr {
				t.Error("Track() returned a different track")
			}
		})
	}
}

func TestRunner_SingleWriterPerTrack(t *testing.T) {
	r := NewRunner()
	tr := line(3)
	j := newBlockingJob(tr)

	run, err := r.Start(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}
	<-j.started
	if !r.Busy(tr) {
		t.Error("track should be busy")
	}
	if done, total := run.Progress(); done != 1 || total != 2 {
		t.Errorf("Progress = %d/%d", done, total)
	}

	if _, err := r.Start(context.Background(), newBlockingJob(tr)); !errors.Is(err, ErrTrackBusy) {
		t.Errorf("second job error = %v, want ErrTrackBusy", err)
	}

	other := newBlockingJob(line(2))
	otherRun, err := r.Start(context.Background(), other)
	if err != nil {
		t.Fatalf("job on another track refused: %v", err)
	}
	close(other.release)

	close(j.release)
	if err := run.Wait(); err != nil {
		t.Errorf("Wait = %v", err)
	}
	if err := otherRun.Wait(); err != nil {
		t.Errorf("Wait = %v", err)
	}
	if r.Busy(tr) {
		t.Error("track still busy after the job returned")
	}
	if done, _ := run.Progress(); done != 2 {
		t.Errorf("final progress = %d", done)
	}

	again := newBlockingJob(tr)
	close(again.release)
	run, err = r.Start(context.Background(), again)
	if err != nil {
		t.Fatalf("restart refused: %v", err)
	}
	r.Wait()
	select {
	case <-run.Done():
	default:
		t.Error("Runner.Wait returned before the job")
	}
}

func TestRunner_Cancel(t *testing.T) {
	r := NewRunner()
	j := newBlockingJob(line(2))
	run, err := r.Start(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}
	<-j.started
	run.Cancel()

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not stop after Cancel")
	}
	if err := run.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait = %v, want context.Canceled", err)
	}
}

type stepSource struct {
	calls   int
	blockAt int
	blocked chan struct{}
}

func (s *stepSource) Altitude(ctx context.Context, p geo.Point, interp terrain.Interpolation) (measure.Altitude, error) {
	s.calls++
	if s.calls == s.blockAt {
		close(s.blocked)
		<-ctx.Done()
		return measure.Altitude{}, ctx.Err()
	}
	return measure.NewAltitude(float64(s.calls), measure.AltitudeMeters), nil
}

func TestDEMJob_Completes(t *testing.T) {
	r := NewRunner()
	tr := line(5)
	j := NewDEMJob(tr, &stepSource{}, track.DEMOptions{})

	run, err := r.Start(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}
	if err := run.Wait(); err != nil {
		t.Fatal(err)
	}
	if j.Changed() != 5 {
		t.Errorf("Changed = %d, want 5", j.Changed())
	}
	if done, total := run.Progress(); done != 5 || total != 5 {
		t.Errorf("Progress = %d/%d", done, total)
	}
	if tr.Last().Altitude.Value() != 5 {
		t.Errorf("last altitude = %v", tr.Last().Altitude)
	}
}

func TestDEMJob_CancelKeepsPartialWork(t *testing.T) {
	r := NewRunner()
	tr := line(6)
	src := &stepSource{blockAt: 3, blocked: make(chan struct{})}
	j := NewDEMJob(tr, src, track.DEMOptions{Interpolation: terrain.InterpolationBest})

	run, err := r.Start(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}
	<-src.blocked
	run.Cancel()

	if err := run.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait = %v, want context.Canceled", err)
	}
	if j.Changed() != 2 {
		t.Errorf("Changed = %d, want 2", j.Changed())
	}
	if !tr.At(1).HasAltitude() || tr.At(3).HasAltitude() {
		t.Error("partial mutation not left in place")
	}
	if done, _ := run.Progress(); done != 3 {
		t.Errorf("Progress = %d, want 3", done)
	}
}

func TestNewDEMJob_Name(t *testing.T) {
	if got := NewDEMJob(line(1), nil, track.DEMOptions{OnlyMissing: true}).Name(); got != "DEM (missing only)" {
		t.Errorf("Name = %q", got)
	}
}
