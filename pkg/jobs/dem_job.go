package jobs

import (
	"context"
	"sync/atomic"

	"gpstrack/pkg/terrain"
	"gpstrack/pkg/track"
)

// DEMJob applies elevation data to a whole track.
type DEMJob struct {
	BaseJob
	src     terrain.Source
	opts    track.DEMOptions
	changed atomic.Int64
}

func NewDEMJob(t *track.Track, src terrain.Source, opts track.DEMOptions) *DEMJob {
	name := "DEM"
	if opts.OnlyMissing {
		name = "DEM (missing only)"
	}
	return &DEMJob{
		BaseJob: NewBaseJob(name, t),
		src:     src,
		opts:    opts,
	}
}

func (j *DEMJob) Run(ctx context.Context, progress track.ProgressFunc) error {
	n, err := j.track.ApplyDEM(ctx, j.src, j.opts, progress)
	j.changed.Store(int64(n))
	return err
}

// Changed returns the number of altitudes written by the last run.
func (j *DEMJob) Changed() int {
	return int(j.changed.Load())
}
