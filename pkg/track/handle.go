package track

// Handle is a validated reference to a trackpoint. Any structural edit of
// the track invalidates every handle taken before it.
type Handle struct {
	track *Track
	point *Trackpoint
	gen   uint64
}

// Handle returns a handle to p.
func (t *Track) Handle(p *Trackpoint) (Handle, error) {
	if !t.Contains(p) {
		return Handle{}, ErrNotMember
	}
	return Handle{track: t, point: p, gen: t.gen}, nil
}

// Resolve returns the referenced point if the handle is still valid.
func (h Handle) Resolve() (*Trackpoint, error) {
	if h.track == nil || h.point == nil {
		return nil, ErrStaleHandle
	}
	if h.gen != h.track.gen || h.point.owner != h.track {
		return nil, ErrStaleHandle
	}
	return h.point, nil
}

func (h Handle) Valid() bool {
	_, err := h.Resolve()
	return err == nil
}

func (h Handle) Track() *Track { return h.track }
