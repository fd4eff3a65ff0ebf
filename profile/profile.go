package profile

// Stopper ends a profiling session started by [Profiler.Start].
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Path is the directory profile data is written to.
	Path string
	// Quiet suppresses the profiler's own start/stop messages.
	Quiet bool
}

// Start begins profiling according to p.
//
// Start and the returned Stopper are always safe to call, even when the
// binary was built without profiling support or p.Mode is unknown.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Supported reports whether mode names a profiling mode of this build.
func Supported(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
