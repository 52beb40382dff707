package marionette

// Core is the binding to the model-evaluation engine. Only the lifecycle
// surface is needed here; figures come from a ModelFactory.
type Core interface {
	// Version returns major (bits 31-24), minor (23-16) and patch (15-0).
	Version() uint32
	SetLogFunction(fn LogFunc)
	LogFunction() LogFunc
}

// StaticReleaser owns renderer-wide resources (shared shader programs and
// the like) that must be freed when the framework is disposed.
type StaticReleaser interface {
	StaticRelease()
}

// Option configures logging for Framework.Start.
type Option struct {
	LogFunction  LogFunc
	LoggingLevel LogLevel
}

// LifecycleState is the coarse framework state.
type LifecycleState uint8

const (
	StateNotStarted  LifecycleState = iota // nothing configured
	StateStarted                           // options recorded, no resources allocated
	StateInitialized                       // static resources allocated
)

// String implements fmt.Stringer.
func (s LifecycleState) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateStarted:
		return "started"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// Framework brackets all engine usage. It distinguishes "configured" from
// "resources allocated" so that Initialize/Dispose cycles never leak or
// double-free the identifier manager. Pass one Framework to every component
// that needs it; there is no package-level instance.
type Framework struct {
	core        Core
	started     bool
	initialized bool
	option      *Option
	ids         *IDManager
	statics     []StaticReleaser
}

// NewFramework returns a Framework in StateNotStarted bound to core.
// A nil core is accepted; Start reports it loudly.
func NewFramework(core Core) *Framework {
	return &Framework{core: core}
}

// Start records the logging option and queries the core version. Calling it
// again while started is a logged no-op. A nil option logs warnings and
// errors to stderr.
func (f *Framework) Start(opt *Option) bool {
	if f.started {
		f.Logf(LogLevelInfo, "Framework.Start() is already done.")
		return f.started
	}

	if opt == nil {
		opt = &Option{LogFunction: DefaultLogFunction, LoggingLevel: LogLevelWarning}
	}
	f.option = opt

	if f.core == nil {
		f.Logf(LogLevelError, "Framework.Start(): core binding is missing; figures cannot be evaluated.")
	} else {
		f.core.SetLogFunction(opt.LogFunction)
	}

	f.started = true

	if f.core != nil {
		v := f.core.Version()
		major, minor, patch := UnpackVersion(v)
		f.Logf(LogLevelInfo, "Core version: %02d.%02d.%04d (%d)", major, minor, patch, v)
	}

	f.Logf(LogLevelInfo, "Framework.Start() is complete.")
	return f.started
}

// Initialize allocates the static tables. It must follow Start and must not
// be repeated without an intervening Dispose.
func (f *Framework) Initialize() {
	if !f.started {
		f.Logf(LogLevelWarning, "Framework is not started.")
		return
	}
	if f.initialized {
		f.Logf(LogLevelWarning, "Framework.Initialize() skipped, already initialized.")
		return
	}

	f.ids = newIDManager()
	f.initialized = true

	f.Logf(LogLevelInfo, "Framework.Initialize() is complete.")
}

// Dispose releases what Initialize allocated plus every registered renderer
// static. The framework stays started.
func (f *Framework) Dispose() {
	if !f.started {
		f.Logf(LogLevelWarning, "Framework is not started.")
		return
	}
	if !f.initialized {
		f.Logf(LogLevelWarning, "Framework.Dispose() skipped, not initialized.")
		return
	}

	f.ids.Release()
	f.ids = nil

	for _, s := range f.statics {
		s.StaticRelease()
	}

	f.initialized = false

	f.Logf(LogLevelInfo, "Framework.Dispose() is complete.")
}

// CleanUp unconditionally resets the framework to StateNotStarted.
// Registered renderer statics stay registered.
func (f *Framework) CleanUp() {
	f.started = false
	f.initialized = false
	f.option = nil
	f.ids = nil
}

// RegisterStatic adds a renderer-static owner released on Dispose.
// Registering the same owner twice is a no-op.
func (f *Framework) RegisterStatic(s StaticReleaser) {
	for _, r := range f.statics {
		if r == s {
			return
		}
	}
	f.statics = append(f.statics, s)
}

// State returns the current lifecycle state.
func (f *Framework) State() LifecycleState {
	switch {
	case f.initialized:
		return StateInitialized
	case f.started:
		return StateStarted
	default:
		return StateNotStarted
	}
}

// IsStarted reports whether Start has succeeded since the last CleanUp.
func (f *Framework) IsStarted() bool { return f.started }

// IsInitialized reports whether static resources are allocated.
func (f *Framework) IsInitialized() bool { return f.initialized }

// IDs returns the identifier manager, or nil outside StateInitialized.
func (f *Framework) IDs() *IDManager { return f.ids }

// Core returns the bound core.
func (f *Framework) Core() Core { return f.core }

// LoggingLevel returns the configured level, LogLevelOff before Start.
func (f *Framework) LoggingLevel() LogLevel {
	if f.option != nil {
		return f.option.LoggingLevel
	}
	return LogLevelOff
}

// Logf formats and emits a message through the option's log function when
// level passes the configured filter. Before Start, warnings and errors go to
// stderr so sequencing mistakes are never silent.
func (f *Framework) Logf(level LogLevel, format string, args ...any) {
	if level >= LogLevelOff {
		return
	}
	if f.option == nil {
		if level >= LogLevelWarning {
			DefaultLogFunction(formatLog(level, format, args...))
		}
		return
	}
	if level < f.option.LoggingLevel || f.option.LogFunction == nil {
		return
	}
	f.option.LogFunction(formatLog(level, format, args...))
}

// CoreLog forwards a raw message to the core's log function, if any.
func (f *Framework) CoreLog(message string) {
	if f.core == nil {
		return
	}
	if fn := f.core.LogFunction(); fn != nil {
		fn(message)
	}
}

// PackVersion builds a packed core version.
func PackVersion(major, minor uint8, patch uint16) uint32 {
	return uint32(major)<<24 | uint32(minor)<<16 | uint32(patch)
}

// UnpackVersion splits a packed core version.
func UnpackVersion(v uint32) (major, minor, patch uint32) {
	return (v & 0xff000000) >> 24, (v & 0x00ff0000) >> 16, v & 0x0000ffff
}
