// Package marionette is a host layer for animated 2D figures on top of
// [Ebitengine].
//
// It owns the lifecycle of an opaque figure engine ([Core]), maps pointer
// input from device pixels into the figures' view space through a clamped
// pan/zoom [ViewMatrix], and arbitrates motion playback per figure with a
// priority scheduler. A [Stage] holds the figures of the current scene and
// routes taps to their Head and Body hit areas.
//
// # Quick start
//
// The simplest way to get started is [Run] with the built-in [SketchCore]:
//
//	cfg, _ := marionette.LoadConfig("viewer.yaml")
//	shaders := marionette.NewShaderCache()
//	core := marionette.NewSketchCore(shaders)
//	reader := &marionette.ManifestLoader{Source: marionette.SourceFor(cfg.Resources, os.DirFS(cfg.Resources))}
//	app, err := marionette.NewApp(cfg, core, core, reader, shaders)
//	if err != nil {
//		log.Fatal(err)
//	}
//	marionette.Run(app, marionette.RunConfig{})
//
// # Coordinate spaces
//
// Device space is pixels with Y down. Screen space is centered with Y up;
// its X extent is fixed by [ViewConfig] and its Y extent follows the aspect
// ratio. View space is screen space after pan and zoom. [View] converts
// between all three; tap and drag handlers always receive view coordinates.
//
// # Motions
//
// [MotionScheduler] admits a request only when its [Priority] is at least the
// playing clip's. Completions reported by the engine are matched against the
// active handle, so a clip that was replaced never runs its OnFinish.
// Callbacks run from Dispatch and may start new motions.
//
// # Loading
//
// [AssetLoader] reads manifests ([Manifest], parsed with gjson) off the frame
// thread. Results are applied on the next [Stage.Update]; loads that belong
// to a released figure or an earlier scene are discarded.
//
// # ECS integration
//
// The ecs subpackage publishes stage events into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package marionette
