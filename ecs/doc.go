// Package ecs bridges marionette stage events into a Donburi world.
//
// [NewDonburiSink] returns a [marionette.EventSink] that publishes scene,
// load, hit and motion events as typed Donburi events. Subscribe to
// [EventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	app.Stage().SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
