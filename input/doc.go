// Package input defines the typed input events relayed through the engine
// and the dispatcher that delivers them.
//
// Events form a closed set: [KeyEvent], [PointerEvent], [ResizeEvent] and
// [FocusEvent]. A platform [gpucontext.EventSource] is adapted with [Bind],
// which stamps every event with the engine clock and publishes it on a
// [Dispatcher].
package input
