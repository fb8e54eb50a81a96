// Package devserver serves a live view of a mounted component over HTTP.
//
// The component, its runtime and its memhost document are owned by a
// reactive.EventLoop; every request that touches them is posted to the loop
// with EventLoop.Do, so state writes from HTTP handlers are batched and
// flushed exactly as writes from any other task. After every patch the
// server pushes the new HTML and the recorded host operations to all
// connected WebSocket clients.
//
// Routes:
//
//	GET  /             page with the current HTML and a live-update script
//	GET  /state        observed data as JSON
//	POST /state        merge a JSON object into the data
//	PUT  /state/{key}  set one key to a JSON value
//	GET  /ws           WebSocket stream of Message values; ?format=binary
//	                   switches to protocol frames
//	GET  /healthz      liveness probe
//	GET  /metrics      Prometheus scrape endpoint, when configured
package devserver
