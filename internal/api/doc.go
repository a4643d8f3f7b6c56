// Package api provides the diagnostic HTTP and WebSocket server for the
// homink daemon.
//
// It exposes read-only views of the tracked sensor set: current
// snapshots over REST and a live event stream over WebSocket. The poll
// loop pushes fresh snapshots into the server after each tick, so
// handlers never read tracker state directly and the tracker stays
// single-threaded.
//
// The server follows the usual lifecycle:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
