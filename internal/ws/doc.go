// Package ws implements the WebSocket hub for the integrity dashboard server.
//
// Hub manages a set of connected clients. Unlike a polling broadcaster it is
// push-driven: the simulator and notification engine call Hub.Publish each
// time their state changes, and the hub fans the message out to every client.
//
// New() creates a Hub.
// Hub.Run(ctx) blocks until ctx is cancelled, then closes all connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket, replays the latest
// snapshot immediately on connect, then streams subsequent publishes.
//
// Message format sent to clients:
//
//	{
//	  "event": "snapshot" | "notifications",
//	  "data":  { /* event-specific payload */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. WebSocket endpoint is mounted at /ws/stream by the server.
package ws
