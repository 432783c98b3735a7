// Package websocket pushes puzzle state updates to browser clients.
//
// A central Hub owns every connection. Clients join a session by connecting
// with ?session=<id>; after each mutating API call the server calls
// BroadcastToSession and every client of that session receives a Message
// holding the new PuzzleState. Incoming client messages are ignored.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, state)
//
// Register, unregister and broadcast requests are all funnelled through
// channels into the Run goroutine, which is the only code touching the
// client registry. Clients that cannot keep up are dropped.
package websocket
