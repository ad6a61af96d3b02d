// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify is the in-process change feed for sessions.

Handlers publish objects_created and session_status_changed events after
the corresponding write commits. Listeners use them only as a hint to
re-read the session:

	events, cancel := broker.Subscribe(sessionID)
	defer cancel()
	for ev := range events {
		// reload
	}
*/
package notify
