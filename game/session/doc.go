// Package session provides session storage for the slidesort puzzle server.
//
// Manager keeps sessions in memory keyed case-insensitively and, when built
// with NewManagerWithPersistence, writes each one through to a
// SessionPersistence. FilePersistence stores one JSON file per session,
// including the puzzle config the session was created from.
//
// Session Identifiers:
//
// Generated IDs are UUIDs. Caller supplied IDs are limited to letters, digits,
// '-' and '_' since they become file names.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", "classic", cfg)
//
// Cleanup:
//
// CleanupExpiredSessions evicts idle sessions from memory; persisted copies
// reload on the next Get. PruneOrphaned drops sessions whose file was removed.
package session
