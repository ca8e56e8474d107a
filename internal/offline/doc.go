// Package offline persists icon data locally for offline use.
//
// Two independent backends satisfy the same Backend contract:
//   - LocalStore: a synchronous flat store writing one serialized envelope
//     under a single key of a KeyValue medium (memory, files, or bbolt)
//   - SQLStore: a transactional store keeping one fixed-id record in a SQLite
//     table, opening its own connection and transaction for every operation
//
// Every backend manages a single slot. A store replaces the slot with a fresh
// Envelope stamped with the backend's schema version and the current time;
// reads only return the payload when the stored version matches.
//
// # Failure Policy
//
// Operations never return a Go error and never panic. Each one returns an
// Outcome whose Status says what happened:
//
//	StatusOK           stored / cleared / payload found
//	StatusAbsent       empty slot (or null payload)
//	StatusStale        version mismatch; treated as a cache miss
//	StatusUnavailable  the medium does not exist (detected once, at construction)
//	StatusFailed       serialization or storage failure, logged at Warn
//
// To an end user all of these look like "no offline data". Tests and call
// sites can tell them apart through Outcome.Status and errors.Is on Outcome.Err.
package offline
