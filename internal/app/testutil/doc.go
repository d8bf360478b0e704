// Package testutil provides shared test doubles and fixtures.
//
// It contains three groups of helpers:
//
// 1. Engine doubles (engine.go):
//   - MockEngine: testify mock of transcription.Engine
//   - StubEngine: fixed response or error, counts calls
//
// 2. Storage helpers (db_helpers.go):
//   - NewSQLiteStore: temporary SQLite store closed on cleanup
//   - NewLocalStore: temporary upload directory
//   - SeedAudio: stores a file and creates its pending record
//
// 3. Fixtures (fixtures.go):
//   - Sample transcripts and engine responses used across packages
package testutil
