// Package state shares the dashboard project list between the background
// poller and the UI.
//
// # Architecture
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ FetchProjects()  │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│  repeat...       │           │  render list     │
//	└──────────────────┘           └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace the project list
//	store.Update(projects, nil)
//	→ snapshot.Projects = projects
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error: keep old data, record error
//	store.Update(nil, err)
//	→ snapshot.Projects = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// The UI always has the most recent successful list to display. After two
// failed polls in a row the snapshot reports IsOffline.
//
// Snapshots are copies; callers may modify them freely. The zero Store is
// ready to use.
//
// This store only holds the dashboard. Open project details live in the
// project cache, which has its own expiry rules.
package state
