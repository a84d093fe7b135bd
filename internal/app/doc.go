// Package app is the composition root of the naoTimes client.
//
// # Overview
//
// This package wires configuration, prefs, logging, the naoTimes gateway,
// the project sync context and the UI together. The interactive TUI and
// every headless command share the same wiring through Bootstrap.
//
// # Startup
//
//  1. Load config (TOML file, .env, NAOTIMES_* overrides)
//  2. Build the slog logger (a file for the TUI, stderr for commands)
//  3. Create the naoTimes HTTP client
//  4. Build the project SyncContext (cache + gateway + logger)
//  5. Populate the dashboard store and start the poller
//  6. Start the TUI and block until the user exits or the context ends
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config + env
//	       ├─────> naotimes.NewClient()   HTTP gateway
//	       ├─────> project.NewCoordinator Cache + gateway
//	       ├─────> state.Store{}          Dashboard snapshot
//	       ├─────> StartPoller()          Background dashboard refresh
//	       └─────> ui.Run()               Start TUI (blocks)
//
// # Polling Behavior
//
// The poller fetches the project list every poll_interval (default 15s).
// After a failed poll the wait doubles per consecutive failure, capped at
// two minutes. Two failures in a row mark the dashboard offline. The first
// success resets both.
//
// Open projects are not polled. They are served from the project cache,
// whose entries expire after three minutes, and refreshed on demand.
//
// # Error Handling
//
// Run returns errors for invalid configuration, an unusable server URL and
// an unwritable log file. Poll failures are logged and recorded in the
// store; polling continues.
package app
