// Package ui provides the Bubble Tea terminal interface of the naoTimes
// client.
//
// # Views
//
//   - Dashboard: the polled project list from state.Store, with a search box
//     whose queries go through the cancel-replace debouncer in package
//     search.
//   - Project: staff assignments and one card per episode. Each card drives
//     the project package state machines (edit session, release toggle,
//     removal) owned by a project.Board.
//
// # Concurrency
//
// All state machines are only touched from Update. Gateway calls run inside
// tea.Cmds and come back as messages that Update resolves, so a card's
// submitting state covers exactly the time a request is in flight.
//
// # Files
//
//   - app.go: Model, Update loop, notices, Run
//   - dashboard.go: project list, search, header and footer
//   - project.go: episode cards and their commands
//   - modal.go: removal confirmation and input prompts
//   - theme.go, barstyle.go, keys.go, helpers.go: styling, bindings and formatting
package ui
