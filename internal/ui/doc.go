// Package ui provides the terminal gallery for shutter.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns a *gallery.Controller and never
// performs network calls on the event loop: key handlers dispatch an intent,
// which returns a gallery.Request, and a tea.Cmd runs that request and hands
// back a resultMsg. Update folds the result in with Controller.Apply, so a
// superseded request is dropped there.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages and commands, Run
//   - header.go: header bar, search bar, heading, notice line, footer
//   - grid.go: card grid layout and cursor movement
//   - detail.go: the full-size image overlay
//   - help.go, logs.go, modal.go: overlays that take the keyboard while open
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
//
// # Screens
//
// The gallery shows the current page of photos as cards. When an image is
// selected the "Full-size Image" overlay replaces it; pressing u there loads
// that contributor's photos and the heading switches to "<handle> photos".
//
// # Keyboard
//
//   - /: Focus search (enter runs it, esc leaves the field)
//   - r: Load a random page
//   - h/j/k/l or arrows: Move the cursor; enter opens the image
//   - u, y, esc: In the overlay, open user photos, copy the URL, close
//   - T: Cycle theme; c: cycle grid columns (both saved to prefs)
//   - L: Diagnostic log; ?: help; q or ctrl+c: quit
//
// Failure notices clear themselves after five seconds.
package ui
