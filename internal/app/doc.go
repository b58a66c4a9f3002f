// Package app is shutter's composition root.
//
// Run performs startup in order and fails fast on configuration problems:
//
//  1. Seed the environment from .env (godotenv; a missing file is fine)
//  2. Load ~/.config/shutter/config.toml and apply env overrides
//  3. Validate: an access key is required and page_size must be 1..30
//  4. Open the rotated diagnostic log
//  5. Build the catalog client and the gallery controller
//  6. Load UI preferences, falling back to defaults with a warning
//  7. Run the TUI until the user quits or the context is cancelled
//
// Errors from steps 1-5 are returned to main, which prints them and exits 1.
// Query failures after startup never reach this package; the gallery records
// them as notices.
package app
