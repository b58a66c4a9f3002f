// Package config loads shutter's startup configuration.
//
// # Sources
//
// Settings come from three places, later ones winning:
//
//  1. Built-in defaults
//  2. ~/.config/shutter/config.toml (or the -config flag)
//  3. Environment variables, optionally seeded from a .env file via LoadDotEnv
//
// # File Format
//
//	api_url = "https://api.unsplash.com"
//	access_key = "..."
//	page_size = 12
//	request_timeout_seconds = 10
//	log_file = "~/.local/state/shutter/shutter.log"
//	log_level = "info"
//
// # Environment
//
//   - SHUTTER_ACCESS_KEY: catalog access key
//   - SHUTTER_API_URL: catalog base URL
//   - SHUTTER_LOG_LEVEL: debug, info, warn or error
//   - SHUTTER_PAGE_SIZE: photos per random/search query (must be an integer)
//
// The access key has no default. Validate rejects a config without one, so
// the key is always supplied at startup rather than compiled in.
package config
