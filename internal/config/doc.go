// Package config loads the naoTimes client configuration.
//
// # Resolution Order
//
//  1. Defaults (see below)
//  2. The TOML file given with --config, or ~/.config/naotimes/config.toml
//  3. A .env file in the working directory, if present
//  4. NAOTIMES_SERVER_URL, NAOTIMES_TOKEN, NAOTIMES_LOG_LEVEL and
//     NAOTIMES_LOG_FILE from the environment
//
// A missing config file is not an error. Empty or zero values in the file
// keep the defaults.
//
// # Default Values
//
//   - Server: https://naoti.me/api
//   - Request timeout: 10s
//   - Log level: info
//   - Log file: ~/.local/state/naotimes/naotimes.log
//   - Dashboard poll interval: 15s
//
// # TOML Format
//
//	server_url = "https://naoti.me/api"
//	token = "..."
//	request_timeout = 10   # seconds
//	log_level = "debug"
//	log_file = "~/.local/state/naotimes/naotimes.log"
//	poll_interval = 15     # seconds
//
// Tilde expansion is applied to the config path and log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors and unknown log levels. Values from .env never override
// variables already present in the environment.
package config
