// Package file provides file-based configuration adapters: a TOML
// settings store, user-editable prompt files, and environment loading
// for API keys.
package file
