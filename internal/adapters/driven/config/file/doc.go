// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage at ~/.config/scidata/config.toml
package file
