// Package kit provides the host-side World and its configuration: the
// filesystem-backed font cache and TOML-sourced paragraph defaults that a
// caller hands to the inline layout engine.
package kit
