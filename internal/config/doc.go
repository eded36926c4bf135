// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates nodeforge configuration.
//
// Configuration lives in a TOML file under the platform config
// directory and resolves the canonical folder layout used by the rest
// of the system: the environment build cache, the plugin install
// directories, and the plugin catalog file. The resulting Config is an
// explicit value passed by reference into the installer and the
// environment providers; there is no package-level mutable state.
package config
