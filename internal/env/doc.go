// SPDX-License-Identifier: MPL-2.0

// Package env manages per-node execution environments.
//
// An environment is an isolated runtime (a container image, a managed
// conda-style environment, a python virtualenv, or the host process)
// described by a single spec file. Environments are identified by a
// deterministic name hashed from the spec file's byte content, built on
// demand, and cached by that identity: two nodes whose spec files carry
// identical bytes share one environment.
//
// The Provider interface is the closed set of environment kinds; adding
// a kind means adding a variant, not subclassing.
package env
