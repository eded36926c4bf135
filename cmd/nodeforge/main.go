// SPDX-License-Identifier: MPL-2.0

// nodeforge manages per-node execution environments and plugin installs
// for a computational pipeline.
package main

func main() {
	Execute()
}
