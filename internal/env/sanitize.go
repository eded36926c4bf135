// SPDX-License-Identifier: MPL-2.0

package env

import (
	"os"
	"strings"
)

// bashFuncPrefix/bashFuncSuffix mark exported shell functions in the
// environment ("BASH_FUNC_name%%"); those need `unset -f`.
const (
	bashFuncPrefix = "BASH_FUNC_"
	bashFuncSuffix = "%%"
)

// CurateEnvCommand returns a shell command prefix that unsets every
// inherited variable whose name suggests an embedded interpreter
// runtime. Managed environment managers resolve their own interpreter;
// leaked PYTHONPATH-style variables from the parent process collide
// with it. Variables on the exemption list (names mentioning REZ, or
// containing dots or dashes) are kept.
func CurateEnvCommand() string {
	return curateEnvCommand(os.Environ())
}

func curateEnvCommand(environ []string) string {
	var b strings.Builder
	for _, kv := range environ {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if !mentionsInterpreter(name) || exemptFromCuration(name) {
			continue
		}
		if fn, ok := exportedFunctionName(name); ok {
			b.WriteString("unset -f ")
			b.WriteString(fn)
			b.WriteString("; ")
			continue
		}
		b.WriteString("unset ")
		b.WriteString(name)
		b.WriteString("; ")
	}
	return b.String()
}

// mentionsInterpreter reports whether the variable name looks like it
// configures an embedded python runtime (PYTHONPATH, PYTHONHOME,
// vendor-specific py* variables).
func mentionsInterpreter(name string) bool {
	return strings.Contains(name, "py") || strings.Contains(name, "PY")
}

// exemptFromCuration is the fixed exemption list: resolver-managed
// variables and names that are not valid shell identifiers anyway.
func exemptFromCuration(name string) bool {
	return strings.Contains(name, "REZ") ||
		strings.Contains(name, ".") ||
		strings.Contains(name, "-")
}

// exportedFunctionName extracts the function name from an exported
// shell function variable, if the name denotes one.
func exportedFunctionName(name string) (string, bool) {
	if strings.HasPrefix(name, bashFuncPrefix) && strings.HasSuffix(name, bashFuncSuffix) {
		return strings.TrimSuffix(strings.TrimPrefix(name, bashFuncPrefix), bashFuncSuffix), true
	}
	return "", false
}
