// SPDX-License-Identifier: MPL-2.0

// Package executor assembles and runs the command line for one chunk of
// a node, inside the node's execution environment.
package executor

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches {name} placeholders in command templates.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// FormatTemplate substitutes {name} placeholders from params. Every
// placeholder must resolve; unresolved names make the whole format
// fail, listing them.
func FormatTemplate(template string, params map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved placeholders in command template: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
