// SPDX-License-Identifier: MPL-2.0

package env

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
)

// namePrefix namespaces environment names so they are recognizable in
// image lists, conda registries, and cache directories.
const namePrefix = "nodeforge-"

// hashLen is the number of hex digits of the content hash kept in the
// environment name (128 bits).
const hashLen = 32

// ComputeName derives the environment name for a spec file's content.
// It is a pure function of the bytes: identical content yields an
// identical name across processes and time, regardless of file path.
func ComputeName(kind Kind, content []byte) string {
	sum := sha256.Sum256(content)
	return namePrefix + string(kind) + "-" + hex.EncodeToString(sum[:])[:hashLen]
}

// NameFromSpec reads the spec file and computes the environment name.
// A host spec without a file maps to the fixed host environment name.
func NameFromSpec(spec Spec) (string, error) {
	if spec.Path == "" && spec.Kind == KindHost {
		return namePrefix + string(KindHost), nil
	}
	content, err := os.ReadFile(spec.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read environment spec %s: %w", spec.Path, err)
	}
	return ComputeName(spec.Kind, content), nil
}

// lazyName memoizes an environment name for the life of a provider
// instance. The spec file is read once, on first access; a changed file
// is only picked up by a new provider (or process restart).
type lazyName struct {
	once sync.Once
	name string
	err  error
}

func (l *lazyName) get(spec Spec) (string, error) {
	l.once.Do(func() {
		l.name, l.err = NameFromSpec(spec)
	})
	return l.name, l.err
}
