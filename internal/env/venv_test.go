// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

func TestVenvProviderPaths(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "requirements.txt", "requests\n")
	cacheDir := t.TempDir()
	p := NewVenvProvider(Spec{Path: path, Kind: KindVenv}, cacheDir, "python3")

	name, err := p.EnvName()
	if err != nil {
		t.Fatalf("EnvName() error = %v", err)
	}
	envPath, err := p.EnvPath()
	if err != nil {
		t.Fatalf("EnvPath() error = %v", err)
	}
	if envPath != filepath.Join(cacheDir, name) {
		t.Errorf("EnvPath() = %q, want %q", envPath, filepath.Join(cacheDir, name))
	}

	prefix, err := p.CommandPrefix()
	if err != nil {
		t.Fatalf("CommandPrefix() error = %v", err)
	}
	wantInterp := filepath.Join(envPath, "bin", "python")
	if runtime.GOOS == "windows" {
		wantInterp = filepath.Join(envPath, "Scripts", "python.exe")
	}
	if prefix != wantInterp+" " {
		t.Errorf("CommandPrefix() = %q, want %q", prefix, wantInterp+" ")
	}
}

func TestVenvProviderIsBuilt(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "requirements.txt", "requests\n")
	cacheDir := t.TempDir()
	p := NewVenvProvider(Spec{Path: path, Kind: KindVenv}, cacheDir, "python3")

	ctx := context.Background()
	built, err := p.IsBuilt(ctx)
	if err != nil {
		t.Fatalf("IsBuilt() error = %v", err)
	}
	if built {
		t.Error("IsBuilt() = true with no environment directory")
	}

	envPath, _ := p.EnvPath()
	if err := os.MkdirAll(envPath, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	built, err = p.IsBuilt(ctx)
	if err != nil {
		t.Fatalf("IsBuilt() error = %v", err)
	}
	if !built {
		t.Error("IsBuilt() = false with the environment directory present")
	}
}

func TestVenvProviderBuildCleansPartialEnv(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "requirements.txt", "requests\n")
	cacheDir := t.TempDir()

	// First invocation (venv creation) succeeds and leaves the directory
	// behind; the second (dependency install) fails. The partial
	// directory must be removed so IsBuilt does not report a broken env.
	call := 0
	p := NewVenvProvider(Spec{Path: path, Kind: KindVenv}, cacheDir, "python3",
		WithVenvExecCommand(func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
			call++
			if call == 1 {
				envPath, _ := NewVenvProvider(Spec{Path: path, Kind: KindVenv}, cacheDir, "python3").EnvPath()
				return exec.CommandContext(ctx, "mkdir", "-p", envPath)
			}
			return exec.CommandContext(ctx, "false")
		}))

	err := p.Build(context.Background(), io.Discard)
	if err == nil {
		t.Fatal("Build() error = nil, want install failure")
	}

	built, err := p.IsBuilt(context.Background())
	if err != nil {
		t.Fatalf("IsBuilt() error = %v", err)
	}
	if built {
		t.Error("IsBuilt() = true after a failed build, partial environment not removed")
	}
}

func TestVenvProviderRemove(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "requirements.txt", "requests\n")
	cacheDir := t.TempDir()
	p := NewVenvProvider(Spec{Path: path, Kind: KindVenv}, cacheDir, "python3")

	if err := p.Remove(); err == nil {
		t.Error("Remove() error = nil for an unbuilt environment")
	}

	envPath, _ := p.EnvPath()
	if err := os.MkdirAll(envPath, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := p.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(envPath); !os.IsNotExist(err) {
		t.Error("Remove() left the environment directory behind")
	}
}
