// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestCondaBuildCommand(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "env.yaml", "dependencies:\n  - python=3.11\n")
	p := NewCondaProvider(Spec{Path: path, Kind: KindConda})
	name, err := p.EnvName()
	if err != nil {
		t.Fatalf("EnvName() error = %v", err)
	}

	got := p.buildCommand(name, "unset PYTHONPATH; ")
	want := "unset PYTHONPATH; conda config --set channel_priority strict; conda env create --name " +
		name + " --file " + path
	if got != want {
		t.Errorf("buildCommand() = %q, want %q", got, want)
	}
}

func TestCondaCommandPrefix(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "env.yaml", "dependencies:\n  - python=3.11\n")
	p := NewCondaProvider(Spec{Path: path, Kind: KindConda}, WithCondaBinary("mamba"))
	name, _ := p.EnvName()

	prefix, err := p.CommandPrefix()
	if err != nil {
		t.Fatalf("CommandPrefix() error = %v", err)
	}
	if !strings.HasSuffix(prefix, "mamba run --no-capture-output -n "+name+" ") {
		t.Errorf("CommandPrefix() = %q, want run invocation for %q", prefix, name)
	}
}

func TestCondaIsBuilt(t *testing.T) {
	t.Parallel()

	path := writeSpecFile(t, "env.yaml", "dependencies:\n  - python=3.11\n")

	t.Run("registered", func(t *testing.T) {
		t.Parallel()
		p := NewCondaProvider(Spec{Path: path, Kind: KindConda},
			WithCondaBinary("true"),
			WithCondaExecCommand(func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
				return exec.CommandContext(ctx, "true")
			}))
		built, err := p.IsBuilt(context.Background())
		if err != nil {
			t.Fatalf("IsBuilt() error = %v", err)
		}
		if !built {
			t.Error("IsBuilt() = false, want true for a zero exit")
		}
	})

	t.Run("not registered", func(t *testing.T) {
		t.Parallel()
		p := NewCondaProvider(Spec{Path: path, Kind: KindConda},
			WithCondaBinary("true"),
			WithCondaExecCommand(func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
				return exec.CommandContext(ctx, "false")
			}))
		built, err := p.IsBuilt(context.Background())
		if err != nil {
			t.Fatalf("IsBuilt() error = %v, want clean not-found", err)
		}
		if built {
			t.Error("IsBuilt() = true, want false for a non-zero exit")
		}
	})

	t.Run("manager missing", func(t *testing.T) {
		t.Parallel()
		p := NewCondaProvider(Spec{Path: path, Kind: KindConda},
			WithCondaBinary("definitely-not-a-real-binary-000"))
		_, err := p.IsBuilt(context.Background())
		if err == nil {
			t.Fatal("IsBuilt() error = nil, want QueryError for a missing manager")
		}
	})
}
