// SPDX-License-Identifier: MPL-2.0

package env

import (
	"errors"
	"testing"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()

	tests := []struct {
		name     string
		spec     Spec
		opts     ProviderOptions
		wantKind Kind
		wantErr  bool
	}{
		{
			name:     "docker",
			spec:     Spec{Path: "Dockerfile", Kind: KindDocker},
			opts:     ProviderOptions{Engine: engine},
			wantKind: KindDocker,
		},
		{
			name:    "docker without engine",
			spec:    Spec{Path: "Dockerfile", Kind: KindDocker},
			wantErr: true,
		},
		{
			name:     "conda",
			spec:     Spec{Path: "env.yaml", Kind: KindConda},
			wantKind: KindConda,
		},
		{
			name:     "venv",
			spec:     Spec{Path: "requirements.txt", Kind: KindVenv},
			opts:     ProviderOptions{CacheDir: "/tmp/cache"},
			wantKind: KindVenv,
		},
		{
			name:    "venv without cache dir",
			spec:    Spec{Path: "requirements.txt", Kind: KindVenv},
			wantErr: true,
		},
		{
			name:     "host",
			spec:     Spec{Kind: KindHost},
			wantKind: KindHost,
		},
		{
			name:    "invalid kind",
			spec:    Spec{Path: "x", Kind: Kind("nope")},
			wantErr: true,
		},
		{
			name:    "missing spec path",
			spec:    Spec{Kind: KindConda},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewProvider(tt.spec, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if p.Kind() != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", p.Kind(), tt.wantKind)
			}
		})
	}
}

func TestBuildErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := error(&BuildError{Name: "nodeforge-venv-x", ExitCode: 2})
	if !errors.Is(err, ErrBuild) {
		t.Error("BuildError should unwrap to ErrBuild")
	}

	var buildErr *BuildError
	if !errors.As(err, &buildErr) {
		t.Fatal("errors.As should find *BuildError")
	}
	if buildErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", buildErr.ExitCode)
	}
}
