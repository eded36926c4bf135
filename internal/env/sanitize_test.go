// SPDX-License-Identifier: MPL-2.0

package env

import "testing"

func TestCurateEnvCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ []string
		want    string
	}{
		{
			name:    "no interpreter variables",
			environ: []string{"HOME=/home/me", "PATH=/usr/bin"},
			want:    "",
		},
		{
			name:    "uppercase interpreter variable",
			environ: []string{"PYTHONPATH=/opt/lib"},
			want:    "unset PYTHONPATH; ",
		},
		{
			name:    "lowercase interpreter variable",
			environ: []string{"my_pyroot=/opt"},
			want:    "unset my_pyroot; ",
		},
		{
			name:    "resolver variables exempt",
			environ: []string{"REZ_PYTHON_ROOT=/rez", "PYTHONHOME=/opt"},
			want:    "unset PYTHONHOME; ",
		},
		{
			name:    "non-identifier names exempt",
			environ: []string{"py.config=/x", "py-flag=/y", "PYTHONPATH=/opt"},
			want:    "unset PYTHONPATH; ",
		},
		{
			name:    "exported shell function",
			environ: []string{"BASH_FUNC_pyactivate%%=() { :; }"},
			want:    "unset -f pyactivate; ",
		},
		{
			name:    "mixed, ordered",
			environ: []string{"PYTHONPATH=/a", "HOME=/h", "PYTHONHOME=/b"},
			want:    "unset PYTHONPATH; unset PYTHONHOME; ",
		},
		{
			name:    "malformed entry skipped",
			environ: []string{"PYTHONPATH"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := curateEnvCommand(tt.environ)
			if got != tt.want {
				t.Errorf("curateEnvCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
