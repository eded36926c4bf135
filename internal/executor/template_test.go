// SPDX-License-Identifier: MPL-2.0

package executor

import "testing"

func TestFormatTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		params   map[string]string
		want     string
		wantErr  bool
	}{
		{
			name:     "single placeholder",
			template: "resize --input {input}",
			params:   map[string]string{"input": "/data/scene"},
			want:     "resize --input /data/scene",
		},
		{
			name:     "repeated placeholder",
			template: "{bin} --help || {bin} --version",
			params:   map[string]string{"bin": "match"},
			want:     "match --help || match --version",
		},
		{
			name:     "no placeholders",
			template: "true",
			params:   nil,
			want:     "true",
		},
		{
			name:     "unresolved placeholder",
			template: "resize --input {input} --output {output}",
			params:   map[string]string{"input": "/data"},
			wantErr:  true,
		},
		{
			name:     "underscore name",
			template: "run {out_dir}",
			params:   map[string]string{"out_dir": "/out"},
			want:     "run /out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FormatTemplate(tt.template, tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want && !tt.wantErr {
				t.Errorf("FormatTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}
