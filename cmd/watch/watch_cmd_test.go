package watch

import (
	"bytes"
	"strings"
	"testing"
)

func TestWatchCommand_RejectsInvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no inputs", []string{"jobs.Task"}, "nothing to watch"},
		{"revision", []string{"jobs.Task", "-s", t.TempDir(), "--revision", "HEAD"}, "cannot watch a git revision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()
			if err == nil {
				t.Fatal("Execute() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Execute() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
