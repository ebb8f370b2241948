package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value kept",
			args:    []string{"-d", "remote.dsn", "-x", "junk"},
			allowed: []string{"-d"},
			want:    []string{"-d", "remote.dsn"},
		},
		{
			name:    "equals form kept",
			args:    []string{"--config=sync.json", "--other=1"},
			allowed: []string{"--config"},
			want:    []string{"--config=sync.json"},
		},
		{
			name:    "flag followed by another flag keeps only the flag",
			args:    []string{"-v", "-d", "dsn"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "b"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"cli", "-c", "sync.json", "-d", "ignored"}
	assert.Equal(t, "sync.json", JsonConfigFlags())

	os.Args = []string{"cli"}
	assert.Equal(t, "", JsonConfigFlags())
}
