package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name     string
		setup    func(t *testing.T) *Progress
		validate func(t *testing.T, p *Progress)
	}{
		{
			name:  "Buffer is not a terminal",
			setup: func(t *testing.T) *Progress { return New(&bytes.Buffer{}) },
			validate: func(t *testing.T, p *Progress) {
				assert.NotNil(t, p.spinner, "Spinner should be initialized")
				assert.False(t, p.tty)
			},
		},
		{
			name: "Regular file is not a terminal",
			setup: func(t *testing.T) *Progress {
				f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
				require.NoError(t, err)
				t.Cleanup(func() { f.Close() })
				return New(f)
			},
			validate: func(t *testing.T, p *Progress) {
				assert.False(t, p.tty)
			},
		},
		{
			name:  "Nil writer falls back to stderr",
			setup: func(t *testing.T) *Progress { return New(nil) },
			validate: func(t *testing.T, p *Progress) {
				assert.Equal(t, os.Stderr, p.out)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.setup(t)
			assert.NotNil(t, p, "Progress should not be nil")
			tc.validate(t, p)
		})
	}
}

func TestStartStop(t *testing.T) {
	testCases := []struct {
		name     string
		steps    [][2]string
		expected string
	}{
		{
			name:     "Single lookup",
			steps:    [][2]string{{"resolving foo", "foo@^1.2.3"}},
			expected: "foo@^1.2.3\n",
		},
		{
			name: "Multiple lookups",
			steps: [][2]string{
				{"resolving foo", "foo@^1.2.3"},
				{"resolving @scope/bar", "@scope/bar@^0.1.0"},
			},
			expected: "foo@^1.2.3\n@scope/bar@^0.1.0\n",
		},
		{
			name:     "Empty stop message prints nothing",
			steps:    [][2]string{{"resolving foo", ""}},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := New(&buf)

			for _, step := range tc.steps {
				p.Start(step[0])
				assert.False(t, p.spinner.Active(), "spinner must stay off without a terminal")
				p.Stop(step[1])
			}

			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	assert.NotPanics(t, func() { p.Stop("done") })
	assert.Equal(t, "done\n", buf.String())
}
