package profile_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/profile"
)

const profilePath = "/home/alice/.userprofile"

func newAppender(t *testing.T) (afero.Fs, *profile.Appender) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/alice", 0755))
	return fs, profile.NewAppender(fs, profilePath, "")
}

func content(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, profilePath)
	require.NoError(t, err)
	return string(data)
}

func TestMarker(t *testing.T) {
	_, a := newAppender(t)
	assert.Equal(t, "# automatically generated by dotfiles (vim)\n", a.Marker("vim"))

	custom := profile.NewAppender(afero.NewMemMapFs(), profilePath, "dotinstall")
	assert.Equal(t, "# automatically generated by dotinstall (zsh)\n", custom.Marker("zsh"))
}

func TestAppendEnvVars(t *testing.T) {
	t.Run("writes marker exports and blank line", func(t *testing.T) {
		fs, a := newAppender(t)

		err := a.AppendEnvVars("tool", []descriptor.EnvVar{
			{Name: "TOOL_HOME", Value: "$HOME/.tool"},
			{Name: "TOOL_LEVEL", Value: "3"},
		})
		require.NoError(t, err)

		want := "# automatically generated by dotfiles (tool)\n" +
			"export TOOL_HOME=\"$HOME/.tool\"\n" +
			"export TOOL_LEVEL=\"3\"\n" +
			"\n"
		assert.Equal(t, want, content(t, fs))
	})

	t.Run("blocks accumulate in order", func(t *testing.T) {
		fs, a := newAppender(t)

		require.NoError(t, a.AppendEnvVars("first", []descriptor.EnvVar{{Name: "A", Value: "1"}}))
		require.NoError(t, a.AppendEnvVars("second", []descriptor.EnvVar{{Name: "B", Value: "2"}}))

		want := "# automatically generated by dotfiles (first)\nexport A=\"1\"\n\n" +
			"# automatically generated by dotfiles (second)\nexport B=\"2\"\n\n"
		assert.Equal(t, want, content(t, fs))
	})

	t.Run("no vars writes nothing", func(t *testing.T) {
		fs, a := newAppender(t)

		require.NoError(t, a.AppendEnvVars("empty", nil))
		ok, err := afero.Exists(fs, profilePath)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("existing content is kept", func(t *testing.T) {
		fs, a := newAppender(t)
		require.NoError(t, afero.WriteFile(fs, profilePath, []byte("# mine\n"), 0644))

		require.NoError(t, a.AppendEnvVars("tool", []descriptor.EnvVar{{Name: "A", Value: "1"}}))
		assert.True(t, strings.HasPrefix(content(t, fs), "# mine\n# automatically generated"))
	})
}

func TestAppendFragment(t *testing.T) {
	fs, a := newAppender(t)

	require.NoError(t, a.AppendFragment("zsh", []byte("alias ll='ls -l'")))
	require.NoError(t, a.AppendFragment("zsh", []byte("alias ll='ls -l'")))

	block := "# automatically generated by dotfiles (zsh)\nalias ll='ls -l'\n"
	assert.Equal(t, block+block, content(t, fs), "appends are not idempotent")
}

func TestConcurrentAppendsKeepBlocksWhole(t *testing.T) {
	fs, a := newAppender(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("pkg%d", i)
			assert.NoError(t, a.AppendEnvVars(name, []descriptor.EnvVar{{Name: "V", Value: name}}))
		}(i)
	}
	wg.Wait()

	blocks := strings.Split(strings.TrimSuffix(content(t, fs), "\n\n"), "\n\n")
	require.Len(t, blocks, 20)
	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		require.Len(t, lines, 2)
		var src string
		_, err := fmt.Sscanf(lines[0], "# automatically generated by dotfiles (%s", &src)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("export V=\"%s\"", strings.TrimSuffix(src, ")")), lines[1])
	}
}
