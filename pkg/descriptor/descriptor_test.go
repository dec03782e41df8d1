package descriptor_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotinstall/pkg/descriptor"
	"github.com/arthur-debert/dotinstall/pkg/errors"
)

const fullDescriptor = `
config:
  dest: $HOME/.config/tool
  backup: false
  pre_shell_commands:
    - echo pre
  files:
    - a.conf
    - b.conf
  directories:
    - themes
  extra_files:
    - name: tool.desktop
      dest: $HOME/.local/share/applications
  env_vars:
    - name: TOOL_HOME
      value: $HOME/.config/tool
    - name: TOOL_LEVEL
      value: 3
  shell_commands:
    - echo post
  unknown_key: ignored
`

func TestParse(t *testing.T) {
	t.Run("full descriptor", func(t *testing.T) {
		cfg, err := descriptor.Parse([]byte(fullDescriptor), "dot.yml")
		require.NoError(t, err)

		assert.Equal(t, "$HOME/.config/tool", cfg.Dest)
		assert.False(t, cfg.BackupEnabled())
		assert.Equal(t, []string{"echo pre"}, cfg.PreShellCommands)
		assert.Equal(t, []string{"a.conf", "b.conf"}, cfg.Files)
		assert.Equal(t, []string{"themes"}, cfg.Directories)
		assert.Equal(t, []descriptor.ExtraFile{{Name: "tool.desktop", Dest: "$HOME/.local/share/applications"}}, cfg.ExtraFiles)
		assert.Equal(t, []descriptor.EnvVar{
			{Name: "TOOL_HOME", Value: "$HOME/.config/tool"},
			{Name: "TOOL_LEVEL", Value: "3"},
		}, cfg.EnvVars)
		assert.Equal(t, []string{"echo post"}, cfg.ShellCommands)
	})

	t.Run("minimal descriptor", func(t *testing.T) {
		cfg, err := descriptor.Parse([]byte("config:\n  dest: $HOME\n"), "dot.yml")
		require.NoError(t, err)

		assert.Equal(t, "$HOME", cfg.Dest)
		assert.True(t, cfg.BackupEnabled(), "backup defaults to true")
		assert.Empty(t, cfg.Files)
		assert.Empty(t, cfg.EnvVars)
		assert.False(t, cfg.HasCopyActions())
	})

	t.Run("env vars only needs no dest", func(t *testing.T) {
		cfg, err := descriptor.Parse([]byte("config:\n  env_vars:\n    - name: A\n      value: b\n"), "dot.yml")
		require.NoError(t, err)
		assert.Empty(t, cfg.Dest)
	})

	t.Run("explicit backup true", func(t *testing.T) {
		cfg, err := descriptor.Parse([]byte("config:\n  dest: /tmp/x\n  backup: true\n"), "dot.yml")
		require.NoError(t, err)
		assert.True(t, cfg.BackupEnabled())
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty document", ""},
		{"missing config section", "settings:\n  dest: $HOME\n"},
		{"null config section", "config:\n"},
		{"malformed yaml", "config: [unterminated\n"},
		{"wrong type for files", "config:\n  dest: /x\n  files: notalist\n"},
		{"files without dest", "config:\n  files:\n    - a.conf\n"},
		{"empty file entry", "config:\n  dest: /x\n  files:\n    - \"\"\n"},
		{"extra file without dest", "config:\n  extra_files:\n    - name: a\n"},
		{"env var without name", "config:\n  env_vars:\n    - value: a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := descriptor.Parse([]byte(tt.content), "pkg/dot.yml")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrParse), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/dots/vim/dot.yml", []byte("config:\n  dest: $HOME\n  files:\n    - .vimrc\n"), 0644))

	t.Run("reads descriptor from package dir", func(t *testing.T) {
		cfg, err := descriptor.Load(fs, "/dots/vim", "")
		require.NoError(t, err)
		assert.Equal(t, []string{".vimrc"}, cfg.Files)
	})

	t.Run("absent descriptor is a parse error", func(t *testing.T) {
		_, err := descriptor.Load(fs, "/dots/zsh", descriptor.DefaultFilename)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
		assert.Equal(t, "/dots/zsh/dot.yml", errors.GetErrorDetails(err)["path"])
	})

	t.Run("custom filename", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/dots/git/install.yml", []byte("config:\n  dest: $HOME\n"), 0644))
		cfg, err := descriptor.Load(fs, "/dots/git", "install.yml")
		require.NoError(t, err)
		assert.Equal(t, "$HOME", cfg.Dest)
	})
}

func TestReference(t *testing.T) {
	ref := descriptor.Reference()
	assert.Contains(t, ref, "pre_shell_commands")
	assert.Contains(t, ref, "extra_files")
}
