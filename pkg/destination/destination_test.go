package destination_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotinstall/pkg/destination"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/paths"
)

const home = "/home/alice"

func setup(t *testing.T, opts ...destination.Option) (afero.Fs, *destination.Resolver) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(home, 0755))
	p, err := paths.New(paths.Options{
		Root:      "/dots",
		Home:      home,
		LookupEnv: func(string) (string, bool) { return "", false },
	})
	require.NoError(t, err)
	return fs, destination.NewResolver(fs, p, opts...)
}

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}

func TestResolveHomeMarker(t *testing.T) {
	fs, r := setup(t)
	write(t, fs, home+"/.vimrc", "old")

	res, err := r.Resolve("$HOME", true)
	require.NoError(t, err)

	assert.Equal(t, destination.Resolution{Path: home, Home: true}, res)
	assert.False(t, exists(t, fs, home+".back.1"), "home is never backed up")
}

func TestResolveCreatesMissingDestination(t *testing.T) {
	fs, r := setup(t)

	res, err := r.Resolve("$HOME/.config/tool", true)
	require.NoError(t, err)

	assert.Equal(t, home+"/.config/tool", res.Path)
	assert.True(t, res.Created)
	assert.Empty(t, res.BackupPath)
	isDir, err := afero.DirExists(fs, home+"/.config/tool")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestResolveBackup(t *testing.T) {
	t.Run("first backup copies current contents", func(t *testing.T) {
		fs, r := setup(t)
		dest := home + "/.config/tool"
		write(t, fs, dest+"/a.conf", "original a")
		write(t, fs, dest+"/sub/b.conf", "original b")

		res, err := r.Resolve(dest, true)
		require.NoError(t, err)

		assert.Equal(t, dest+".back.1", res.BackupPath)
		assert.False(t, res.Created)
		assert.Equal(t, "original a", read(t, fs, dest+".back.1/a.conf"))
		assert.Equal(t, "original b", read(t, fs, dest+".back.1/sub/b.conf"))
		assert.Equal(t, "original a", read(t, fs, dest+"/a.conf"), "original left in place")
	})

	t.Run("lowest unused index is chosen", func(t *testing.T) {
		fs, r := setup(t)
		dest := home + "/.config/tool"
		write(t, fs, dest+"/a.conf", "current")
		write(t, fs, dest+".back.1/a.conf", "first")
		write(t, fs, dest+".back.3/a.conf", "third")

		res, err := r.Resolve(dest, true)
		require.NoError(t, err)

		assert.Equal(t, dest+".back.2", res.BackupPath)
		assert.Equal(t, "current", read(t, fs, dest+".back.2/a.conf"))
		assert.Equal(t, "first", read(t, fs, dest+".back.1/a.conf"))
	})

	t.Run("backup disabled", func(t *testing.T) {
		fs, r := setup(t)
		dest := home + "/.config/tool"
		write(t, fs, dest+"/a.conf", "current")

		res, err := r.Resolve(dest, false)
		require.NoError(t, err)

		assert.Empty(t, res.BackupPath)
		assert.False(t, exists(t, fs, dest+".back.1"))
	})

	t.Run("custom suffix", func(t *testing.T) {
		fs, r := setup(t, destination.WithBackupSuffix(".bak"))
		dest := home + "/tool"
		write(t, fs, dest+"/a", "a")

		res, err := r.Resolve(dest, true)
		require.NoError(t, err)
		assert.Equal(t, dest+".bak1", res.BackupPath)
	})

	t.Run("existing file cannot be backed up as a directory", func(t *testing.T) {
		fs, r := setup(t)
		write(t, fs, home+"/notadir", "x")

		_, err := r.Resolve(home+"/notadir", true)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
	})
}

func TestResolveCustomHomeMarker(t *testing.T) {
	fs, r := setup(t, destination.WithHomeMarker("~"))
	write(t, fs, home+"/.zshrc", "x")

	res, err := r.Resolve("~", true)
	require.NoError(t, err)
	assert.True(t, res.Home)

	// the default marker is now an ordinary path: home exists, so it is backed up
	res, err = r.Resolve("$HOME", true)
	require.NoError(t, err)
	assert.False(t, res.Home)
	assert.Equal(t, home+".back.1", res.BackupPath)
}

func TestResolveDryRun(t *testing.T) {
	fs, r := setup(t, destination.WithDryRun(true))
	write(t, fs, home+"/existing/a", "a")

	res, err := r.Resolve("$HOME/new", true)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, exists(t, fs, home+"/new"))

	res, err = r.Resolve("$HOME/existing", true)
	require.NoError(t, err)
	assert.Equal(t, home+"/existing.back.1", res.BackupPath)
	assert.False(t, exists(t, fs, home+"/existing.back.1"))
}

func TestNextBackupPath(t *testing.T) {
	fs, r := setup(t)
	write(t, fs, "/x.back.1/f", "")
	write(t, fs, "/x.back.2", "a file also occupies the name")

	got, err := r.NextBackupPath("/x")
	require.NoError(t, err)
	assert.Equal(t, "/x.back.3", got)
}
