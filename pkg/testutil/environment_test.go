package testutil_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotinstall/pkg/testutil"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

func TestMemoryEnvironment(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	assert.Equal(t, "/dotfiles", env.Paths.Root())
	assert.Equal(t, "/home/user", env.Paths.Home())
	assert.True(t, env.Exists(env.HomeDir))

	pkg := env.SetupPackage("vim", "config: {}\n", map[string]string{"colors/a.vim": "a"})
	assert.Equal(t, "/dotfiles/vim", pkg.Path)
	assert.Equal(t, "config: {}\n", env.ReadFile("vim/dot.yml"))
	assert.Equal(t, "a", env.ReadFile("/dotfiles/vim/colors/a.vim"))

	env.Vars["EDITOR"] = "nvim"
	assert.Equal(t, "nvim", env.Paths.Expand("$EDITOR"))
}

func TestIsolatedEnvironment(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	assert.Equal(t, env.HomeDir, os.Getenv("HOME"))
	assert.Equal(t, env.DotfilesRoot, os.Getenv("DOTFILES_ROOT"))

	env.WriteFile("git/dot.yml", "config: {}\n")
	_, err := os.Stat(env.Path("git/dot.yml"))
	require.NoError(t, err)
	assert.Equal(t, env.HomeDir+"/.gitconfig", env.HomePath(".gitconfig"))
}

func TestRecorder(t *testing.T) {
	rec := &testutil.Recorder{}
	var reporter types.Reporter = rec

	reporter.Report(types.Event{Kind: types.EventPackageStart})
	reporter.Report(types.Event{Kind: types.EventPackageDone})

	assert.Equal(t, []types.EventKind{types.EventPackageStart, types.EventPackageDone}, rec.Kinds())
}
