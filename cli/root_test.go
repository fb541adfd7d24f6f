package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRootState(t *testing.T) {
	t.Cleanup(func() {
		configPath = ""
		rootCmd.SetArgs(nil)
		commands.SetConfig(config.Default())
	})
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path, err := resolveConfigPath("gesture.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "gesture.yaml", filepath.Base(path))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "gesture.yaml"), path)

	path, err = resolveConfigPath("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestDaemonArgs(t *testing.T) {
	args := []string{"gesturecli", "-c", "g.yaml", "server", "start", "-d"}

	childArgs := daemonArgs(args, "/srv/conf/g.yaml")
	assert.Equal(t, []string{"gesturecli", "-c", "g.yaml", "server", "start", "-d", "--config", "/srv/conf/g.yaml"}, childArgs)
	assert.Len(t, args, 6, "caller's args are not modified")

	assert.Equal(t, args, daemonArgs(args, ""))
}

func TestRelativeConfigSurvivesDirectoryChange(t *testing.T) {
	resetRootState(t)

	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "g.yaml"), []byte("server:\n  listen: localhost:12788\n"), 0o644))

	// the parent resolves the relative path from where it was started
	chdir(t, configDir)
	rootCmd.SetArgs([]string{"-c", "g.yaml", "config", "show"})
	require.NoError(t, rootCmd.Execute())
	require.True(t, filepath.IsAbs(configPath))

	parentArgs := []string{"gesturecli", "-c", "g.yaml", "config", "show"}
	childArgs := daemonArgs(parentArgs, configPath)

	// the child starts elsewhere with the same relative flag plus the pinned one
	chdir(t, t.TempDir())
	commands.SetConfig(config.Default())
	rootCmd.SetArgs(childArgs[1:])
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "localhost:12788", commands.GetConfig().Server.Listen)
}

func TestPrintJson_EncodeError(t *testing.T) {
	err := printJson(map[string]interface{}{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode output")
}

func TestPrintResponse(t *testing.T) {
	assert.NoError(t, printResponse(commands.NewSuccessResponse(map[string]string{"status": "ok"})))

	err := printResponse(commands.NewErrorResponse(assert.AnError))
	require.Error(t, err)
	assert.Equal(t, assert.AnError.Error(), err.Error())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	if filepath.IsAbs(dir) {
		t.Setenv("PWD", dir)
	} else {
		t.Setenv("PWD", filepath.Join(oldwd, dir))
	}
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(oldwd))
	})
}
