package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/app"
)

func stubTUI(t *testing.T) *int {
	t.Helper()
	calls := 0
	orig := launchTUIFunc
	launchTUIFunc = func(_ *app.Container) error {
		calls++
		return nil
	}
	t.Cleanup(func() { launchTUIFunc = orig })
	return &calls
}

func TestRootCommand_NoArgsLaunchesTUI(t *testing.T) {
	calls := stubTUI(t)
	c, _ := newTestContainer(t)

	_, err := runCommand(t, NewRootCommand(c, "test"))

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestRootCommand_TUISubcommand(t *testing.T) {
	calls := stubTUI(t)
	c, _ := newTestContainer(t)

	_, err := runCommand(t, NewRootCommand(c, "test"), "tui")

	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestRootCommand_PrintsConfigWarnings(t *testing.T) {
	c, _ := newTestContainer(t)
	c.AppConfig.Warnings = []string{"unknown key in [view]: colour"}

	out, err := runCommand(t, NewRootCommand(c, "test"), "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: unknown key in [view]: colour")
}

func TestRootCommand_Groups(t *testing.T) {
	root := NewRootCommand(nil, "test")

	for _, name := range []string{"add", "list", "show", "edit", "done", "undone", "toggle", "rm", "mv", "clear", "tui", "export", "import", "config", "guide"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.GroupID, name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	out, err := runCommand(t, NewRootCommand(nil, "1.2.3"), "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestGuideCommand(t *testing.T) {
	c, _ := newTestContainer(t)

	out, err := runCommand(t, NewRootCommand(c, "test"), "guide")

	require.NoError(t, err)
	assert.Contains(t, out, "low, medium, high")
	assert.Contains(t, out, "smart-tasks-backup.json")
	assert.Contains(t, out, "## Backups")
}

func TestGuideCommand_Styled(t *testing.T) {
	c, _ := newTestContainer(t)

	out, err := runCommand(t, NewRootCommand(c, "test"), "guide", "--style", "notty")

	require.NoError(t, err)
	assert.Contains(t, out, "Backups")
	assert.Contains(t, out, "tasks export")
}

func TestGuideCommand_UnknownStyle(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := runCommand(t, NewRootCommand(c, "test"), "guide", "--style", "/nonexistent/style.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render guide")
}
