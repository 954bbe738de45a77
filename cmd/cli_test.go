package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/intakebot/internal/version"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestImportThenReimportWithOverwrite(t *testing.T) {
	home := t.TempDir()
	csvPath := writeDecisionsCSV(t, home, "номер;текст\n5678;\"Сайт example.com\"\n12;книга\nabc;мусор\n")

	stdout, _, err := executeCLI(t, home, "", "import", csvPath)
	require.NoError(t, err)
	assert.Equal(t, "created: 2\nupdated: 0\nunchanged: 0\nskipped: 1\n", stdout)

	data, err := os.ReadFile(filepath.Join(home, "data", "decisions.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Сайт example.com")

	csvPath = writeDecisionsCSV(t, home, "номер;текст\n12;другая книга\n")
	stdout, _, err = executeCLI(t, home, "", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "unchanged: 1")

	stdout, _, err = executeCLI(t, home, "", "import", "--overwrite-text", csvPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "updated: 1")
}

func TestImportRequiresFileArgument(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestStatsOnEmptyStore(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "", "stats", "--plain")
	require.NoError(t, err)
	assert.Contains(t, stdout, "отправлено 0 из 36.")

	stdout, _, err = executeCLI(t, home, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Weekly notices")
	assert.Contains(t, stdout, "0/36 (36 left)")
}

func TestTokenSetAndClear(t *testing.T) {
	home := t.TempDir()
	tokenPath := filepath.Join(home, "secrets", "intakebot", "telegram", "token")

	stdout, _, err := executeCLI(t, home, "", "token", "set", "--value", "123456:ABC")
	require.NoError(t, err)
	assert.Equal(t, "token stored\n", stdout)

	data, err := os.ReadFile(tokenPath)
	require.NoError(t, err)
	assert.Equal(t, "123456:ABC", string(data))

	_, _, err = executeCLI(t, home, "", "token", "clear")
	require.NoError(t, err)
	_, err = os.Stat(tokenPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokenSetReadsStdin(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "  654321:XYZ\n", "token", "set")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(home, "secrets", "intakebot", "telegram", "token"))
	require.NoError(t, err)
	assert.Equal(t, "654321:XYZ", string(data))
}

func TestTokenSetRejectsEmptyInput(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "\n", "token", "set")
	require.EqualError(t, err, "token is empty")
}

func TestRemindWithoutTokenFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "", "remind")
	require.ErrorIs(t, err, errMissingToken)
}

func TestInvalidConfigurationFailsBeforeRunning(t *testing.T) {
	t.Setenv("INTAKEBOT_STORAGE_BACKEND", "sqlite")

	_, _, err := executeCLI(t, t.TempDir(), "", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func executeCLI(t *testing.T, home string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("INTAKEBOT_HOME", home)
	t.Setenv("INTAKEBOT_SECRETS_BACKEND", "file")
	t.Setenv("INTAKEBOT_LOG_LEVEL", "error")

	root, app := newRootCmd()
	defer app.close()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDecisionsCSV(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "decisions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
