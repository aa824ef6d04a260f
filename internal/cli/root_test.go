package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lang-portal/internal/app"
	"lang-portal/internal/shared/database"
)

const fixturesYAML = `groups:
  - id: 1
    name: Kana
study_activities:
  - id: 1
    name: Flashcards
    url: http://localhost:8080
words:
  - id: 1
    kanji: 払う
    romaji: harau
    english: to pay
`

// isolate clears config variables and runs the test from an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{app.EnvFile, app.EnvDBPath, app.EnvDBDriver, app.EnvPort,
		app.EnvRateLimit, app.EnvCORSOrigins, app.EnvLogLevel, app.EnvLogFormat, app.EnvShutdownTimeout} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "langportal", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "reset", "seed"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "command %s should exist", name)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"env-file", "db", "db-driver", "log-level", "log-format"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag %s", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	portFlag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, portFlag)
	assert.Equal(t, "p", portFlag.Shorthand)
}

func TestSeedThenReset(t *testing.T) {
	dir := isolate(t)
	dbPath := filepath.Join(dir, "cli.db")
	fixtures := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte(fixturesYAML), 0o600))

	out, err := execute(t, "seed", "--db", dbPath, "--file", fixtures)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 1 groups, 1 study activities, 1 words\n", out)

	db, err := database.New(dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO study_sessions (group_id, study_activity_id, created_at) VALUES (1, 1, '2025-01-01T00:00:00.000000Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO word_review_items (word_id, study_session_id, correct, created_at) VALUES (1, 1, 1, '2025-01-01T00:00:00.000000Z')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err = execute(t, "reset", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "Study history cleared successfully (1 review items, 1 sessions deleted)\n", out)

	out, err = execute(t, "reset", "--db", dbPath, "--db-driver", "sqlite")
	require.NoError(t, err)
	assert.Equal(t, "Study history cleared successfully (0 review items, 0 sessions deleted)\n", out)
}

func TestSeed_RequiresFile(t *testing.T) {
	isolate(t)
	_, err := execute(t, "seed")
	assert.Error(t, err)
}

func TestSeed_InvalidFixture(t *testing.T) {
	dir := isolate(t)
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("groups:\n  - name: Kana\n    colour: red\n"), 0o600))

	_, err := execute(t, "seed", "--db", filepath.Join(dir, "x.db"), "--file", bad)
	assert.Error(t, err)
}

func TestInvalidGlobalFlags(t *testing.T) {
	isolate(t)

	_, err := execute(t, "reset", "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "reset", "--log-format", "xml")
	assert.Error(t, err)
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	dir := isolate(t)

	cfg := &app.Config{
		DBPath:          filepath.Join(dir, "serve.db"),
		DBDriver:        database.DriverMattn,
		Port:            "0",
		RateLimit:       10,
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: 2 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
