package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/slotmachine-go/internal/api"
	"github.com/mcoot/slotmachine-go/internal/cli"
	"github.com/mcoot/slotmachine-go/internal/factory"
	"github.com/mcoot/slotmachine-go/internal/model"
	"github.com/mcoot/slotmachine-go/internal/testutil"
)

// cliRunner executes slotctl commands in-process against a test server
type cliRunner struct {
	serverURL string
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(fullArgs)
	err := cmd.Execute()
	return out.String(), err
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// startTestServer serves the API over a test app whose clock starts at
// 2024-01-01 12:00 UTC
func startTestServer(t *testing.T) (*cliRunner, *factory.TestApp) {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Metrics:   app.Metrics,
		Registry:  app.Registry,
		Cooldown:  app.Cooldown,
		Recorder:  app.Recorder,
		Reporting: app.Reporting,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &cliRunner{serverURL: srv.URL}, app
}

func TestCLI_HealthCheck(t *testing.T) {
	runner, _ := startTestServer(t)

	output, err := runner.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decode[cli.HealthResult](t, output)
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	runner, _ := startTestServer(t)

	output, err := runner.run("player", "register",
		"--student-number", "C2002", "--first-name", "Ben", "--last-name", "Ng")
	require.NoError(t, err, "output: %s", output)

	reg := decode[cli.RegisterResult](t, output)
	assert.Equal(t, "C2002", reg.Player.StudentNumber)
	assert.Equal(t, "Ben", reg.Player.FirstName)

	output, err = runner.run("player", "register",
		"--student-number", "C2002", "--first-name", "Ben", "--last-name", "Ng")
	require.Error(t, err)
	assert.Contains(t, output, "DUPLICATE_STUDENT")

	output, err = runner.run("player", "register",
		"--student-number", "X1", "--first-name", "Ben", "--last-name", "Ng")
	require.Error(t, err)
	assert.Contains(t, output, "INVALID_FORMAT")

	output, err = runner.run("player", "list")
	require.NoError(t, err, "output: %s", output)
	users := decode[cli.UsersResult](t, output)
	require.Len(t, users.Users, 1)
	assert.Equal(t, "C2002", users.Users[0].StudentNumber)

	output, err = runner.run("player", "validate", "C9999")
	require.NoError(t, err, "output: %s", output)
	v := decode[cli.Validation](t, output)
	assert.False(t, v.IsValid)
	assert.Equal(t, "Student number not found.", v.Message)
}

func TestCLI_SaveGameRequiresRegisteredPlayer(t *testing.T) {
	runner, _ := startTestServer(t)

	output, err := runner.run("game", "save",
		"--student-number", "C1001", "--result", "win", "--date-played", "2024-01-01T11:00:00Z")
	require.Error(t, err)
	assert.Contains(t, output, "PLAYER_NOT_FOUND")
}

func TestCLI_FullPlayFlow(t *testing.T) {
	runner, app := startTestServer(t)

	// Register
	output, err := runner.run("player", "register",
		"--student-number", "C1001", "--first-name", "Ana", "--last-name", "Lee")
	require.NoError(t, err, "output: %s", output)

	// Validate: never played, so allowed
	app.MockClock.Advance(time.Minute)
	output, err = runner.run("player", "validate", "C1001")
	require.NoError(t, err, "output: %s", output)
	v := decode[cli.Validation](t, output)
	assert.True(t, v.IsValid)
	assert.Equal(t, "Ana Lee", v.StudentName)

	// Record a win with two retries
	app.MockClock.Advance(time.Minute)
	output, err = runner.run("game", "save",
		"--student-number", "C1001", "--result", "win", "--retries", "2",
		"--date-played", "2024-01-01T12:02:00Z")
	require.NoError(t, err, "output: %s", output)
	saved := decode[cli.SaveGameResult](t, output)
	assert.Equal(t, "win", saved.Game.Result)
	assert.Equal(t, 2, saved.Game.RetryCount)

	// Games for the day include the win with the player's name
	output, err = runner.run("game", "list", "--start", "2024-01-01", "--end", "2024-01-01")
	require.NoError(t, err, "output: %s", output)
	games := decode[cli.GamesResult](t, output)
	require.Len(t, games.Games, 1)
	assert.Equal(t, "Ana Lee", games.Games[0].StudentName)

	output, err = runner.run("game", "winners", "--start", "2024-01-01", "--end", "2024-01-01")
	require.NoError(t, err, "output: %s", output)
	assert.Len(t, decode[cli.GamesResult](t, output).Games, 1)

	// Audit holds three entries, newest first
	output, err = runner.run("audit", "--start", "2024-01-01", "--end", "2024-01-01")
	require.NoError(t, err, "output: %s", output)
	audit := decode[cli.AuditResult](t, output)
	require.Len(t, audit.Logs, 3)
	assert.Equal(t, model.ActionGamePlayed, audit.Logs[0].Action)
	assert.Equal(t, model.ActionPlayerValidation, audit.Logs[1].Action)
	assert.Equal(t, model.ActionRegistration, audit.Logs[2].Action)

	// Playing again a minute later is blocked
	app.MockClock.Advance(time.Minute)
	output, err = runner.run("player", "validate", "C1001")
	require.NoError(t, err, "output: %s", output)
	v = decode[cli.Validation](t, output)
	assert.False(t, v.IsValid)
	assert.Equal(t, "You can play again in 2 hours and 59 minutes.", v.Message)

	// Recent players and stats
	output, err = runner.run("game", "recent")
	require.NoError(t, err, "output: %s", output)
	recent := decode[cli.RecentPlayersResult](t, output)
	require.Len(t, recent.Players, 1)
	assert.Equal(t, "C1001", recent.Players[0].StudentNumber)

	output, err = runner.run("stats")
	require.NoError(t, err, "output: %s", output)
	stats := decode[cli.Stats](t, output)
	assert.Equal(t, 1, stats.TotalPlayers)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.TotalWins)
	assert.Equal(t, 100.0, stats.WinRate)
}
