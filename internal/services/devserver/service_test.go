package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseco/devstack/internal/config"
	"github.com/baseco/devstack/internal/services"
	"github.com/baseco/devstack/internal/session"
)

func testRole() config.RoleDefinition {
	return config.RoleDefinition{
		Name:       config.RoleBackend,
		Command:    []string{"uvicorn", "app:app", "--port", "${PORT}"},
		Dir:        "backend",
		HealthPath: "/health",
	}
}

func testSettings(t *testing.T) config.GlobalSettings {
	return config.GlobalSettings{
		SessionPrefix: "devstack",
		LogDir:        filepath.Join(t.TempDir(), "logs"),
	}
}

func testEnv() config.Environment {
	return config.Environment{
		BackendPort:  8080,
		FrontendPort: 5173,
		Host:         "127.0.0.1",
	}
}

func TestStartCreatesSessionWithExpandedCommand(t *testing.T) {
	fake := session.NewFakeRegistry()
	settings := testSettings(t)
	svc := New(testRole(), settings, testEnv(), fake)

	require.NoError(t, svc.Start(context.Background()))

	assert.Equal(t, services.StateRunning, svc.GetState())

	created, ok := fake.Session("devstack-backend")
	require.True(t, ok)
	assert.Equal(t, []string{"uvicorn", "app:app", "--port", "8080"}, created.Command)
	assert.Equal(t, "backend", created.Dir)
	assert.Equal(t, filepath.Join(settings.LogDir, "backend.log"), created.LogPath)

	// The log file exists and is empty (fresh run).
	info, err := os.Stat(svc.LogPath())
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestStartTruncatesPreviousLog(t *testing.T) {
	fake := session.NewFakeRegistry()
	settings := testSettings(t)
	svc := New(testRole(), settings, testEnv(), fake)

	require.NoError(t, os.MkdirAll(settings.LogDir, 0755))
	stale := filepath.Join(settings.LogDir, "backend.log")
	require.NoError(t, os.WriteFile(stale, []byte("old run output\n"), 0644))

	require.NoError(t, svc.Start(context.Background()))

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestStopTerminatesSessionAndIsIdempotent(t *testing.T) {
	fake := session.NewFakeRegistry()
	svc := New(testRole(), testSettings(t), testEnv(), fake)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))
	assert.Equal(t, services.StateStopped, svc.GetState())
	assert.False(t, fake.Exists(context.Background(), "devstack-backend"))

	// Second stop: nothing to do, no error.
	require.NoError(t, svc.Stop(context.Background()))
}

func TestRestartRecreatesSession(t *testing.T) {
	fake := session.NewFakeRegistry()
	svc := New(testRole(), testSettings(t), testEnv(), fake)

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Restart(context.Background()))

	assert.Equal(t, services.StateRunning, svc.GetState())
	assert.True(t, fake.Exists(context.Background(), "devstack-backend"))
	assert.Equal(t, 1, fake.Count())
}

func TestCheckHealthSessionGone(t *testing.T) {
	fake := session.NewFakeRegistry()
	svc := New(testRole(), testSettings(t), testEnv(), fake)

	health, err := svc.CheckHealth(context.Background())
	assert.Error(t, err)
	assert.Equal(t, services.HealthUnhealthy, health)
	assert.Equal(t, services.StateFailed, svc.GetState())
}

func TestCheckHealthAgainstListener(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	fake := session.NewFakeRegistry()
	env := testEnv()
	env.BackendPort = port
	env.Host = u.Hostname()
	svc := New(testRole(), testSettings(t), env, fake)

	require.NoError(t, svc.Start(context.Background()))

	health, err := svc.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.HealthHealthy, health)
}

func TestCheckHealthNoListenerIsChecking(t *testing.T) {
	fake := session.NewFakeRegistry()
	env := testEnv()
	env.BackendPort = 1 // nothing listens here
	svc := New(testRole(), testSettings(t), env, fake)

	require.NoError(t, svc.Start(context.Background()))

	health, err := svc.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.HealthChecking, health)
}

func TestURLReportsLoopbackForWildcardBind(t *testing.T) {
	env := testEnv()
	env.Host = "0.0.0.0"
	svc := New(testRole(), testSettings(t), env, session.NewFakeRegistry())
	assert.Equal(t, "http://127.0.0.1:8080", svc.URL())
}
