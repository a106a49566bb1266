package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, filename string, content DevstackConfig) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, filename)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

func pointToMissingConfigs(t *testing.T, tempDir string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})

	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-user-config.yaml"), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-project-config.yaml"), nil
	}
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	pointToMissingConfigs(t, tempDir)

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	defaults := GetDefaultConfig()
	assert.Equal(t, defaults.Settings.SessionPrefix, loadedConfig.Settings.SessionPrefix)
	assert.Equal(t, defaults.Settings.LogDir, loadedConfig.Settings.LogDir)
	assert.ElementsMatch(t, defaults.Roles, loadedConfig.Roles)

	backend, ok := loadedConfig.Role(RoleBackend)
	require.True(t, ok)
	assert.Contains(t, backend.KnownProcesses, "uvicorn")
}

func TestLoadConfig_ProjectOverride(t *testing.T) {
	tempDir := t.TempDir()
	pointToMissingConfigs(t, tempDir)

	projectDir := filepath.Join(tempDir, projectConfigDir)
	require.NoError(t, os.MkdirAll(projectDir, 0755))

	override := DevstackConfig{
		Settings: GlobalSettings{
			SessionPrefix: "myapp",
		},
		Roles: []RoleDefinition{
			{
				Name:           RoleBackend, // Override existing
				Command:        []string{"uvicorn", "myapp.main:app"},
				KnownProcesses: []string{"uvicorn", "myapp"},
			},
			{
				Name:    "worker", // Add new
				Command: []string{"celery", "worker"},
			},
		},
	}
	createTempConfigFile(t, projectDir, configFileName, override)

	getProjectConfigPath = func() (string, error) {
		return filepath.Join(projectDir, configFileName), nil
	}

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)

	// Overlay wins for settings it sets, defaults survive elsewhere.
	assert.Equal(t, "myapp", loadedConfig.Settings.SessionPrefix)
	assert.Equal(t, GetDefaultConfig().Settings.LogDir, loadedConfig.Settings.LogDir)

	backend, ok := loadedConfig.Role(RoleBackend)
	require.True(t, ok)
	assert.Equal(t, []string{"uvicorn", "myapp.main:app"}, backend.Command)

	_, ok = loadedConfig.Role("worker")
	assert.True(t, ok)

	// The untouched frontend role remains from defaults.
	frontend, ok := loadedConfig.Role(RoleFrontend)
	require.True(t, ok)
	assert.Contains(t, frontend.KnownProcesses, "vite")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	pointToMissingConfigs(t, tempDir)

	projectDir := filepath.Join(tempDir, projectConfigDir)
	require.NoError(t, os.MkdirAll(projectDir, 0755))
	badPath := filepath.Join(projectDir, configFileName)
	require.NoError(t, os.WriteFile(badPath, []byte("roles: [:::"), 0644))

	getProjectConfigPath = func() (string, error) { return badPath, nil }

	_, err := LoadConfig()
	assert.Error(t, err)
}

func withTempWorkingDir(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	originalOsGetwd := osGetwd
	t.Cleanup(func() { osGetwd = originalOsGetwd })
	osGetwd = func() (string, error) { return tempDir, nil }
	return tempDir
}

func clearDevEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PORT", "FRONTEND_PORT", "HOST", "OLLAMA_BASE_URL"} {
		// t.Setenv restores the original value on cleanup; setting then
		// unsetting leaves the variable absent for the test body.
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadEnvironment_Defaults(t *testing.T) {
	withTempWorkingDir(t)
	clearDevEnvVars(t)

	env, err := LoadEnvironment()
	require.NoError(t, err)

	assert.Equal(t, 8080, env.BackendPort)
	assert.Equal(t, 5173, env.FrontendPort)
	assert.Equal(t, "127.0.0.1", env.Host)
	assert.Equal(t, "http://127.0.0.1:11434", env.OllamaBaseURL)
	assert.Empty(t, env.Source)
}

func TestLoadEnvironment_DotenvFile(t *testing.T) {
	tempDir := withTempWorkingDir(t)
	clearDevEnvVars(t)

	content := "PORT=9090\nFRONTEND_PORT=3000\nHOST=0.0.0.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, envFileName), []byte(content), 0644))

	env, err := LoadEnvironment()
	require.NoError(t, err)

	assert.Equal(t, 9090, env.BackendPort)
	assert.Equal(t, 3000, env.FrontendPort)
	assert.Equal(t, "0.0.0.0", env.Host)
	assert.Equal(t, envFileName, env.Source)
}

func TestLoadEnvironment_TemplateFallback(t *testing.T) {
	tempDir := withTempWorkingDir(t)
	clearDevEnvVars(t)

	content := "PORT=8888\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, envTemplateName), []byte(content), 0644))

	env, err := LoadEnvironment()
	require.NoError(t, err)

	assert.Equal(t, 8888, env.BackendPort)
	assert.Equal(t, envTemplateName, env.Source)
	// Variables the template does not set fall back to defaults.
	assert.Equal(t, 5173, env.FrontendPort)
}

func TestLoadEnvironment_ProcessEnvWinsOverFile(t *testing.T) {
	tempDir := withTempWorkingDir(t)
	clearDevEnvVars(t)

	content := "PORT=9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, envFileName), []byte(content), 0644))
	t.Setenv("PORT", "7070")

	env, err := LoadEnvironment()
	require.NoError(t, err)

	assert.Equal(t, 7070, env.BackendPort)
}

func TestExpandCommand(t *testing.T) {
	env := Environment{
		BackendPort:  8080,
		FrontendPort: 5173,
		Host:         "127.0.0.1",
	}

	command := []string{"uvicorn", "app:app", "--host", "${HOST}", "--port", "${PORT}"}
	expanded := ExpandCommand(command, env)

	assert.Equal(t, []string{"uvicorn", "app:app", "--host", "127.0.0.1", "--port", "8080"}, expanded)
}

func TestEnvironmentPortFor(t *testing.T) {
	env := Environment{BackendPort: 8080, FrontendPort: 5173}
	assert.Equal(t, 8080, env.PortFor(RoleBackend))
	assert.Equal(t, 5173, env.PortFor(RoleFrontend))
}

func TestRoleDefinitionNames(t *testing.T) {
	r := RoleDefinition{Name: "backend"}
	assert.Equal(t, "devstack-backend", r.SessionName("devstack"))
	assert.Equal(t, "backend.log", r.LogFileName())

	r.Session = "custom"
	r.LogFile = "b.log"
	assert.Equal(t, "custom", r.SessionName("devstack"))
	assert.Equal(t, "b.log", r.LogFileName())
}
