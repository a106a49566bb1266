package config

// GetDefaultConfig returns the built-in configuration: a Python ASGI backend
// and a Vite frontend, matching the layout this tool grew up with. User and
// project config files overlay these values.
func GetDefaultConfig() DevstackConfig {
	return DevstackConfig{
		Settings: GlobalSettings{
			SessionPrefix: "devstack",
			LogDir:        ".devstack/logs",
		},
		Roles: []RoleDefinition{
			{
				Name: RoleBackend,
				Command: []string{
					"uvicorn", "open_webui.main:app",
					"--host", "${HOST}",
					"--port", "${PORT}",
					"--reload",
				},
				Dir:            "backend",
				KnownProcesses: []string{"uvicorn", "open_webui"},
				HealthPath:     "/health",
				PrereqDir:      "backend/.venv",
				PrereqHint:     "run 'cd backend && python -m venv .venv && .venv/bin/pip install -r requirements.txt' first",
			},
			{
				Name: RoleFrontend,
				Command: []string{
					"npm", "run", "dev", "--",
					"--host",
					"--port", "${FRONTEND_PORT}",
				},
				Dir:            ".",
				KnownProcesses: []string{"vite", "npm run dev", "node"},
				HealthPath:     "/",
				PrereqDir:      "node_modules",
				PrereqHint:     "run 'npm install' first",
			},
		},
	}
}
