// Package config provides configuration management for devstack.
//
// Two independent layers are loaded at startup:
//
// # Tool configuration (YAML)
//
// Describes how devstack itself behaves: session names, role commands,
// known-process signatures, the log directory. Loaded and merged in order,
// later sources overriding earlier ones:
//
//  1. Default Configuration (embedded in binary)
//     - A Python ASGI backend plus a Vite frontend, matching the standard
//       project layout
//
//  2. User Configuration (~/.config/devstack/config.yaml)
//     - Personal overrides that apply to all projects
//
//  3. Project Configuration (./.devstack/config.yaml)
//     - Project-specific settings, shareable via version control
//
// Example project configuration:
//
//	settings:
//	  sessionPrefix: "myapp"
//	  logDir: ".devstack/logs"
//	roles:
//	  - name: backend
//	    command: ["uvicorn", "myapp.main:app", "--host", "${HOST}", "--port", "${PORT}"]
//	    dir: "backend"
//	    knownProcesses: ["uvicorn", "myapp"]
//	    prereqDir: "backend/.venv"
//
// # Environment (dotenv)
//
// The handful of variables shared with the dev servers themselves: backend
// port (PORT), frontend port (FRONTEND_PORT), bind host (HOST) and the
// inference runtime URL (OLLAMA_BASE_URL). Resolution order is process
// environment, then .env, then .env.example, then built-in defaults.
//
// Role commands may reference these variables as ${PORT} style placeholders;
// ExpandCommand performs the substitution after the environment is resolved.
package config
