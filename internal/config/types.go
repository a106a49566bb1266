package config

// Role names are fixed: the tool manages exactly one backend and one
// frontend dev server. Everything else about a role is configurable.
const (
	RoleBackend  = "backend"
	RoleFrontend = "frontend"
)

// DevstackConfig is the top-level configuration structure for devstack.
// It is assembled from built-in defaults overlaid with the user config
// (~/.config/devstack/config.yaml) and the project config
// (./.devstack/config.yaml). The environment layer (ports, host) is loaded
// separately from dotenv files, see LoadEnvironment.
type DevstackConfig struct {
	Settings GlobalSettings   `yaml:"settings"`
	Roles    []RoleDefinition `yaml:"roles"`
}

// GlobalSettings holds settings that apply to the whole environment rather
// than a single role.
type GlobalSettings struct {
	SessionPrefix string `yaml:"sessionPrefix,omitempty"` // tmux session name prefix, e.g. "devstack"
	LogDir        string `yaml:"logDir,omitempty"`        // directory for per-role log files
	// CheckInference controls the advisory probe against the local inference
	// runtime (Ollama). Nil means enabled.
	CheckInference *bool `yaml:"checkInference,omitempty"`
}

// InferenceCheckEnabled reports whether the inference advisory probe should run.
func (g GlobalSettings) InferenceCheckEnabled() bool {
	return g.CheckInference == nil || *g.CheckInference
}

// RoleDefinition describes how to run and recognize one dev server role.
type RoleDefinition struct {
	Name    string   `yaml:"name"`              // "backend" or "frontend"
	Session string   `yaml:"session,omitempty"` // session name override (default: <prefix>-<name>)
	Command []string `yaml:"command"`           // argv, may reference ${PORT} etc.
	Dir     string   `yaml:"dir,omitempty"`     // working directory relative to the project root
	LogFile string   `yaml:"logFile,omitempty"` // log file name inside LogDir (default: <name>.log)

	// KnownProcesses is the allow-list of command line fragments that identify
	// this role's own server process. Only processes matching one of these
	// fragments are ever terminated when reclaiming the role's port.
	KnownProcesses []string `yaml:"knownProcesses,omitempty"`

	HealthPath string `yaml:"healthPath,omitempty"` // HTTP path probed for health (default: "/")

	// PrereqDir must exist before the role can start (e.g. the backend
	// virtualenv or the frontend node_modules). PrereqHint is printed as
	// remediation when it is missing.
	PrereqDir  string `yaml:"prereqDir,omitempty"`
	PrereqHint string `yaml:"prereqHint,omitempty"`
}

// SessionName returns the tmux session name for the role.
func (r RoleDefinition) SessionName(prefix string) string {
	if r.Session != "" {
		return r.Session
	}
	return prefix + "-" + r.Name
}

// LogFileName returns the log file name for the role.
func (r RoleDefinition) LogFileName() string {
	if r.LogFile != "" {
		return r.LogFile
	}
	return r.Name + ".log"
}

// Role returns the definition for the named role, if present.
func (c DevstackConfig) Role(name string) (RoleDefinition, bool) {
	for _, r := range c.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return RoleDefinition{}, false
}

// Environment is the dotenv-backed layer: the handful of variables the dev
// servers and their proxy wiring agree on. Values come from the process
// environment first, then from .env (or .env.example as a fallback), then
// from the struct tag defaults.
type Environment struct {
	BackendPort   int    `envconfig:"PORT" default:"8080"`
	FrontendPort  int    `envconfig:"FRONTEND_PORT" default:"5173"`
	Host          string `envconfig:"HOST" default:"127.0.0.1"`
	OllamaBaseURL string `envconfig:"OLLAMA_BASE_URL" default:"http://127.0.0.1:11434"`

	// Source records which dotenv file supplied values: ".env",
	// ".env.example", or "" when only defaults and the process environment
	// were used.
	Source string `ignored:"true"`
}

// PortFor returns the configured listen port for a role.
func (e Environment) PortFor(role string) int {
	if role == RoleFrontend {
		return e.FrontendPort
	}
	return e.BackendPort
}
