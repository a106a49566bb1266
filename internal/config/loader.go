package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/baseco/devstack/pkg/logging"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/devstack"
	projectConfigDir = ".devstack"
	configFileName   = "config.yaml"

	envFileName     = ".env"
	envTemplateName = ".env.example"
)

// LoadConfig loads the devstack configuration by layering default, user, and
// project settings.
func LoadConfig() (DevstackConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; don't fail.
		logging.Warn("Config", "Could not determine user config path: %v", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return DevstackConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine project config path: %v", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return DevstackConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

// LoadEnvironment resolves the dotenv layer. It loads .env if present, else
// .env.example (with a warning), then lets envconfig fill the struct from
// the process environment and struct tag defaults. godotenv never overrides
// variables already present in the environment, so real environment
// variables win over file values.
func LoadEnvironment() (Environment, error) {
	var env Environment

	wd, err := osGetwd()
	if err != nil {
		return Environment{}, fmt.Errorf("could not determine working directory: %w", err)
	}

	envPath := filepath.Join(wd, envFileName)
	templatePath := filepath.Join(wd, envTemplateName)

	switch {
	case fileExists(envPath):
		if err := godotenv.Load(envPath); err != nil {
			return Environment{}, fmt.Errorf("error loading %s: %w", envPath, err)
		}
		env.Source = envFileName
	case fileExists(templatePath):
		logging.Warn("Config", "%s not found, falling back to %s", envFileName, envTemplateName)
		if err := godotenv.Load(templatePath); err != nil {
			return Environment{}, fmt.Errorf("error loading %s: %w", templatePath, err)
		}
		env.Source = envTemplateName
	default:
		logging.Warn("Config", "neither %s nor %s found, using built-in defaults", envFileName, envTemplateName)
	}

	if err := envconfig.Process("", &env); err != nil {
		return Environment{}, fmt.Errorf("error processing environment: %w", err)
	}

	return env, nil
}

// ExpandCommand substitutes ${PORT}, ${FRONTEND_PORT}, ${HOST} and
// ${OLLAMA_BASE_URL} placeholders in a role command argv.
func ExpandCommand(command []string, env Environment) []string {
	vars := map[string]string{
		"PORT":            fmt.Sprintf("%d", env.BackendPort),
		"FRONTEND_PORT":   fmt.Sprintf("%d", env.FrontendPort),
		"HOST":            env.Host,
		"OLLAMA_BASE_URL": env.OllamaBaseURL,
	}

	expanded := make([]string, len(command))
	for i, arg := range command {
		expanded[i] = os.Expand(arg, func(name string) string {
			if v, ok := vars[name]; ok {
				return v
			}
			return os.Getenv(name)
		})
	}
	return expanded
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a DevstackConfig from a YAML file.
func loadConfigFromFile(filePath string) (DevstackConfig, error) {
	var config DevstackConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return DevstackConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return DevstackConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Roles are merged
// by name: an overlay role replaces the base role with the same name, other
// overlay roles are appended.
func mergeConfigs(base, overlay DevstackConfig) DevstackConfig {
	merged := base

	if overlay.Settings.SessionPrefix != "" {
		merged.Settings.SessionPrefix = overlay.Settings.SessionPrefix
	}
	if overlay.Settings.LogDir != "" {
		merged.Settings.LogDir = overlay.Settings.LogDir
	}
	if overlay.Settings.CheckInference != nil {
		merged.Settings.CheckInference = overlay.Settings.CheckInference
	}

	for _, overlayRole := range overlay.Roles {
		replaced := false
		for i, baseRole := range merged.Roles {
			if baseRole.Name == overlayRole.Name {
				merged.Roles[i] = overlayRole
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Roles = append(merged.Roles, overlayRole)
		}
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
