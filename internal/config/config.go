package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config aggregates everything the terminal client needs.
type Config struct {
	Backend BackendConfig
	Local   LocalConfig
}

// BackendConfig points at the remote TARS backend.
type BackendConfig struct {
	// APIURL is the REST base, e.g. http://localhost:8000.
	APIURL string
	// WSURL is the chat socket endpoint. Derived from APIURL when unset.
	WSURL string
	// StreamReplies asks the backend for chunked replies over the socket.
	StreamReplies bool
}

// LocalConfig covers on-disk paths.
type LocalConfig struct {
	// StatePath is the persisted sessions/settings JSON file.
	StatePath string
	// LogPath receives structured logs; the terminal owns stdout.
	LogPath string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	local, err := loadLocalConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Backend: backend, Local: local}, nil
}

func loadBackendConfig() (BackendConfig, error) {
	apiURL := getEnvOrDefault("TARS_API_URL", "http://localhost:8000")

	wsURL := strings.TrimSpace(os.Getenv("TARS_WS_URL"))
	if wsURL == "" {
		derived, err := deriveWSURL(apiURL)
		if err != nil {
			return BackendConfig{}, err
		}
		wsURL = derived
	}

	stream, err := parseBoolEnv("TARS_STREAM", true)
	if err != nil {
		return BackendConfig{}, err
	}

	return BackendConfig{APIURL: apiURL, WSURL: wsURL, StreamReplies: stream}, nil
}

// deriveWSURL turns the REST base into the socket endpoint:
// http://host -> ws://host/api/ws/chat.
func deriveWSURL(apiURL string) (string, error) {
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid TARS_API_URL %q: %w", apiURL, err)
	}

	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid TARS_API_URL scheme %q", parsed.Scheme)
	}
	parsed.Path = "/api/ws/chat"
	return parsed.String(), nil
}

func loadLocalConfig() (LocalConfig, error) {
	statePath := strings.TrimSpace(os.Getenv("TARS_STATE_FILE"))
	logPath := strings.TrimSpace(os.Getenv("TARS_LOG_FILE"))

	if statePath == "" || logPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return LocalConfig{}, fmt.Errorf("resolve home dir: %w", err)
		}
		base := filepath.Join(home, ".tarsterm")
		if statePath == "" {
			statePath = filepath.Join(base, "state.json")
		}
		if logPath == "" {
			logPath = filepath.Join(base, "tarsterm.log")
		}
	}

	return LocalConfig{StatePath: statePath, LogPath: logPath}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// ServerConfig describes the mock backend's listen address.
type ServerConfig struct {
	Addr string
}

// LoadServer parses the mock backend's listen address from PORT.
func LoadServer() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Allow ":8000" or "127.0.0.1:8000" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}
