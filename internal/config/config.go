package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server ServerConfig
	Room   RoomConfig
	Exec   ExecConfig
	CORS   CORSConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	room, err := loadRoomConfig()
	if err != nil {
		return nil, err
	}

	execCfg, err := loadExecConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Room:   room,
		Exec:   execCfg,
		CORS:   loadCORSConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// Accept ":3001" or "127.0.0.1:3001" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// RoomConfig describes room lifecycle settings.
type RoomConfig struct {
	// CleanupDelay is how long an empty room survives before it is
	// reclaimed. Emptiness is re-checked when the timer fires, so a
	// rejoin in the meantime keeps the room alive.
	CleanupDelay time.Duration
}

func loadRoomConfig() (RoomConfig, error) {
	seconds, err := parseOptionalIntEnv("ROOM_CLEANUP_DELAY_SECONDS")
	if err != nil {
		return RoomConfig{}, err
	}

	delay := 5 * time.Minute
	if seconds != nil {
		if *seconds < 1 {
			return RoomConfig{}, fmt.Errorf("ROOM_CLEANUP_DELAY_SECONDS must be positive, got %d", *seconds)
		}
		delay = time.Duration(*seconds) * time.Second
	}

	return RoomConfig{CleanupDelay: delay}, nil
}

// ExecConfig describes the code execution collaborator.
type ExecConfig struct {
	Timeout   time.Duration
	NodeBin   string
	PythonBin string
}

func loadExecConfig() (ExecConfig, error) {
	seconds, err := parseOptionalIntEnv("EXEC_TIMEOUT_SECONDS")
	if err != nil {
		return ExecConfig{}, err
	}

	timeout := 10 * time.Second
	if seconds != nil {
		if *seconds < 1 {
			return ExecConfig{}, fmt.Errorf("EXEC_TIMEOUT_SECONDS must be positive, got %d", *seconds)
		}
		timeout = time.Duration(*seconds) * time.Second
	}

	return ExecConfig{
		Timeout:   timeout,
		NodeBin:   getEnvOrDefault("EXEC_NODE_BIN", "node"),
		PythonBin: getEnvOrDefault("EXEC_PYTHON_BIN", "python3"),
	}, nil
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

func loadCORSConfig() CORSConfig {
	raw := getEnvOrDefault("CORS_ALLOW", "http://localhost:5173")

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	return CORSConfig{AllowedOrigins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
