package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the minimal JSON-file configuration this entry point needs to
// wire a Session to a transport/ws.Client. spec.md §1 names JSON
// configuration loading as an external collaborator, so this stays
// deliberately thin: just enough fields to dial and authenticate, nothing
// about the surrounding application's transport-network graph.
type Config struct {
	Host         string   `json:"host"`
	Port         int      `json:"port"`
	Endpoint     string   `json:"endpoint"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	CACertFile   string   `json:"caCertFile"`
	Destinations []string `json:"destinations"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}
