package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProfileConfig is the per-user CLI configuration stored under ~/.ragpipe.
type ProfileConfig struct {
	StoragePath string       `json:"storage_path"`
	DataDir     string       `json:"data_dir"`
	Server      ServerConfig `json:"server"`
	Chunking    ChunkConfig  `json:"chunking"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type ChunkConfig struct {
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
	SplitterType string `json:"splitter_type"`
}

func DefaultProfile() *ProfileConfig {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".ragpipe", "data")

	return &ProfileConfig{
		StoragePath: filepath.Join(dataDir, "ragpipe.db"),
		DataDir:     dataDir,
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Chunking: ChunkConfig{
			ChunkSize:    512,
			ChunkOverlap: 100,
			SplitterType: "token",
		},
	}
}

func GetProfileConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".ragpipe")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

func LoadProfile() (*ProfileConfig, error) {
	configPath, err := GetProfileConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultProfile()
		if err := config.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ProfileConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.ensureDirectories(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (p *ProfileConfig) Save() error {
	configPath, err := GetProfileConfigPath()
	if err != nil {
		return err
	}

	if err := p.ensureDirectories(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (p *ProfileConfig) ensureDirectories() error {
	if p.DataDir != "" {
		if err := os.MkdirAll(p.DataDir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if p.StoragePath != "" {
		storageDir := filepath.Dir(p.StoragePath)
		if err := os.MkdirAll(storageDir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return nil
}

// ToConfig maps the profile onto the server configuration shape.
func (p *ProfileConfig) ToConfig() *Config {
	config := Default()
	config.Database.Path = p.StoragePath
	config.Server.Host = p.Server.Host
	config.Server.Port = p.Server.Port
	config.Chunking.ChunkSize = p.Chunking.ChunkSize
	config.Chunking.ChunkOverlap = p.Chunking.ChunkOverlap
	config.Chunking.SplitterType = p.Chunking.SplitterType
	return config
}

func (p *ProfileConfig) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}
