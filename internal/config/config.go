package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

const DefaultSessionTTL = 24 * time.Hour

type Config struct {
	DatabaseDSN    string
	ServerAddr     string
	SigningKey     []byte
	AllowedOrigins []string
	// MediaDir holds uploaded avatars.
	MediaDir   string
	SessionTTL time.Duration
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("empty signing secret")
	}
	return key, nil
}

func NewConfig(serverAddr, databaseDSN, base64Secret string, allowedOrigins []string, mediaDir string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	if mediaDir == "" {
		return nil, fmt.Errorf("media directory cannot be empty")
	}

	// Decode the base64 encoded signing secret
	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		DatabaseDSN:    databaseDSN,
		ServerAddr:     serverAddr,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
		MediaDir:       mediaDir,
		SessionTTL:     DefaultSessionTTL,
	}, nil
}
