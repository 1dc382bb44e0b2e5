// internal/workers/catalog/search-catalog/config.go
package searchcatalog

import "time"

type Config struct {
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    5 * time.Second,
		MaxResults: 50,
	}
}
