// internal/workers/templates/generate-quality-report/config.go
package generatequalityreport

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
