package domain

import "time"

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 24 * time.Hour

type Config struct {
	FQDN   string `yaml:"fqdn"`
	Secret string `yaml:"secret"`
}
