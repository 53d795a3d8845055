package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DBConfig holds the MySQL connection settings on their own, for tools
// that do not need the rest of the server configuration.
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// LoadDBConfig reads DB_* variables, loading .env first when present.
func LoadDBConfig() DBConfig {
	_ = godotenv.Load()
	return DBConfig{
		User: envStr("DB_USER", "root"),
		Pass: os.Getenv("DB_PASS"),
		Host: os.Getenv("DB_HOST"),
		Port: envStr("DB_PORT", "3306"),
		Name: envStr("DB_NAME", "seatpicker"),
	}
}

// Enabled reports whether a MySQL host has been configured.
func (c DBConfig) Enabled() bool { return c.Host != "" }
