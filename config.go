package main

import (
	"github.com/spf13/viper"
)

// Config is loaded from the environment, with an optional local .env file.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	DBDSN         string `mapstructure:"DB_DSN"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	StorageBase string `mapstructure:"STORAGE_BASE"`
	LogDir      string `mapstructure:"LOG_DIR"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

// LoadConfig reads configuration from env vars, falling back to a .env file
// in path when present.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8081")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("STORAGE_BASE", "storage")
	viper.SetDefault("LOG_DIR", "logs")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// The .env file is optional; env vars alone are fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
