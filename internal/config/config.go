package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr    string
	GinMode       string
	LogLevel      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	UploadDir     string
	PublicBaseURL string
}

// Load reads configuration from the environment with the YALLA_ prefix,
// falling back to development defaults.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("YALLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "3306")
	v.SetDefault("db.user", "yalla")
	v.SetDefault("db.password", "yalla")
	v.SetDefault("db.name", "yalla")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("public.base.url", "http://localhost:8080")

	return &Config{
		ServerAddr:    v.GetString("server.addr"),
		GinMode:       v.GetString("gin.mode"),
		LogLevel:      v.GetString("log.level"),
		DBHost:        v.GetString("db.host"),
		DBPort:        v.GetString("db.port"),
		DBUser:        v.GetString("db.user"),
		DBPassword:    v.GetString("db.password"),
		DBName:        v.GetString("db.name"),
		UploadDir:     v.GetString("upload.dir"),
		PublicBaseURL: v.GetString("public.base.url"),
	}
}
