package configuration

import (
	"log"
	"os"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

// AppConfig holds the environment-selected configuration. It is resolved once
// at startup and never reloaded.
type AppConfig struct {
	Title      string `default:"Clinic Connect"`
	APIBaseURL string `yaml:"api_base_url" required:"true"`

	Razorpay struct {
		KeyID string `yaml:"key_id"`
	}

	Obfuscation struct {
		Prefix string `default:"ref"`
		Secret string `yaml:"secret" default:"clinicconnect"`
	}

	Server struct {
		Port string `default:":8080"`
		Cors []string
	}
}

var App AppConfig

// LoadConfig loads .env secrets, config.yml, and the per-environment
// override file (config.production.yml when APP_ENV=production).
func LoadConfig() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if err := configor.New(&configor.Config{Environment: env, ENVPrefix: "APP", Silent: true}).Load(&App, "config.yml"); err != nil {
		log.Fatal("Failed to load config.yml: ", err)
	}
}

// JWTKey returns the signing key shared with the backend. Tokens are issued
// upstream; this service only verifies them.
func JWTKey() []byte {
	return []byte(os.Getenv("JWT_KEY"))
}
