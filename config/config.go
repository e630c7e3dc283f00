package config

import "time"

type Config struct {
	Web  Web
	DB   DB
	Auth Auth
	Cors Cors
	Rate Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:coursehub"`
	Schema       string `conf:"default:public"`
	MaxIdleConns int    `conf:"default:3"`
	MaxOpenConns int    `conf:"default:25"`
	DisableTLS   bool   `conf:"default:true"`
	Migrate      bool   `conf:"default:true"`
}

type Auth struct {
	// JWTSecret signs the bearer tokens issued at login.
	JWTSecret string        `conf:"required,mask"`
	TokenTTL  time.Duration `conf:"default:168h"`
	// Enforce turns the access policy on. With it off every route is open.
	Enforce bool `conf:"default:true"`
	// AdminKey, when set, must be sent as X-Admin-Key to create admins.
	AdminKey string `conf:"mask"`
}

type Cors struct {
	Origin string
}

type Rate struct {
	Burst  int           `conf:"default:10"`
	Every  time.Duration `conf:"default:1s"`
	Expiry time.Duration `conf:"default:10m"`
}
