package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Minio    MinioConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
	Public   PublicConfig   `yaml:"public"`
	Renderer RendererConfig `yaml:"renderer"`
	Mail     MailConfig     `yaml:"mail"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type MongoConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// PublicConfig holds the externally visible origin used to build absolute
// signing URLs handed to customers.
type PublicConfig struct {
	AppOrigin string `yaml:"app_origin"`
}

// RendererConfig controls headless-browser PDF rasterization.
type RendererConfig struct {
	PageFormat     string `yaml:"page_format"`
	MarginTop      string `yaml:"margin_top"`
	MarginBottom   string `yaml:"margin_bottom"`
	MarginLeft     string `yaml:"margin_left"`
	MarginRight    string `yaml:"margin_right"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type UploadsConfig struct {
	Dir         string `yaml:"dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Secrets may come from the environment instead of the file
	applyEnvOverrides(&cfg)

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5100
	}
	if cfg.Mongo.URL == "" {
		cfg.Mongo.URL = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "objektai"
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Public.AppOrigin == "" {
		cfg.Public.AppOrigin = "http://localhost:5100"
	}
	if cfg.Renderer.PageFormat == "" {
		cfg.Renderer.PageFormat = "A4"
	}
	if cfg.Renderer.MarginTop == "" {
		cfg.Renderer.MarginTop = "20mm"
	}
	if cfg.Renderer.MarginBottom == "" {
		cfg.Renderer.MarginBottom = "20mm"
	}
	if cfg.Renderer.MarginLeft == "" {
		cfg.Renderer.MarginLeft = "15mm"
	}
	if cfg.Renderer.MarginRight == "" {
		cfg.Renderer.MarginRight = "15mm"
	}
	if cfg.Renderer.TimeoutSeconds == 0 {
		cfg.Renderer.TimeoutSeconds = 30
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "./public/uploads"
	}
	if cfg.Uploads.MaxUploadMB == 0 {
		cfg.Uploads.MaxUploadMB = 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MONGO_URL"); v != "" {
		cfg.Mongo.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("MAIL_PASSWORD"); v != "" {
		cfg.Mail.Password = v
	}
	if v := os.Getenv("PUBLIC_APP_ORIGIN"); v != "" {
		cfg.Public.AppOrigin = v
	}
}
