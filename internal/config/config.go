package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all service configuration. It is built once at startup and
// passed explicitly into constructors; nothing reads ambient global state.
type Config struct {
	AppPort  string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool

	// OverlayName keys the overlay document, the mask and the background
	// image; it is the background image's base name.
	OverlayName string
	ImageWidth  int
	ImageHeight int
	ViewWidth   int
	ViewHeight  int

	// DataDir is where the capture pipeline writes live variable files.
	DataDir string

	MaxImageUploadBytes int64
}

// Load reads configuration from overlay-service.cfg.json in configDir,
// falling back to defaults for anything not set. A missing config file is
// not an error; the defaults describe a standard appliance install.
func Load(configDir string) (*Config, error) {
	viper.SetDefault("appPort", "8080")
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("db.host", "")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "overlay")
	viper.SetDefault("db.sqlitePath", "./overlay.db")

	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.accessKey", "")
	viper.SetDefault("minio.secretKey", "")
	viper.SetDefault("minio.bucket", "overlay")
	viper.SetDefault("minio.ssl", false)

	viper.SetDefault("editor.overlayName", "overlay1")
	viper.SetDefault("editor.imageWidth", 1920)
	viper.SetDefault("editor.imageHeight", 1080)
	viper.SetDefault("editor.viewWidth", 1280)
	viper.SetDefault("editor.viewHeight", 720)
	viper.SetDefault("editor.dataDir", "./extradata")
	viper.SetDefault("editor.maxImageUploadBytes", 10*1024*1024)

	viper.SetConfigName("overlay-service.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	cfg := &Config{
		AppPort:  viper.GetString("appPort"),
		LogLevel: viper.GetString("logLevel"),

		DBHost:     viper.GetString("db.host"),
		DBPort:     viper.GetString("db.port"),
		DBUser:     viper.GetString("db.username"),
		DBPassword: viper.GetString("db.password"),
		DBName:     viper.GetString("db.database"),
		SQLitePath: viper.GetString("db.sqlitePath"),

		MinioEndpoint:  viper.GetString("minio.endpoint"),
		MinioAccessKey: viper.GetString("minio.accessKey"),
		MinioSecretKey: viper.GetString("minio.secretKey"),
		MinioBucket:    viper.GetString("minio.bucket"),
		MinioSSL:       viper.GetBool("minio.ssl"),

		OverlayName: viper.GetString("editor.overlayName"),
		ImageWidth:  viper.GetInt("editor.imageWidth"),
		ImageHeight: viper.GetInt("editor.imageHeight"),
		ViewWidth:   viper.GetInt("editor.viewWidth"),
		ViewHeight:  viper.GetInt("editor.viewHeight"),

		DataDir: viper.GetString("editor.dataDir"),

		MaxImageUploadBytes: viper.GetInt64("editor.maxImageUploadBytes"),
	}
	if cfg.ImageWidth <= 0 || cfg.ImageHeight <= 0 {
		return nil, fmt.Errorf("invalid background image dimensions %dx%d", cfg.ImageWidth, cfg.ImageHeight)
	}
	return cfg, nil
}
