package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Session SessionConfig
	Gemini  GeminiConfig
}

type ServerConfig struct {
	Address string
	Mode    string // debug 或 release
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type SessionConfig struct {
	Secret string // cookie session 的簽章金鑰
}

type GeminiConfig struct {
	APIKey string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 敏感設定可用環境變數覆蓋（GEMINI_APIKEY、SESSION_SECRET）
	viper.SetEnvPrefix("")
	viper.AutomaticEnv()
	_ = viper.BindEnv("gemini.apikey", "GEMINI_API_KEY")
	_ = viper.BindEnv("session.secret", "SESSION_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
