package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort          string `mapstructure:"SERVER_PORT"`
	IsLocalCors         bool   `mapstructure:"LOCAL_CORS"`
	DefaultDifficulty   string `mapstructure:"DEFAULT_DIFFICULTY"`
	SelfplayMoveDelayMs int    `mapstructure:"SELFPLAY_MOVE_DELAY_MS"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOCAL_CORS", true)
	viper.SetDefault("DEFAULT_DIFFICULTY", "beginner")
	viper.SetDefault("SELFPLAY_MOVE_DELAY_MS", 400)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
