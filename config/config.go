package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver string // postgres | sqlite
		DSN    string
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
	}
	Lobby struct {
		RoomTTL int // seconds
	}
	Bot struct {
		MinDelayMs int
		MaxDelayMs int
	}
}

var C Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:vibejo.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("lobby.roomttl", 3600)
	v.SetDefault("bot.mindelayms", 100)
	v.SetDefault("bot.maxdelayms", 300)
}

// Load 读取配置文件（可缺省），环境变量 VIBEJO_* 覆盖文件，.env 先行载入
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("VIBEJO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			// 指定路径时缺文件返回的是底层文件错误
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if c.Bot.MinDelayMs > c.Bot.MaxDelayMs {
		return nil, fmt.Errorf("bot delay: min %d > max %d", c.Bot.MinDelayMs, c.Bot.MaxDelayMs)
	}
	C = c
	return &c, nil
}
