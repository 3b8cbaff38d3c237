package config

import (
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type MongoConfig struct {
	Uri         string   `mapstructure:"uri"`
	Address     []string `mapstructure:"address"`
	Database    string   `mapstructure:"database"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	AuthSource  string   `mapstructure:"auth_source"`
	MaxPoolSize int      `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type NatsConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type SecurityConfig struct {
	JwtSecret string `mapstructure:"jwt_secret"`
	CipherKey string `mapstructure:"cipher_key"` // base64, 32 bytes decoded
}

type AppConfig struct {
	NodeID   int64          `mapstructure:"node_id"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Nats     NatsConfig     `mapstructure:"nats"`
	Security SecurityConfig `mapstructure:"security"`
}

var Global = AppConfig{
	NodeID: 1,
	HTTP:   HTTPConfig{Port: 8080},
}

// Load 读取 yaml 配置并覆盖默认值。节不存在时保留默认。
func Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &Global,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if err := dec.Decode(m); err != nil {
		return errors.Wrapf(err, "decode config %s", path)
	}
	return nil
}
