// Package config 提供守护进程自身的配置管理（路径、日志、指标），
// 与 pppd 选项本身无关。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 由环境变量 PPPD_CONFIG 指定 (YAML/TOML/JSON)
//  3. 环境变量 - PPPD_ 前缀，如 PPPD_PEERS_DIR
package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvFile 指定配置文件路径的环境变量
const EnvFile = "PPPD_CONFIG"

// Config 守护进程配置
type Config struct {
	ConfDir          string `mapstructure:"conf_dir" comment:"配置目录，未单独指定的路径由此派生"`
	SysOptions       string `mapstructure:"sys_options" comment:"系统选项文件，默认 <conf_dir>/options"`
	PeersDir         string `mapstructure:"peers_dir" comment:"call 选项使用的 peer 文件目录，默认 <conf_dir>/peers"`
	TTYOptionsPrefix string `mapstructure:"tty_options_prefix" comment:"tty 选项文件前缀，默认 <conf_dir>/options."`
	UserOptionsFile  string `mapstructure:"user_options_file" comment:"用户主目录下的选项文件名"`
	NoUserOptions    bool   `mapstructure:"no_user_options" comment:"不读取用户选项文件"`
	HomeDir          string `mapstructure:"home_dir" comment:"覆盖真实用户的主目录，留空则查询系统"`
	PluginDir        string `mapstructure:"plugin_dir" comment:"插件目录"`
	LogLevel         string `mapstructure:"log_level" comment:"日志级别: debug, info, warn, error"`
	LogFile          string `mapstructure:"log_file" comment:"日志文件，留空则不写文件"`
	LogMaxSizeMB     int    `mapstructure:"log_max_size_mb" comment:"日志文件轮转大小 (MB)"`
	LogMaxBackups    int    `mapstructure:"log_max_backups" comment:"保留的轮转日志个数"`
	Syslog           bool   `mapstructure:"syslog" comment:"写入 syslog (daemon 设施)"`
	MetricsFile      string `mapstructure:"metrics_file" comment:"解析结束后写入 Prometheus 文本格式指标的文件"`
}

// DefaultConfig 返回默认配置
// 这是配置默认值的唯一来源 (Single Source of Truth)
// 派生路径留空，由 Load 根据 ConfDir 补全
func DefaultConfig() Config {
	return Config{
		ConfDir:         "/etc/ppp",
		UserOptionsFile: ".ppprc",
		PluginDir:       "/usr/lib/pppd/2.5.2",
		LogLevel:        "info",
		LogMaxSizeMB:    10,
		LogMaxBackups:   3,
	}
}

// Load 按优先级加载配置，path 为空时只使用默认值与环境变量
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("pppd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	cfg.derive()
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("conf_dir", d.ConfDir)
	v.SetDefault("sys_options", d.SysOptions)
	v.SetDefault("peers_dir", d.PeersDir)
	v.SetDefault("tty_options_prefix", d.TTYOptionsPrefix)
	v.SetDefault("user_options_file", d.UserOptionsFile)
	v.SetDefault("no_user_options", d.NoUserOptions)
	v.SetDefault("home_dir", d.HomeDir)
	v.SetDefault("plugin_dir", d.PluginDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_max_size_mb", d.LogMaxSizeMB)
	v.SetDefault("log_max_backups", d.LogMaxBackups)
	v.SetDefault("syslog", d.Syslog)
	v.SetDefault("metrics_file", d.MetricsFile)
}

// derive 补全未显式指定的派生路径
func (c *Config) derive() {
	if c.SysOptions == "" {
		c.SysOptions = filepath.Join(c.ConfDir, "options")
	}
	if c.PeersDir == "" {
		c.PeersDir = filepath.Join(c.ConfDir, "peers")
	}
	if c.TTYOptionsPrefix == "" {
		c.TTYOptionsPrefix = filepath.Join(c.ConfDir, "options.")
	}
}
