package config

import "github.com/Xushengqwer/go-common/config"

// AnonForumConfig 是匿名论坛服务的顶层配置结构。
// - 通过 core.LoadConfig 在进程启动时一次性加载，之后以依赖注入的方式
//   传递给各个组件，业务逻辑内部不允许再临时读取环境变量。
type AnonForumConfig struct {
	ZapConfig       config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig   config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig    config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig    config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	MySQLConfig     MySQLConfig          `mapstructure:"mysqlConfig" json:"mysqlConfig" yaml:"mysqlConfig"`
	RedisConfig     RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig     KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	SecurityConfig  SecurityConfig       `mapstructure:"securityConfig" json:"securityConfig" yaml:"securityConfig"`
	RateLimitConfig RateLimitConfig      `mapstructure:"rateLimitConfig" json:"rateLimitConfig" yaml:"rateLimitConfig"`
	LifecycleConfig LifecycleConfig      `mapstructure:"lifecycleConfig" json:"lifecycleConfig" yaml:"lifecycleConfig"`
}
