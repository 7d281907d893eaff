package config

// RedisConfig 包含连接 Redis 所需的配置。
// - Redis 在本服务中承载限流计数器与热度榜单，均为可丢失状态，
//   因此不要求持久化配置。
type RedisConfig struct {
	Address  string `mapstructure:"address" json:"address" yaml:"address"`    // 例如 "localhost:6379"
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 无密码时留空
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 逻辑库编号
	PoolSize int    `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize"` // 连接池大小，0 表示使用客户端默认值
}
