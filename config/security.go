package config

// SecurityConfig 集中保存本服务的安全敏感配置。
// - 所有字段在进程启动时加载一次，之后注入到 ContentCipher / IPHasher 中，
//   业务代码不得绕过该结构直接读取环境变量。
type SecurityConfig struct {
	// EncryptionKey 是内容加密所用的 256 位密钥，十六进制编码（64 个字符）。
	// - 未配置时启动流程会生成一个临时随机密钥并记录 WARN 日志。
	//   注意：临时密钥在进程重启后丢失，此前写入的密文将无法解密。
	// - 当前设计没有密钥版本化/轮换机制，更换密钥等同于丢弃全部历史密文。
	EncryptionKey string `mapstructure:"encryptionKey" json:"encryptionKey" yaml:"encryptionKey"`

	// IPSalt 是 IP 单向散列所用的盐值，十六进制编码。
	// - 同一 (地址, 盐) 组合的散列结果必须稳定，限流才能命中同一个桶，
	//   因此盐值只在启动时加载一次。
	// - 未配置时同样生成临时随机值（重启后限流桶会整体漂移，可接受）。
	IPSalt string `mapstructure:"ipSalt" json:"ipSalt" yaml:"ipSalt"`

	// BannedPhrases 是内容策略的短语拒绝清单（不区分大小写的子串匹配）。
	// 命中即拒绝整个请求，而不是对内容做清洗。
	BannedPhrases []string `mapstructure:"bannedPhrases" json:"bannedPhrases" yaml:"bannedPhrases"`
}
