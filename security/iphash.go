package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Xushengqwer/anon_forum_service/config"
)

// IPHasher 对提交来源做加盐单向散列。
// - 确定性：同一 (地址, 盐) 组合的散列结果稳定，限流才能命中同一个桶
// - 不可逆：摘要无法还原出原始地址；原始地址不落库、不进日志
type IPHasher struct {
	salt []byte
}

// NewIPHasher 从安全配置构造散列器，盐值在启动时加载一次。
func NewIPHasher(cfg *config.SecurityConfig) *IPHasher {
	return &IPHasher{salt: []byte(cfg.IPSalt)}
}

// Hash 返回 sha256(salt || address) 的十六进制摘要，存入记录的 ip_hash 字段。
func (h *IPHasher) Hash(address string) string {
	sum := sha256.Sum256(append(append([]byte{}, h.salt...), []byte(address)...))
	return hex.EncodeToString(sum[:])
}

// ClientKey 返回 sha256(salt || address || user-agent) 的摘要，用作限流桶的 Key。
// 与 Hash 刻意区分：限流键混入 UA，与落库的 ip_hash 不同源，
// 二者无法相互关联。
func (h *IPHasher) ClientKey(address, userAgent string) string {
	buf := append(append([]byte{}, h.salt...), []byte(address)...)
	buf = append(buf, 0x1f) // 字段分隔符，避免 (a, b) 与 (a+b, "") 同值
	buf = append(buf, []byte(userAgent)...)
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
