package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
)

// contentAAD 是绑定到本服务上下文的附加认证数据。
// 同一密钥在其他系统里产出的密文在这里无法通过认证，反之亦然。
const contentAAD = "anon-forum-content-v1"

// DecryptFallback 是解密失败时替换正文的占位串。
// 读路径就地恢复，绝不因单条密文损坏而让整个请求失败。
const DecryptFallback = "[内容无法解密]"

// SealedContent 是落库的密文三元组，全部十六进制编码。
type SealedContent struct {
	Ciphertext string
	IV         string
	AuthTag    string
}

// ContentCipher 负责帖子/评论正文的对称认证加解密（AES-256-GCM）。
// - 密钥为进程级配置，启动时加载一次并注入，业务逻辑不接触原始密钥材料
// - 当前设计没有密钥版本化：更换密钥后全部历史密文不可解
type ContentCipher struct {
	aead   cipher.AEAD
	logger *core.ZapLogger
}

// NewContentCipher 从安全配置构造内容加密器。
// - EncryptionKey 必须是 64 个十六进制字符（256 位）；
//   未配置时由调用方（启动流程）先行生成临时密钥
func NewContentCipher(cfg *config.SecurityConfig, logger *core.ZapLogger) (*ContentCipher, error) {
	key, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("解析 encryptionKey 失败（应为十六进制）: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryptionKey 长度无效: 期望 32 字节，实际 %d 字节", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("初始化 AES 失败: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("初始化 GCM 失败: %w", err)
	}

	return &ContentCipher{aead: aead, logger: logger}, nil
}

// Encrypt 加密明文并返回密文三元组。
// - 每次调用生成新的随机 IV（nonce），与密文一同存储，绝不复用
// - GCM 的认证标签从密文尾部剥离，单独存放为 AuthTag
func (c *ContentCipher) Encrypt(plaintext string) (*SealedContent, error) {
	iv := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("生成随机 IV 失败: %w", err)
	}

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), []byte(contentAAD))
	tagStart := len(sealed) - c.aead.Overhead()

	return &SealedContent{
		Ciphertext: hex.EncodeToString(sealed[:tagStart]),
		IV:         hex.EncodeToString(iv),
		AuthTag:    hex.EncodeToString(sealed[tagStart:]),
	}, nil
}

// Decrypt 解密密文三元组，返回明文。
// - 认证标签不匹配或输入格式损坏时返回 myErrors.ErrDecryptionFailed，
//   调用方以 DecryptFallback 占位，不向上抛硬错误
func (c *ContentCipher) Decrypt(sealed *SealedContent) (string, error) {
	ct, err := hex.DecodeString(sealed.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: 密文格式损坏", myErrors.ErrDecryptionFailed)
	}
	iv, err := hex.DecodeString(sealed.IV)
	if err != nil || len(iv) != c.aead.NonceSize() {
		return "", fmt.Errorf("%w: IV 格式损坏", myErrors.ErrDecryptionFailed)
	}
	tag, err := hex.DecodeString(sealed.AuthTag)
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", fmt.Errorf("%w: 认证标签格式损坏", myErrors.ErrDecryptionFailed)
	}

	plaintext, err := c.aead.Open(nil, iv, append(ct, tag...), []byte(contentAAD))
	if err != nil {
		// 认证失败只记录必要上下文，不回显任何密文内容。
		c.logger.Warn("密文认证失败", zap.Error(err))
		return "", fmt.Errorf("%w: 认证失败", myErrors.ErrDecryptionFailed)
	}
	return string(plaintext), nil
}

// DecryptOrFallback 解密并在失败时返回占位串，供读路径直接使用。
func (c *ContentCipher) DecryptOrFallback(sealed *SealedContent) string {
	plaintext, err := c.Decrypt(sealed)
	if err != nil {
		return DecryptFallback
	}
	return plaintext
}

// GenerateRandomKeyHex 生成一个随机 256 位密钥的十六进制表示。
// 启动流程在未配置 encryptionKey / ipSalt 时调用，并记录 WARN 日志，
// 提示临时密钥在重启后丢失。
func GenerateRandomKeyHex() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("生成随机密钥失败: %w", err)
	}
	return hex.EncodeToString(key), nil
}
