package security

import (
	"testing"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/myErrors"
)

func testLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

func newTestCipher(t *testing.T) *ContentCipher {
	t.Helper()
	key, err := GenerateRandomKeyHex()
	require.NoError(t, err)
	c, err := NewContentCipher(&config.SecurityConfig{EncryptionKey: key}, testLogger(t))
	require.NoError(t, err)
	return c
}

func TestNewContentCipher_KeyValidation(t *testing.T) {
	logger := testLogger(t)

	_, err := NewContentCipher(&config.SecurityConfig{EncryptionKey: "not-hex"}, logger)
	assert.Error(t, err, "非十六进制密钥应被拒绝")

	_, err = NewContentCipher(&config.SecurityConfig{EncryptionKey: "abcd1234"}, logger)
	assert.Error(t, err, "长度不足 32 字节的密钥应被拒绝")

	key, err := GenerateRandomKeyHex()
	require.NoError(t, err)
	_, err = NewContentCipher(&config.SecurityConfig{EncryptionKey: key}, logger)
	assert.NoError(t, err)
}

func TestContentCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)
	plaintext := "今晚的夜色真好，匿名说一句心里话。"

	sealed, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEmpty(t, sealed.Ciphertext)
	assert.NotEmpty(t, sealed.IV)
	assert.NotEmpty(t, sealed.AuthTag)

	decrypted, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestContentCipher_FreshIVPerEncryption(t *testing.T) {
	c := newTestCipher(t)
	plaintext := "same content"

	first, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	second, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	// 相同明文两次加密必须产生不同的 IV 与密文。
	assert.NotEqual(t, first.IV, second.IV)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
}

func TestContentCipher_TamperFailsClosed(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.Encrypt("original content here")
	require.NoError(t, err)

	// 篡改密文的一个字节。
	tampered := &SealedContent{
		Ciphertext: flipHexNibble(sealed.Ciphertext),
		IV:         sealed.IV,
		AuthTag:    sealed.AuthTag,
	}
	_, err = c.Decrypt(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, myErrors.ErrDecryptionFailed)

	// 篡改认证标签同理。
	badTag := &SealedContent{
		Ciphertext: sealed.Ciphertext,
		IV:         sealed.IV,
		AuthTag:    flipHexNibble(sealed.AuthTag),
	}
	_, err = c.Decrypt(badTag)
	assert.ErrorIs(t, err, myErrors.ErrDecryptionFailed)

	// 格式损坏的输入同样以 ErrDecryptionFailed 收敛。
	_, err = c.Decrypt(&SealedContent{Ciphertext: "zz", IV: sealed.IV, AuthTag: sealed.AuthTag})
	assert.ErrorIs(t, err, myErrors.ErrDecryptionFailed)
}

func TestContentCipher_DecryptOrFallback(t *testing.T) {
	c := newTestCipher(t)

	sealed, err := c.Encrypt("readable")
	require.NoError(t, err)
	assert.Equal(t, "readable", c.DecryptOrFallback(sealed))

	sealed.AuthTag = flipHexNibble(sealed.AuthTag)
	assert.Equal(t, DecryptFallback, c.DecryptOrFallback(sealed))
}

func TestContentCipher_KeyMismatch(t *testing.T) {
	// 不同密钥的实例无法解开彼此的密文。
	a := newTestCipher(t)
	b := newTestCipher(t)

	sealed, err := a.Encrypt("cross key")
	require.NoError(t, err)

	_, err = b.Decrypt(sealed)
	assert.ErrorIs(t, err, myErrors.ErrDecryptionFailed)
}

// flipHexNibble 翻转十六进制串的首字符，制造一个字节级别的损坏。
func flipHexNibble(s string) string {
	if s == "" {
		return s
	}
	replacement := byte('0')
	if s[0] == '0' {
		replacement = '1'
	}
	return string(replacement) + s[1:]
}
