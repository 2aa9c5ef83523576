package credential

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

func TestParse_Kinds(t *testing.T) {
	tests := []struct {
		stored string
		want   Kind
	}{
		{"", KindEmpty},
		{"   ", KindEmpty},
		{"sha256::abcd", KindSha256Digest},
		{"django::pbkdf2_sha256$1$s$h", KindDelegatedHash},
		{"pbkdf2_sha256$600000$salt$hash", KindDelegatedHash},
		{"bcrypt$$2b$12$abc", KindDelegatedHash},
		{"bcrypt_sha256$$2b$12$abc", KindDelegatedHash},
		{"argon2$argon2id$v=19$m=1,t=1,p=1$s$h", KindDelegatedHash},
		{"$2a$10$abcdefghijklmnopqrstuv", KindDelegatedHash},
		{"secreto123", KindPlaintext},
		{"sha256:abcd", KindPlaintext},
	}
	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.stored).Kind())
		})
	}
}

func TestVerify_EmptyNeverMatches(t *testing.T) {
	for _, raw := range []string{"", "x", "secreto"} {
		assert.False(t, Verify(raw, ""), "空凭据不应通过: %q", raw)
	}
}

func TestVerify_Sha256(t *testing.T) {
	for _, p := range []string{"secreto", "contraseña", "", "  espacios  "} {
		stored := HashSha256(p)
		assert.True(t, Verify(p, stored), "摘要应匹配: %q", p)
		assert.False(t, Verify(p+"x", stored))
	}
}

func TestVerify_Sha256_ExactHexOnly(t *testing.T) {
	sum := sha256.Sum256([]byte("secreto"))
	upper := fmt.Sprintf("sha256::%X", sum[:])
	assert.False(t, Verify("secreto", upper), "大写十六进制不应视为相等")
}

func TestVerify_Plaintext(t *testing.T) {
	assert.True(t, Verify("abc123", "abc123"))
	assert.False(t, Verify("abc1234", "abc123"))
	assert.False(t, Verify("ABC123", "abc123"))
}

func TestVerify_PBKDF2(t *testing.T) {
	stored := HashPBKDF2("correcta", "sal", 1000)
	assert.True(t, Verify("correcta", stored))
	assert.True(t, Verify("correcta", "django::"+stored))
	assert.False(t, Verify("incorrecta", stored))

	// 独立计算，确认编码格式与 Django 一致
	key := pbkdf2.Key([]byte("correcta"), []byte("sal"), 1000, 32, sha256.New)
	manual := "pbkdf2_sha256$1000$sal$" + base64.StdEncoding.EncodeToString(key)
	assert.Equal(t, manual, stored)
}

func TestVerify_PBKDF2_Malformed(t *testing.T) {
	assert.False(t, Verify("x", "pbkdf2_sha256$abc$sal$hash"))
	assert.False(t, Verify("x", "pbkdf2_sha256$1000$sal"))
	assert.False(t, Verify("x", "pbkdf2_sha256$1000$sal$%%%"))
	assert.False(t, Verify("x", "django::unknown$1$2"))
}

func TestVerify_Bcrypt(t *testing.T) {
	native, err := HashBcrypt("clave", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("clave", native))
	assert.True(t, Verify("clave", "bcrypt$"+native))
	assert.True(t, Verify("clave", "django::bcrypt$"+native))
	assert.False(t, Verify("otra", native))
}

func TestVerify_BcryptSha256(t *testing.T) {
	sum := sha256.Sum256([]byte("clave"))
	pre := fmt.Sprintf("%x", sum[:])
	hashed, err := bcrypt.GenerateFromPassword([]byte(pre), bcrypt.MinCost)
	require.NoError(t, err)

	stored := "bcrypt_sha256$" + string(hashed)
	assert.True(t, Verify("clave", stored))
	assert.False(t, Verify("otra", stored))
}

func TestVerify_Argon2id(t *testing.T) {
	stored := HashArgon2id("clave", []byte("saltsaltsalt"))
	assert.True(t, Verify("clave", stored))
	assert.True(t, Verify("clave", "django::"+stored))
	assert.False(t, Verify("otra", stored))
	assert.False(t, Verify("clave", "argon2$argon2d$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestVerify_UnusableMarker(t *testing.T) {
	m := UnusableMarker()
	assert.False(t, IsUsable(m))
	assert.False(t, Verify(m, "django::"+m))
	assert.True(t, IsUsable(HashSha256("x")))
	assert.False(t, IsUsable(""))
}

func TestStored_ScanValue(t *testing.T) {
	var s Stored
	require.NoError(t, s.Scan([]byte(HashSha256("clave"))))
	assert.Equal(t, KindSha256Digest, s.Kind())
	assert.True(t, s.Verify("clave"))

	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, HashSha256("clave"), v)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, KindEmpty, s.Kind())
	assert.False(t, s.Verify(""))

	assert.Error(t, s.Scan(42))

	var zero Stored
	assert.False(t, zero.Verify("x"))
}
