package credential

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// unusablePrefix 不可用密码标记前缀，以此开头的值永远无法通过校验
const unusablePrefix = "!"

// verifyEncoded 按算法签名分派 Django 兼容格式的校验
func verifyEncoded(raw, encoded string) bool {
	if encoded == "" || strings.HasPrefix(encoded, unusablePrefix) {
		return false
	}

	// 原生 bcrypt（$2a$ / $2b$ / $2y$）
	if strings.HasPrefix(encoded, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
	}

	algorithm, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}

	switch algorithm {
	case "pbkdf2_sha256":
		return verifyPBKDF2(raw, rest, sha256.New, sha256.Size)
	case "pbkdf2_sha1":
		return verifyPBKDF2(raw, rest, sha1.New, sha1.Size)
	case "bcrypt":
		return bcrypt.CompareHashAndPassword([]byte(rest), []byte(raw)) == nil
	case "bcrypt_sha256":
		sum := sha256.Sum256([]byte(raw))
		prehashed := hex.EncodeToString(sum[:])
		return bcrypt.CompareHashAndPassword([]byte(rest), []byte(prehashed)) == nil
	case "argon2":
		return verifyArgon2(raw, rest)
	default:
		return false
	}
}

// verifyPBKDF2 rest 形如 "<iterations>$<salt>$<base64 hash>"
func verifyPBKDF2(raw, rest string, h func() hash.Hash, keyLen int) bool {
	parts := strings.SplitN(rest, "$", 3)
	if len(parts) != 3 {
		return false
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(raw), []byte(parts[1]), iterations, keyLen, h)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// verifyArgon2 rest 形如 "$argon2id$v=19$m=102400,t=2,p=8$<salt>$<hash>"（base64 无填充）
func verifyArgon2(raw, rest string) bool {
	parts := strings.Split(strings.TrimPrefix(rest, "$"), "$")
	if len(parts) != 5 {
		return false
	}
	variant := parts[0]

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	var got []byte
	switch variant {
	case "argon2id":
		got = argon2.IDKey([]byte(raw), salt, timeCost, memory, threads, uint32(len(want)))
	case "argon2i":
		got = argon2.Key([]byte(raw), salt, timeCost, memory, threads, uint32(len(want)))
	default:
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

// ── 生成（种子数据 / 测试） ──

// HashSha256 生成 "sha256::<hex>" 格式
func HashSha256(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return sha256Prefix + hex.EncodeToString(sum[:])
}

// HashBcrypt 生成原生 bcrypt 哈希
func HashBcrypt(raw string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// HashPBKDF2 生成 Django 兼容的 pbkdf2_sha256 编码
func HashPBKDF2(raw, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(raw), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2_sha256$%d$%s$%s", iterations, salt, base64.StdEncoding.EncodeToString(key))
}

// HashArgon2id 生成 Django 兼容的 argon2id 编码
func HashArgon2id(raw string, salt []byte) string {
	const (
		timeCost = 2
		memory   = 19 * 1024
		threads  = 1
		keyLen   = 32
	)
	key := argon2.IDKey([]byte(raw), salt, timeCost, memory, threads, keyLen)
	return fmt.Sprintf("argon2$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// ── 不可用密码标记 ──

// UnusableMarker 生成不可用密码标记，会话身份表写入此值
func UnusableMarker() string {
	return unusablePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsUsable 判断编码值是否为可用密码
func IsUsable(encoded string) bool {
	return encoded != "" && !strings.HasPrefix(encoded, unusablePrefix)
}
