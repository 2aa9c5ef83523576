// Package credential 解析与校验机构账号中存储的密码凭据。
//
// 机构库 users.password_hash 历史上混存了多种格式：
//   - "sha256::<hex>"        自定义 SHA-256 摘要
//   - "django::<encoded>"    Django 格式哈希，去掉前缀后交由委托校验
//   - "pbkdf2_…$" / "bcrypt$" / "bcrypt_sha256$" / "argon2$" / "$2a$"…  哈希算法签名
//   - 其余一律视为明文（遗留测试数据）
//
// 存储值在读取时一次性解析为 StoredCredential 变体，之后的校验不再做前缀判断。
package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Kind 凭据变体类型
type Kind int

const (
	KindEmpty Kind = iota
	KindPlaintext
	KindSha256Digest
	KindDelegatedHash
)

func (k Kind) String() string {
	switch k {
	case KindPlaintext:
		return "plaintext"
	case KindSha256Digest:
		return "sha256"
	case KindDelegatedHash:
		return "delegated"
	default:
		return "empty"
	}
}

const (
	djangoPrefix = "django::"
	sha256Prefix = "sha256::"
)

var algorithmSignature = regexp.MustCompile(`^(pbkdf2_|bcrypt\$|bcrypt_sha256\$|argon2\$|\$2[aby]\$)`)

// StoredCredential 已解析的凭据变体：Plaintext | Sha256Digest | DelegatedHash | Empty
type StoredCredential interface {
	Kind() Kind
	Verify(raw string) bool
	sealed()
}

// Empty 空凭据，永不通过
type Empty struct{}

func (Empty) Kind() Kind           { return KindEmpty }
func (Empty) Verify(_ string) bool { return false }
func (Empty) sealed()              {}

// Plaintext 明文凭据（遗留数据兼容），逐字节相等比较
type Plaintext struct {
	value string
}

func (Plaintext) Kind() Kind { return KindPlaintext }
func (p Plaintext) Verify(raw string) bool {
	return subtle.ConstantTimeCompare([]byte(raw), []byte(p.value)) == 1
}
func (Plaintext) sealed() {}

// Sha256Digest UTF-8 密码的 SHA-256 十六进制摘要
type Sha256Digest struct {
	hexDigest string
}

func (Sha256Digest) Kind() Kind { return KindSha256Digest }
func (d Sha256Digest) Verify(raw string) bool {
	sum := sha256.Sum256([]byte(raw))
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(d.hexDigest)) == 1
}
func (Sha256Digest) sealed() {}

// DelegatedHash 带算法签名的哈希，交由对应算法校验
type DelegatedHash struct {
	encoded string
}

func (DelegatedHash) Kind() Kind               { return KindDelegatedHash }
func (h DelegatedHash) Verify(raw string) bool { return verifyEncoded(raw, h.encoded) }
func (DelegatedHash) sealed()                  {}

// Parse 将存储值解析为凭据变体
func Parse(stored string) StoredCredential {
	s := strings.TrimSpace(stored)
	switch {
	case s == "":
		return Empty{}
	case strings.HasPrefix(s, djangoPrefix):
		return DelegatedHash{encoded: strings.TrimPrefix(s, djangoPrefix)}
	case strings.HasPrefix(s, sha256Prefix):
		return Sha256Digest{hexDigest: strings.TrimPrefix(s, sha256Prefix)}
	case algorithmSignature.MatchString(s):
		return DelegatedHash{encoded: s}
	default:
		return Plaintext{value: s}
	}
}

// Verify 校验明文密码与存储值是否匹配
func Verify(raw, stored string) bool {
	return Parse(stored).Verify(raw)
}

// ── GORM 列类型 ──

// Stored 对应 users.password_hash 列，Scan 时即完成解析
type Stored struct {
	raw  string
	cred StoredCredential
}

// NewStored 由存储值构造
func NewStored(raw string) Stored {
	return Stored{raw: raw, cred: Parse(raw)}
}

// Scan 实现 sql.Scanner
func (s *Stored) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = NewStored("")
	case []byte:
		*s = NewStored(string(v))
	case string:
		*s = NewStored(v)
	default:
		return fmt.Errorf("credential.Stored.Scan: unsupported type %T", src)
	}
	return nil
}

// Value 实现 driver.Valuer
func (s Stored) Value() (driver.Value, error) {
	return s.raw, nil
}

// Kind 返回解析后的变体类型
func (s Stored) Kind() Kind {
	if s.cred == nil {
		return KindEmpty
	}
	return s.cred.Kind()
}

// Verify 校验明文密码
func (s Stored) Verify(raw string) bool {
	if s.cred == nil {
		return false
	}
	return s.cred.Verify(raw)
}
