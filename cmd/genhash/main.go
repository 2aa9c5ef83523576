// genhash 为机构库种子数据生成密码编码
//
//	genhash -p 'secreto'                 # sha256:: 与 bcrypt
//	genhash -p 'secreto' -f pbkdf2,argon2
//	echo -n 'secreto' | genhash
package main

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	flag "github.com/spf13/pflag"

	"github.com/ju4n3s0/GymIcesi-System/internal/credential"
)

func main() {
	var (
		password   = flag.StringP("password", "p", "", "明文密码，为空时从标准输入读取")
		formats    = flag.StringSliceP("format", "f", []string{"sha256", "bcrypt"}, "输出格式: sha256, bcrypt, pbkdf2, argon2")
		cost       = flag.Int("cost", 12, "bcrypt cost")
		iterations = flag.Int("iterations", 600000, "pbkdf2 迭代次数")
	)
	flag.Parse()

	raw := *password
	if raw == "" {
		var err error
		if raw, err = readPassword(os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "读取密码失败: %v\n", err)
			os.Exit(1)
		}
	}
	if raw == "" {
		fmt.Fprintln(os.Stderr, "密码不能为空")
		os.Exit(2)
	}

	for _, f := range *formats {
		encoded, err := encode(strings.ToLower(strings.TrimSpace(f)), raw, *cost, *iterations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", f, err)
			os.Exit(1)
		}
		fmt.Printf("%-7s %s\n", f, encoded)
	}
}

func encode(format, raw string, cost, iterations int) (string, error) {
	switch format {
	case "sha256":
		return credential.HashSha256(raw), nil
	case "bcrypt":
		return credential.HashBcrypt(raw, cost)
	case "pbkdf2":
		salt := strings.ReplaceAll(uuid.NewString(), "-", "")[:22]
		return credential.HashPBKDF2(raw, salt, iterations), nil
	case "argon2":
		salt := make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return "", err
		}
		return credential.HashArgon2id(raw, salt), nil
	}
	return "", fmt.Errorf("未知格式 %q", format)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
