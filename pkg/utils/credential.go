package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashCredential 登录口令在客户端先做摘要，再以 credentialHash 发给后端
func HashCredential(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}

// NormalizeIdentifier 手机号/邮箱统一去空格、转小写
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
