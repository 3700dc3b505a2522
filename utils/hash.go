package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey 把客户端传入的任意字符串压缩为定长 key，避免超长 redis key
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}
