package utils

import (
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername 3-32 位小写字母、数字或下划线
func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func ValidateEmail(email string) bool {
	return len(email) <= 255 && emailPattern.MatchString(email)
}

// NormalizeUsername 去掉首尾空白并转小写
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
