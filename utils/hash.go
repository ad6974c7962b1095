package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"CivicLink/config"
)

// 手机号哈希存储用于查询，加盐避免彩虹表，盐 + ":" + phone

func HashPhone(phone string) string {
	key := config.Cfg.PhoneHashSalt

	sum := sha256.Sum256([]byte(key + ":" + phone))

	return hex.EncodeToString(sum[:])
}

// HashPassword 员工密码哈希，盐 + ":" + password
func HashPassword(password string) string {
	key := config.Cfg.PasswordHashSalt

	sum := sha256.Sum256([]byte(key + ":" + password))

	return hex.EncodeToString(sum[:])
}
