package utils

import (
	"regexp"
)

var (
	// 南非手机号：+27 或 0 开头，后接 9 位数字
	phonePattern = regexp.MustCompile(`^(\+27|0)[1-9]\d{8}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
