// Чтение переменных окружения.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Exist - возвращает true, если переменная key существует
func Exist(key string) bool {
	if key == "" {
		return false
	}
	_, exist := os.LookupEnv(key)
	return exist
}

// GetEnv - возвращает содержимое строковой переменной без окружающих пробелов.
func GetEnv(key string) string {
	val, _ := os.LookupEnv(key)
	return strings.TrimSpace(val)
}

// GetIntEnv - возвращает содержимое числовой переменной. Если возникла ошибка при обработке, возвращается 0
func GetIntEnv(key string) int {
	v, err := strconv.Atoi(GetEnv(key))
	if err != nil {
		return 0
	}
	return v
}

// GetBoolEnv - возвращает содержимое логической переменной. Если возникла ошибка при обработке, возвращается false
func GetBoolEnv(key string) bool {
	v, err := strconv.ParseBool(GetEnv(key))
	if err != nil {
		return false
	}
	return v
}
