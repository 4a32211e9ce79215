// Управление конфигурацией сервиса вопросов из переменных окружения.
// Содержит структуру Config для хранения параметров и функцию ReadConfig для их загрузки.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения с использованием тегов struct.
//   - Преобразование типов данных из переменных окружения (string, int, bool).
//   - Маскировка секретных значений (пароли в DSN) в логах.
//   - Значения по умолчанию и ограничения для числовых параметров.
package config

import (
	"errors"
	"log/slog"
	"net/url"
	"reflect"
	"strings"

	"github.com/robfig/cron/v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DatabaseDriver string `env:"DATABASE_DRIVER"`
	DatabaseDSN    string `env:"DATABASE_URL"`

	ListenAddr  string `env:"LISTEN_ADDR"`
	MetricsAddr string `env:"METRICS_ADDR"`

	PreviewLength         int  `env:"PREVIEW_LENGTH"`
	InputSanitizeDisabled bool `env:"INPUT_SANITIZE_DISABLED"`

	LegacyNormalizeSchedule string `env:"LEGACY_NORMALIZE_SCHEDULE"`
	LegacyNormalizeDisabled bool   `env:"LEGACY_NORMALIZE_DISABLED"`
	LegacyNormalizeWorkers  int    `env:"LEGACY_NORMALIZE_WORKERS"`
}

// ReadConfig загружает конфигурацию из переменных окружения, подставляет значения
// по умолчанию и проверяет обязательные параметры.
func ReadConfig() (*Config, error) {
	config := &Config{}

	envConfig("env", config)

	switch config.DatabaseDriver {
	case "":
		config.DatabaseDriver = DriverSQLite
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.New("DATABASE_DRIVER must be postgres or sqlite")
	}

	if config.DatabaseDSN == "" {
		if config.DatabaseDriver == DriverPostgres {
			return nil, errors.New("DATABASE_URL is required for postgres")
		}
		config.DatabaseDSN = "assessment.db"
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if config.MetricsAddr == "" {
		config.MetricsAddr = ":2112"
	}

	if config.PreviewLength <= 0 {
		config.PreviewLength = 200
	}

	if config.LegacyNormalizeSchedule == "" {
		config.LegacyNormalizeSchedule = "0 4 * * *"
	}
	if _, err := cron.ParseStandard(config.LegacyNormalizeSchedule); err != nil {
		slog.Error("LEGACY_NORMALIZE_SCHEDULE incorrect, fallback to default", "err", err)
		config.LegacyNormalizeSchedule = "0 4 * * *"
	}

	if config.LegacyNormalizeWorkers <= 0 || config.LegacyNormalizeWorkers > 64 {
		config.LegacyNormalizeWorkers = 4
	}

	return config, nil
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		lowerName := strings.ToLower(fName)
		switch {
		case strings.Contains(lowerName, "dsn"):
			logValue = maskDSN(logValue)
		case strings.Contains(lowerName, "pass"), strings.Contains(lowerName, "secret"), strings.Contains(lowerName, "token"):
			logValue = maskSecret(logValue)
		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}

func maskSecret(value string) string {
	runes := []rune(value)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}

// maskDSN скрывает пароль в URL подключения к БД. Путь к файлу sqlite выводится как есть.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		if strings.Contains(dsn, "password=") {
			parts := strings.Fields(dsn)
			for i, p := range parts {
				if strings.HasPrefix(p, "password=") {
					parts[i] = "password=" + maskSecret(strings.TrimPrefix(p, "password="))
				}
			}
			return strings.Join(parts, " ")
		}
		return dsn
	}
	return u.Redacted()
}
