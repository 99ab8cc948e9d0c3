package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt64CSV(t *testing.T) {
	ids, err := parseInt64CSV("123, -456,789")
	require.NoError(t, err)
	assert.Equal(t, []int64{123, -456, 789}, ids)

	ids, err = parseInt64CSV("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseInt64CSV("123,abc")
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		JWTSecret:               "0123456789abcdef0123456789abcdef",
		JWTTTL:                  time.Hour,
		AdminChatIDs:            []int64{100},
		BotUpdateTimeoutSeconds: 60,
		DBMaxConns:              25,
		DBMinConns:              5,
		UploadMaxBytes:          1 << 20,
		EmailSender:             "log",
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsEmptyAllowList(t *testing.T) {
	cfg := validConfig()
	cfg.AdminChatIDs = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsSMTPWithoutHost(t *testing.T) {
	cfg := validConfig()
	cfg.EmailSender = "smtp"
	cfg.SMTPHost = ""
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: 5432, DBUser: "app", DBPassword: "secret",
		DBName: "fictionhub", DBSSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:secret@db:5432/fictionhub?sslmode=disable", cfg.DatabaseDSN())
}
