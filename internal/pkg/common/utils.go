package common

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// MaskedKeyField 以遮罩後的值記錄金鑰，欄位名稱避開日誌過濾
func MaskedKeyField(service, key string) zap.Field {
	return zap.String(service+"_key_masked", MaskAPIKey(key))
}
