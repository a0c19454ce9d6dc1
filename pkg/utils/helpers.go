package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// CalculateMD5 返回数据的十六进制 MD5
func CalculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// URLCacheKey 规范化 URL 后取 MD5，作为缓存键的一部分
func URLCacheKey(rawURL string) string {
	normalized := strings.TrimSpace(rawURL)
	normalized = strings.TrimRight(normalized, "/")
	return CalculateMD5([]byte(normalized))
}

// ConvertArrayToJSON 将字符串数组转换为JSON，nil 或空数组得到 "[]"
func ConvertArrayToJSON(arr []string) datatypes.JSON {
	if len(arr) == 0 {
		return datatypes.JSON("[]")
	}
	jsonBytes, err := json.Marshal(arr)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(jsonBytes)
}
