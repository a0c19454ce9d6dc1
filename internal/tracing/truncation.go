package tracing

import (
	"net/url"
	"strings"
)

// span 属性的长度上限
const (
	DefaultMaxLength        = 200
	MaxSQLLength            = 500
	MaxRedisLength          = 100
	MaxURLLength            = 200
	MaxResumeLength         = 150
	MaxJobDescriptionLength = 150
)

// TruncateString 超长时保留首尾两段，中间用 "..." 连接。按 rune 截断，不会切开多字节字符。
func TruncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	head := (maxLength - 3) / 2
	tail := maxLength - 3 - head
	return string(runes[:head]) + "..." + string(runes[len(runes)-tail:])
}

// SafeSQL SQL 语句
func SafeSQL(sql string) string {
	return TruncateString(sql, MaxSQLLength)
}

// SafeRedisKey Redis 键
func SafeRedisKey(key string) string {
	return TruncateString(key, MaxRedisLength)
}

// SafeURL 去掉查询串和片段后截断，查询串里可能带有访问令牌
func SafeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return TruncateString(rawURL, MaxURLLength)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return TruncateString(u.String(), MaxURLLength)
}

// SafeResumeContent 简历正文只保留开头结尾的少量文字
func SafeResumeContent(content string) string {
	return TruncateString(content, MaxResumeLength)
}

// SafeJobDescription 岗位描述正文
func SafeJobDescription(content string) string {
	return TruncateString(content, MaxJobDescriptionLength)
}
