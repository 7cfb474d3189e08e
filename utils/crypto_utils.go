package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"
)

// CalculateMD5 计算字符串的MD5哈希值，返回32位小写十六进制字符串
func CalculateMD5(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CalculateAuthorizationHeader 计算Authorization头的值：apiKey+timestamp后4位的MD5值
func CalculateAuthorizationHeader(apiKey string, timestamp string) string {
	lastFour := timestamp
	if len(timestamp) > 4 {
		lastFour = timestamp[len(timestamp)-4:]
	}
	return CalculateMD5(apiKey + lastFour)
}

// MillisTimestamp 当前毫秒时间戳字符串
func MillisTimestamp(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
