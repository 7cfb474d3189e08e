package utils

import (
	"strings"
)

// DeduplicateSlice 去重字符串切片，保留首次出现的顺序
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, val := range input {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}

// SplitList 解析逗号拼接的列表字段，去掉空白项，保持原有顺序
func SplitList(val string) []string {
	result := make([]string, 0)
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

// JoinList 将列表用逗号拼接，列表项本身不能包含逗号
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// ContainsFold 忽略大小写判断切片是否包含元素
func ContainsFold(slice []string, element string) bool {
	for _, e := range slice {
		if strings.EqualFold(e, element) {
			return true
		}
	}
	return false
}

// Preview 截取文本前 n 个字节用于日志，超出部分用省略号表示
func Preview(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}

// ExtractJSONFromText 从LLM返回的文本中提取JSON部分
func ExtractJSONFromText(text string) string {
	// 优先查找```json和```之间的内容
	startMarker := "```json"
	endMarker := "```"
	if startIdx := strings.Index(text, startMarker); startIdx >= 0 {
		startIdx += len(startMarker)
		if endIdx := strings.Index(text[startIdx:], endMarker); endIdx > 0 {
			return strings.TrimSpace(text[startIdx : startIdx+endIdx])
		}
	}

	// 其次取第一个 { 到最后一个 } 之间的内容
	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx >= 0 && endIdx > startIdx {
		return text[startIdx : endIdx+1]
	}

	// 如果仍然找不到，返回原始文本
	return strings.TrimSpace(text)
}
