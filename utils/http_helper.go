package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"flavor_ai/models"
)

// 请求体最大字节数
const maxBodyBytes = 1 << 20

// WriteFormattedJSON 格式化JSON输出，使其更易读
func WriteFormattedJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ") // 使用4个空格缩进
	encoder.Encode(data)
}

// WriteSuccessResponse 写入成功响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, http.StatusOK, models.NewSuccessResponse(data))
}

// WriteErrorResponse 写入错误响应，HTTP状态码由业务码决定
func WriteErrorResponse(w http.ResponseWriter, code int, data interface{}) {
	WriteFormattedJSON(w, models.HTTPStatus(code), models.NewErrorResponse(code, data))
}

// WriteCustomErrorResponse 写入自定义错误消息的响应
func WriteCustomErrorResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	WriteFormattedJSON(w, models.HTTPStatus(code), models.NewCustomErrorResponse(code, message, data))
}

// ValidateUserID 验证 user_id 参数
func ValidateUserID(w http.ResponseWriter, userID string) bool {
	if strings.TrimSpace(userID) == "" {
		WriteErrorResponse(w, models.CodeMissingParams, map[string]interface{}{
			"param": "user_id",
		})
		return false
	}
	return true
}

// DecodeJSON 解析请求体并校验，失败时写入错误响应并返回 false。
// 空请求体按零值处理
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, fmt.Sprintf("请求体格式错误: %v", err), map[string]interface{}{})
		return false
	}
	if err := ValidateStruct(dst); err != nil {
		WriteValidationError(w, err)
		return false
	}
	return true
}

// WriteValidationError 写入参数校验错误
func WriteValidationError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, verr.Error(), verr.Fields)
		return
	}
	WriteCustomErrorResponse(w, models.CodeInvalidParams, err.Error(), map[string]interface{}{})
}
