package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/onboarding/{user_id}": {
            "post": {
                "tags": ["用户画像"],
                "summary": "新用户建档",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"type": "boolean", "name": "overwrite", "in": "query"},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "成功"}, "409": {"description": "用户画像已存在"}}
            }
        },
        "/api/profile/{user_id}": {
            "get": {
                "tags": ["用户画像"],
                "summary": "获取用户画像",
                "parameters": [{"type": "string", "name": "user_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功"}, "404": {"description": "用户不存在"}}
            }
        },
        "/api/restaurants": {
            "get": {
                "tags": ["餐厅"],
                "summary": "搜索附近餐厅",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query"},
                    {"type": "number", "name": "lon", "in": "query"},
                    {"type": "number", "name": "radius_value", "in": "query"},
                    {"type": "string", "name": "radius_unit", "in": "query"}
                ],
                "responses": {"200": {"description": "成功"}}
            }
        },
        "/api/restaurants/{place_id}/reviews": {
            "get": {
                "tags": ["餐厅"],
                "summary": "获取餐厅评论",
                "parameters": [{"type": "string", "name": "place_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "成功"}}
            }
        },
        "/api/recommendations/{user_id}": {
            "post": {
                "tags": ["推荐"],
                "summary": "生成餐厅推荐",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "成功"}, "404": {"description": "用户不存在"}}
            }
        },
        "/api/feedback/{user_id}": {
            "post": {
                "tags": ["反馈"],
                "summary": "提交用餐反馈",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "成功"}, "404": {"description": "用户不存在"}, "500": {"description": "保存失败"}}
            }
        },
        "/api/push/feedback/{user_id}": {
            "post": {
                "tags": ["推送"],
                "summary": "推送用餐反馈提醒",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "成功"}, "502": {"description": "推送失败"}}
            }
        }
    }
}`

// SwaggerInfo 文档基本信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "口味推荐服务 API",
	Description:      "基于用户口味画像的附近餐厅推荐、用餐反馈和画像调整服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
