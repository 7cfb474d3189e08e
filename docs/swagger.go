package docs

// @title 口味推荐服务 API
// @version 1.0
// @description 基于用户口味画像的附近餐厅推荐、用餐反馈和画像调整服务
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http https
