package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"flavor_ai/config"
	_ "flavor_ai/docs" // 导入 swagger 文档
	"flavor_ai/models"
	"flavor_ai/repository"
	"flavor_ai/services"
	"flavor_ai/utils"
)

// OnboardingHandler godoc
// @Summary 新用户建档
// @Description 根据喜欢的食物、饮食限制和过敏信息建立初始口味画像，已存在时需要 overwrite=true 才会覆盖
// @Tags 用户画像
// @Accept json
// @Produce json
// @Param user_id path string true "用户ID"
// @Param overwrite query bool false "已存在时是否覆盖"
// @Param request body models.OnboardingRequest true "建档信息"
// @Success 200 {object} models.ProfileResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 409 {object} models.APIResponse "用户画像已存在"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/onboarding/{user_id} [post]
func OnboardingHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	userID := chi.URLParam(r, "user_id")
	if !utils.ValidateUserID(w, userID) {
		return
	}

	var req models.OnboardingRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	overwrite, _ := strconv.ParseBool(r.URL.Query().Get("overwrite"))
	profile, err := app.Onboard(r.Context(), userID, req, repository.CreateOptions{Overwrite: overwrite})
	if err != nil {
		handleServiceError(w, err, models.CodeOnboardingError)
		return
	}
	utils.WriteSuccessResponse(w, profile)
}

// GetUserProfileHandler godoc
// @Summary 获取用户画像
// @Description 获取指定用户的口味画像
// @Tags 用户画像
// @Produce json
// @Param user_id path string true "用户ID"
// @Success 200 {object} models.ProfileResponse "成功"
// @Failure 404 {object} models.APIResponse "用户不存在"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/profile/{user_id} [get]
func GetUserProfileHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	userID := chi.URLParam(r, "user_id")
	if !utils.ValidateUserID(w, userID) {
		return
	}

	profile, err := app.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err, models.CodeServerError)
		return
	}
	utils.WriteSuccessResponse(w, profile)
}

// NearbyRestaurantsHandler godoc
// @Summary 搜索附近餐厅
// @Description 按坐标和半径搜索附近餐厅，未提供坐标时使用默认坐标
// @Tags 餐厅
// @Produce json
// @Param lat query number false "纬度"
// @Param lon query number false "经度"
// @Param radius_value query number false "搜索半径" default(2)
// @Param radius_unit query string false "半径单位 miles/kilometers" default(miles)
// @Success 200 {object} models.NearbyResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Router /api/restaurants [get]
func NearbyRestaurantsHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	req, ok := parseSearchQuery(w, r)
	if !ok {
		return
	}
	utils.WriteSuccessResponse(w, app.NearbyRestaurants(r.Context(), req))
}

// RestaurantReviewsHandler godoc
// @Summary 获取餐厅评论
// @Description 查询餐厅的评论内容和评分，查询失败时返回空列表
// @Tags 餐厅
// @Produce json
// @Param place_id path string true "餐厅ID"
// @Success 200 {object} models.ReviewsResponse "成功"
// @Router /api/restaurants/{place_id}/reviews [get]
func RestaurantReviewsHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	placeID := chi.URLParam(r, "place_id")
	utils.WriteSuccessResponse(w, app.Reviews(r.Context(), placeID))
}

// RecommendationHandler godoc
// @Summary 生成餐厅推荐
// @Description 根据用户口味画像为附近餐厅打分，返回相似度最高的若干家
// @Tags 推荐
// @Accept json
// @Produce json
// @Param user_id path string true "用户ID"
// @Param request body models.RecommendationRequest true "推荐参数"
// @Success 200 {object} models.RecommendationResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 404 {object} models.APIResponse "用户不存在"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/recommendations/{user_id} [post]
func RecommendationHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	userID := chi.URLParam(r, "user_id")
	if !utils.ValidateUserID(w, userID) {
		return
	}

	var req models.RecommendationRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	result, err := app.Recommend(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err, models.CodeRecommendGenError)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// FeedbackHandler godoc
// @Summary 提交用餐反馈
// @Description 根据反馈内容调整口味画像，例如 "too salty" 会降低咸度，"not spicy enough" 会提高辣度
// @Tags 反馈
// @Accept json
// @Produce json
// @Param user_id path string true "用户ID"
// @Param request body models.FeedbackRequest true "反馈内容"
// @Success 200 {object} models.FeedbackResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 404 {object} models.APIResponse "用户不存在"
// @Failure 500 {object} models.APIResponse "保存失败"
// @Router /api/feedback/{user_id} [post]
func FeedbackHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	userID := chi.URLParam(r, "user_id")
	if !utils.ValidateUserID(w, userID) {
		return
	}

	var req models.FeedbackRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	result, err := app.SubmitFeedback(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, err, models.CodeFeedbackError)
		return
	}
	utils.WriteSuccessResponse(w, result)
}

// PushFeedbackHandler godoc
// @Summary 推送用餐反馈提醒
// @Description 通过第三方推送服务提醒用户为餐厅打分
// @Tags 推送
// @Accept json
// @Produce json
// @Param user_id path string true "用户ID"
// @Param request body models.PushFeedbackRequest true "餐厅信息"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 404 {object} models.APIResponse "用户不存在"
// @Failure 502 {object} models.APIResponse "推送失败"
// @Router /api/push/feedback/{user_id} [post]
func PushFeedbackHandler(w http.ResponseWriter, r *http.Request, app *services.FlavorApp) {
	userID := chi.URLParam(r, "user_id")
	if !utils.ValidateUserID(w, userID) {
		return
	}

	var req models.PushFeedbackRequest
	if !utils.DecodeJSON(w, r, &req) {
		return
	}

	if err := app.PushFeedback(r.Context(), userID, req.RestaurantName); err != nil {
		handleServiceError(w, err, models.CodeServerError)
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"user_id":         userID,
		"restaurant_name": req.RestaurantName,
	})
}

// parseSearchQuery 解析并校验搜索参数
func parseSearchQuery(w http.ResponseWriter, r *http.Request) (models.SearchRequest, bool) {
	q := r.URL.Query()
	req := models.SearchRequest{RadiusUnit: q.Get("radius_unit")}

	parse := func(name string) (*float64, bool) {
		raw := q.Get(name)
		if raw == "" {
			return nil, true
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.WriteCustomErrorResponse(w, models.CodeInvalidParams, "参数格式错误: "+name, map[string]interface{}{
				"param": name,
			})
			return nil, false
		}
		return &v, true
	}

	var ok bool
	if req.Lat, ok = parse("lat"); !ok {
		return req, false
	}
	if req.Lon, ok = parse("lon"); !ok {
		return req, false
	}
	radius, ok := parse("radius_value")
	if !ok {
		return req, false
	}
	if radius != nil {
		req.RadiusValue = *radius
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationError(w, err)
		return req, false
	}
	return req, true
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *chi.Mux, cfg *config.Config, app *services.FlavorApp) {
	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))

	r.Handle("/metrics", promhttp.Handler())


	r.Get("/api/profile/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		GetUserProfileHandler(w, r, app)
	})

	r.Get("/api/restaurants", func(w http.ResponseWriter, r *http.Request) {
		NearbyRestaurantsHandler(w, r, app)
	})

	r.Get("/api/restaurants/{place_id}/reviews", func(w http.ResponseWriter, r *http.Request) {
		RestaurantReviewsHandler(w, r, app)
	})

	// 会调用LLM的接口按IP限流
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSec)*time.Second))

		r.Post("/api/onboarding/{user_id}", func(w http.ResponseWriter, r *http.Request) {
			OnboardingHandler(w, r, app)
		})

		r.Post("/api/recommendations/{user_id}", func(w http.ResponseWriter, r *http.Request) {
			RecommendationHandler(w, r, app)
		})
	})

	r.Post("/api/feedback/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		FeedbackHandler(w, r, app)
	})

	r.Post("/api/push/feedback/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		PushFeedbackHandler(w, r, app)
	})
}
