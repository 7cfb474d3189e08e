package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flavor_ai/config"
	"flavor_ai/logger"
	"flavor_ai/metrics"
	"flavor_ai/models"
	"flavor_ai/repository"
	"flavor_ai/utils"
)

// ErrEmptyUserID 用户ID为空
var ErrEmptyUserID = errors.New("user id is required")

// ExternalServiceError 外部服务调用失败，且需要告知调用方
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// FlavorApp 串联画像存储、餐厅搜索、口味标注和反馈调整
type FlavorApp struct {
	cfg       *config.Config
	store     repository.ProfileStore
	locks     *repository.UserLocks
	places    PlaceSearchProvider
	annotator FlavorAnnotator
	inferer   TasteInferer
	notifier  FeedbackNotifier
}

// Deps FlavorApp 依赖的外部组件
type Deps struct {
	Store     repository.ProfileStore
	Places    PlaceSearchProvider
	Annotator FlavorAnnotator
	Inferer   TasteInferer
	Notifier  FeedbackNotifier
}

func NewFlavorApp(cfg *config.Config, deps Deps) *FlavorApp {
	return &FlavorApp{
		cfg:       cfg,
		store:     deps.Store,
		locks:     repository.NewUserLocks(),
		places:    deps.Places,
		annotator: deps.Annotator,
		inferer:   deps.Inferer,
		notifier:  deps.Notifier,
	}
}

// Onboard 为新用户建立初始口味画像
func (a *FlavorApp) Onboard(ctx context.Context, userID string, req models.OnboardingRequest, opts repository.CreateOptions) (*models.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	profile := &models.UserProfile{
		UserID:              userID,
		TexturePreferences:  normalizeList(req.TexturePreferences),
		DietaryRestrictions: normalizeList(req.DietaryRestrictions),
		Allergies:           normalizeList(req.Allergies),
	}

	if req.Tastes != nil {
		if !req.Tastes.Valid() {
			return nil, &utils.ValidationError{Fields: map[string]string{"favorite_tastes": "min=0,max=1"}}
		}
		profile.FavoriteTastes = *req.Tastes
	} else {
		var inferred models.FlavorProfile
		if a.inferer != nil {
			inferred = a.inferer.Infer(ctx, req.Favorites)
		} else {
			inferred = models.FallbackFlavorProfile()
		}
		profile.FavoriteTastes = inferred.TasteVector
		if len(profile.TexturePreferences) == 0 {
			profile.TexturePreferences = normalizeList(inferred.Textures)
		}
	}

	unlock := a.locks.Lock(userID)
	defer unlock()

	created, err := a.store.Create(ctx, profile, opts)
	if err != nil {
		a.recordStoreError("create", err)
		return nil, err
	}

	logger.Info("用户建档完成",
		"user_id", userID,
		"favorites", len(req.Favorites),
		"overwrite", opts.Overwrite)
	return created, nil
}

// GetProfile 读取用户画像
func (a *FlavorApp) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	profile, err := a.store.Load(ctx, userID)
	if err != nil {
		a.recordStoreError("load", err)
		return nil, err
	}
	return profile, nil
}

// NearbyRestaurants 搜索附近餐厅，不做口味标注和排序
func (a *FlavorApp) NearbyRestaurants(ctx context.Context, req models.SearchRequest) *models.NearbyResult {
	loc, candidates := a.search(ctx, req)
	return &models.NearbyResult{Location: loc, Restaurants: candidates}
}

// Recommend 为用户生成推荐：定位 -> 搜索 -> 过滤 -> 一次批量口味标注 -> 打分排序
func (a *FlavorApp) Recommend(ctx context.Context, userID string, req models.RecommendationRequest) (*models.RecommendationResult, error) {
	profile, err := a.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			metrics.RecommendationRequests.WithLabelValues("not_found").Inc()
		} else {
			metrics.RecommendationRequests.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	loc, candidates := a.search(ctx, req.SearchRequest)

	topN := req.TopN
	if topN <= 0 {
		topN = a.cfg.Recommend.TopN
	}
	openNowOnly := a.cfg.Recommend.OpenNowOnly
	if req.OpenNowOnly != nil {
		openNowOnly = *req.OpenNowOnly
	}

	filtered := FilterCandidates(profile, candidates, req.TriedRestaurants, openNowOnly)
	if len(filtered) > 0 {
		filtered = AttachFlavors(filtered, a.annotate(ctx, filtered))
	}
	ranked := Score(profile, filtered, topN)

	outcome := "ok"
	if len(ranked) == 0 {
		outcome = "empty"
	}
	metrics.RecommendationRequests.WithLabelValues(outcome).Inc()

	logger.Info("推荐生成完成",
		"user_id", userID,
		"location_source", loc.Source,
		"candidates", len(candidates),
		"filtered", len(filtered),
		"returned", len(ranked))

	return &models.RecommendationResult{
		UserID:          userID,
		Location:        loc,
		Recommendations: ranked,
	}, nil
}

// SubmitFeedback 根据用餐反馈调整口味并保存，保存失败时返回错误
func (a *FlavorApp) SubmitFeedback(ctx context.Context, userID string, req models.FeedbackRequest) (*models.FeedbackResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}

	unlock := a.locks.Lock(userID)
	defer unlock()

	profile, err := a.store.Load(ctx, userID)
	if err != nil {
		a.recordStoreError("load", err)
		return nil, err
	}

	changes := ApplyFeedback(profile, req.Favorability, req.Comment)

	if err := a.store.Save(ctx, profile); err != nil {
		a.recordStoreError("save", err)
		return nil, err
	}

	logger.Info("反馈已记录",
		"user_id", userID,
		"restaurant", req.RestaurantName,
		"favorability", req.Favorability,
		"changes", len(changes))

	return &models.FeedbackResult{
		UserID:         userID,
		RestaurantName: req.RestaurantName,
		Favorability:   req.Favorability,
		Changes:        changes,
		Profile:        profile,
	}, nil
}

// Reviews 查询餐厅评论
func (a *FlavorApp) Reviews(ctx context.Context, placeID string) []models.Review {
	if a.places == nil || strings.TrimSpace(placeID) == "" {
		return []models.Review{}
	}
	return a.places.Reviews(ctx, placeID)
}

// PushFeedback 向已建档用户推送用餐反馈提醒
func (a *FlavorApp) PushFeedback(ctx context.Context, userID, restaurantName string) error {
	if _, err := a.GetProfile(ctx, userID); err != nil {
		return err
	}
	if a.notifier == nil {
		return &ExternalServiceError{Service: "feedback_push", Err: ErrPushNotConfigured}
	}
	if err := a.notifier.PushFeedbackRequest(ctx, userID, restaurantName); err != nil {
		logger.Error("推送反馈提醒失败", "user_id", userID, "restaurant", restaurantName, "error", err)
		return &ExternalServiceError{Service: "feedback_push", Err: err}
	}
	return nil
}

func (a *FlavorApp) search(ctx context.Context, req models.SearchRequest) (models.LocationResult, []models.RestaurantCandidate) {
	fallback := models.Location{Lat: a.cfg.Recommend.FallbackLat, Lon: a.cfg.Recommend.FallbackLon}
	timeout := time.Duration(a.cfg.Location.TimeoutSec) * time.Second
	loc := AcquireLocation(ctx, StaticLocationProvider{Lat: req.Lat, Lon: req.Lon}, timeout, fallback)

	radiusValue, radiusUnit := req.RadiusValue, req.RadiusUnit
	if radiusValue <= 0 {
		radiusValue = a.cfg.Recommend.RadiusValue
	}
	if radiusUnit == "" {
		radiusUnit = a.cfg.Recommend.RadiusUnit
	}
	meters, ok := RadiusToMeters(radiusValue, radiusUnit)
	if !ok {
		logger.Warn("无效的半径单位", "radius_unit", radiusUnit)
		return loc, []models.RestaurantCandidate{}
	}
	if a.places == nil {
		return loc, []models.RestaurantCandidate{}
	}
	return loc, a.places.FindNearby(ctx, loc.Location.Lat, loc.Location.Lon, meters)
}

// annotate 对过滤后的餐厅做一次批量口味标注
func (a *FlavorApp) annotate(ctx context.Context, candidates []models.RestaurantCandidate) map[string]models.FlavorProfile {
	if a.annotator == nil {
		return map[string]models.FlavorProfile{}
	}
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}

	// 覆盖一次重试的总时长
	deadline := 2 * time.Duration(a.cfg.LLM.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	return a.annotator.Annotate(ctx, utils.DeduplicateSlice(names))
}

func (a *FlavorApp) recordStoreError(op string, err error) {
	if errors.Is(err, repository.ErrProfileNotFound) || errors.Is(err, repository.ErrProfileExists) {
		return
	}
	metrics.ProfileStoreErrors.WithLabelValues(op).Inc()
	logger.Error("画像存储操作失败", "op", op, "error", err)
}

// normalizeList 拆开列表项中的逗号并去重，保证逗号拼接存储后能原样读回
func normalizeList(items []string) []string {
	return utils.DeduplicateSlice(utils.SplitList(strings.Join(items, ",")))
}
