package services

import (
	"context"
	"sync"

	"flavor_ai/models"
)

// fakeChat 返回固定内容的 ChatCompleter
type fakeChat struct {
	mu      sync.Mutex
	content string
	err     error
	prompts []string
}

func (f *fakeChat) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.content, f.err
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakePlaces 返回固定候选餐厅
type fakePlaces struct {
	candidates []models.RestaurantCandidate
	reviews    map[string][]models.Review
	lastLat    float64
	lastLon    float64
	lastRadius float64
	searches   int
}

func (f *fakePlaces) FindNearby(ctx context.Context, lat, lon, radiusMeters float64) []models.RestaurantCandidate {
	f.searches++
	f.lastLat, f.lastLon, f.lastRadius = lat, lon, radiusMeters
	out := make([]models.RestaurantCandidate, len(f.candidates))
	copy(out, f.candidates)
	return out
}

func (f *fakePlaces) Reviews(ctx context.Context, placeID string) []models.Review {
	if r, ok := f.reviews[placeID]; ok {
		return r
	}
	return []models.Review{}
}

// fakeAnnotator 记录每次标注请求
type fakeAnnotator struct {
	profiles map[string]models.FlavorProfile
	requests [][]string
}

func (f *fakeAnnotator) Annotate(ctx context.Context, names []string) map[string]models.FlavorProfile {
	f.requests = append(f.requests, names)
	if f.profiles == nil {
		return map[string]models.FlavorProfile{}
	}
	return f.profiles
}

type fakeInferer struct {
	profile models.FlavorProfile
}

func (f fakeInferer) Infer(ctx context.Context, favorites []string) models.FlavorProfile {
	return f.profile
}

type fakeNotifier struct {
	err  error
	sent []string
}

func (f *fakeNotifier) PushFeedbackRequest(ctx context.Context, userID, restaurantName string) error {
	f.sent = append(f.sent, userID+"|"+restaurantName)
	return f.err
}
