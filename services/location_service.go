package services

import (
	"context"
	"errors"
	"time"

	"flavor_ai/logger"
	"flavor_ai/models"
)

// ErrNoLocation 没有可用的定位信息
var ErrNoLocation = errors.New("no location available")

// StaticLocationProvider 使用请求中给出的坐标
type StaticLocationProvider struct {
	Lat *float64
	Lon *float64
}

func (p StaticLocationProvider) Locate(ctx context.Context) (models.Location, error) {
	if p.Lat == nil || p.Lon == nil {
		return models.Location{}, ErrNoLocation
	}
	return models.Location{Lat: *p.Lat, Lon: *p.Lon}, nil
}

// AcquireLocation 最多等待 timeout 获取位置，超时或失败时返回 fallback
func AcquireLocation(ctx context.Context, provider LocationProvider, timeout time.Duration, fallback models.Location) models.LocationResult {
	if provider == nil {
		return models.LocationResult{Location: fallback, Source: models.LocationSourceFallback}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type located struct {
		loc models.Location
		err error
	}
	ch := make(chan located, 1)
	go func() {
		loc, err := provider.Locate(ctx)
		ch <- located{loc: loc, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			if !errors.Is(r.err, ErrNoLocation) {
				logger.Warn("定位失败，使用默认坐标", "error", r.err)
			}
			return models.LocationResult{Location: fallback, Source: models.LocationSourceFallback}
		}
		return models.LocationResult{Location: r.loc, Source: models.LocationSourceRequest}
	case <-ctx.Done():
		logger.Warn("定位超时，使用默认坐标", "timeout", timeout.String())
		return models.LocationResult{Location: fallback, Source: models.LocationSourceFallback}
	}
}
