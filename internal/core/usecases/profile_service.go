package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/shelterly/shelterly/internal/core/domain"
	"github.com/shelterly/shelterly/internal/core/ports"
	"github.com/shelterly/shelterly/internal/pkg/geospatial"
)

// ProfileService handles shelter-profile business logic.
type ProfileService struct {
	profiles ports.ProfileRepository
	needs    ports.NeedRepository
	cache    ports.CacheService
	events   ports.EventPublisher
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ports.ProfileRepository, needs ports.NeedRepository, cache ports.CacheService, events ports.EventPublisher) *ProfileService {
	return &ProfileService{profiles: profiles, needs: needs, cache: cache, events: events}
}

// ListParams are the query parameters for ListVerified.
type ListParams struct {
	// Coordinate is the optional query point. When set, every entry gets
	// a DistanceKm and the page is ordered by ascending distance.
	Coordinate *domain.GeoPoint
	UrgentOnly bool
	Limit      int
	Offset     int
}

// ShelterPage is a ranked page of shelters plus the store-side total.
type ShelterPage struct {
	Data  []domain.ShelterView `json:"data"`
	Total int                  `json:"total"`
}

// ListVerified returns verified shelters ranked for the public map.
//
// The store pages by created_at descending before ranking, so an urgent_only
// filter can return fewer than limit entries even when more urgent matches
// exist beyond the page boundary.
func (s *ProfileService) ListVerified(ctx context.Context, p ListParams) (*ShelterPage, error) {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	cacheKey := listCacheKey(p)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var page ShelterPage
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		}
	}

	profiles, total, err := s.profiles.ListVerified(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list verified profiles: %w", err)
	}

	views := s.rank(ctx, profiles, p.Coordinate, p.UrgentOnly)

	page := &ShelterPage{Data: views, Total: total}
	if s.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return page, nil
}

// rank builds the view order for a fetched page: needs counts per shelter
// (looked up concurrently), distance when a query coordinate is present,
// urgent-only filtering after distance computation, then final ordering.
func (s *ProfileService) rank(ctx context.Context, profiles []domain.Profile, coord *domain.GeoPoint, urgentOnly bool) []domain.ShelterView {
	views := make([]domain.ShelterView, len(profiles))

	var wg sync.WaitGroup
	for i := range profiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i] = s.buildView(ctx, &profiles[i], coord)
		}(i)
	}
	wg.Wait()

	if urgentOnly {
		filtered := views[:0]
		for _, v := range views {
			if v.HasUrgentNeeds {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	if coord != nil {
		sort.SliceStable(views, func(a, b int) bool {
			return distOrInf(views[a].DistanceKm) < distOrInf(views[b].DistanceKm)
		})
	}

	if views == nil {
		views = []domain.ShelterView{}
	}
	return views
}

func (s *ProfileService) buildView(ctx context.Context, p *domain.Profile, coord *domain.GeoPoint) domain.ShelterView {
	needsCount, urgentCount := 0, 0
	needs, err := s.needs.ListByShelter(ctx, p.ID)
	if err != nil {
		// Degrade to zero counts rather than failing the whole page.
		slog.Warn("needs lookup failed, counting as zero", "shelter_id", p.ID, "error", err)
	} else {
		needsCount = len(needs)
		for _, n := range needs {
			if n.Urgency.IsUrgent() {
				urgentCount++
			}
		}
	}

	loc := domain.ParseLocation(p.Location)

	view := domain.ShelterView{
		ID:               p.ID,
		Name:             p.Name,
		City:             p.City,
		Location:         loc,
		HasUrgentNeeds:   urgentCount > 0,
		NeedsCount:       needsCount,
		UrgentNeedsCount: urgentCount,
	}

	if coord != nil {
		d := geospatial.DistanceKm(coord.Lat, coord.Lon, loc.Lat, loc.Lon)
		view.DistanceKm = &d
	}

	return view
}

// GetByID returns the public detail view of a verified shelter.
func (s *ProfileService) GetByID(ctx context.Context, id string) (*domain.ShelterDetail, error) {
	cacheKey := "shelters:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var detail domain.ShelterDetail
			if err := json.Unmarshal(data, &detail); err == nil {
				return &detail, nil
			}
		}
	}

	profile, err := s.profiles.GetVerifiedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ShelterDetail{
		ID:           profile.ID,
		Name:         profile.Name,
		City:         profile.City,
		Address:      profile.Address,
		Location:     domain.ParseLocation(profile.Location),
		PhoneNumber:  profile.PhoneNumber,
		WebsiteURL:   profile.WebsiteURL,
		CreatedAt:    profile.CreatedAt,
		NeedsSummary: s.needsSummary(ctx, id),
	}

	if s.cache != nil {
		if data, err := json.Marshal(detail); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return detail, nil
}

// GetOwn returns the full profile of the authenticated caller.
func (s *ProfileService) GetOwn(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// UpdateOwn applies an update to the caller's own profile.
func (s *ProfileService) UpdateOwn(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.UpdateResult, error) {
	if upd.Empty() {
		return nil, domain.ErrEmptyUpdate
	}

	res, err := s.profiles.Update(ctx, userID, upd)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "shelters:id:"+userID)
	}
	if s.events != nil {
		if err := s.events.PublishProfileUpdated(ctx, res); err != nil {
			slog.Warn("publish profile.updated failed", "profile_id", userID, "error", err)
		}
	}

	return res, nil
}

func (s *ProfileService) needsSummary(ctx context.Context, shelterID string) domain.NeedsSummary {
	needs, err := s.needs.ListByShelter(ctx, shelterID)
	if err != nil {
		slog.Warn("needs summary lookup failed", "shelter_id", shelterID, "error", err)
		return domain.NeedsSummary{}
	}

	var sum domain.NeedsSummary
	sum.Total = len(needs)
	for _, n := range needs {
		if n.Urgency.IsUrgent() {
			sum.Urgent++
		}
		if n.IsFulfilled {
			sum.Fulfilled++
		}
	}
	return sum
}

func listCacheKey(p ListParams) string {
	coord := "none"
	if p.Coordinate != nil {
		coord = fmt.Sprintf("%.4f:%.4f", p.Coordinate.Lat, p.Coordinate.Lon)
	}
	return fmt.Sprintf("shelters:list:%s:%t:%d:%d", coord, p.UrgentOnly, p.Limit, p.Offset)
}

func distOrInf(d *float64) float64 {
	if d == nil {
		return math.Inf(1)
	}
	return *d
}
