package service

import (
	"campussafety/internal/cache"
	"campussafety/internal/log"
	"campussafety/internal/model"
	"campussafety/internal/repository"
	"context"
)

// LocationService looks up an account's locations through the cache
type LocationService struct {
	repo  repository.LocationRepo
	cache cache.LocationCache
}

func NewLocationService(repo repository.LocationRepo, cache cache.LocationCache) *LocationService {
	return &LocationService{repo: repo, cache: cache}
}

// List returns the account's locations. Cache failures fall through to the
// database.
func (s *LocationService) List(ctx context.Context, accountID string) ([]model.Location, error) {
	cached, err := s.cache.Get(ctx, accountID)
	if err != nil {
		log.WithFields(log.Fields{"account": accountID}).WithError(err).Warn("location cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	locations, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, accountID, locations); err != nil {
		log.WithFields(log.Fields{"account": accountID}).WithError(err).Warn("location cache write failed")
	}
	return locations, nil
}
