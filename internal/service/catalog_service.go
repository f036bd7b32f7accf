package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/popupcity/portal_api/internal/cache"
	"github.com/popupcity/portal_api/internal/models"
)

// CatalogService serves the active products of a popup, read through Redis.
type CatalogService struct {
	products ProductStore
	cache    CatalogStore
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(products ProductStore, cache CatalogStore) *CatalogService {
	return &CatalogService{products: products, cache: cache}
}

// Products returns the active catalog of popupID. Cache failures fall back
// to the database.
func (s *CatalogService) Products(ctx context.Context, popupID int) ([]models.Product, error) {
	products, err := s.cache.Get(ctx, popupID)
	if err == nil {
		return products, nil
	}
	if !cache.IsMiss(err) {
		log.Warn().Err(err).Int("popup_city_id", popupID).Msg("Catalog cache read failed")
	}

	products, err = s.products.ListActiveByPopup(popupID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, popupID, products); err != nil {
		log.Warn().Err(err).Int("popup_city_id", popupID).Msg("Catalog cache write failed")
	}
	return products, nil
}
