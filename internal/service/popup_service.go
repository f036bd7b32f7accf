package service

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

// PopupService serves the popup city directory.
type PopupService struct {
	popups PopupStore
}

// NewPopupService constructs a PopupService.
func NewPopupService(popups PopupStore) *PopupService {
	return &PopupService{popups: popups}
}

// List returns popups with open ones first: visible and clickable, then
// clickable only, then the rest.
func (s *PopupService) List() ([]models.Popup, error) {
	popups, err := s.popups.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(popups, func(i, j int) bool {
		return popupRank(popups[i]) < popupRank(popups[j])
	})
	return popups, nil
}

func popupRank(p models.Popup) int {
	switch {
	case p.VisibleInPortal && p.ClickableInPortal:
		return 0
	case p.ClickableInPortal:
		return 1
	default:
		return 2
	}
}

// GetBySlug returns one popup.
func (s *PopupService) GetBySlug(slug string) (*models.Popup, error) {
	p, err := s.popups.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrPopupNotFound
		}
		return nil, err
	}
	return p, nil
}
