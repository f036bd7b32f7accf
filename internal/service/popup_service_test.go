package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

func TestPopupService_List_OpenPopupsFirst(t *testing.T) {
	popups := &MockPopupStore{}
	popups.On("List").Return([]models.Popup{
		{ID: 1},
		{ID: 2, ClickableInPortal: true},
		{ID: 3, VisibleInPortal: true},
		{ID: 4, VisibleInPortal: true, ClickableInPortal: true},
		{ID: 5, ClickableInPortal: true},
		{ID: 6, VisibleInPortal: true, ClickableInPortal: true},
	}, nil)

	got, err := NewPopupService(popups).List()
	require.NoError(t, err)

	var ids []int
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{4, 6, 2, 5, 1, 3}, ids)
}

func TestPopupService_GetBySlug(t *testing.T) {
	popups := &MockPopupStore{}
	popups.On("GetBySlug", "edge-esmeralda").Return(&models.Popup{ID: 1, Slug: "edge-esmeralda"}, nil)
	popups.On("GetBySlug", "nowhere").Return(nil, sql.ErrNoRows)
	svc := NewPopupService(popups)

	p, err := svc.GetBySlug("edge-esmeralda")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	_, err = svc.GetBySlug("nowhere")
	assert.ErrorIs(t, err, utils.ErrPopupNotFound)
}
