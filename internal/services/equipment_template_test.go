package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	apperrors "bms-select/pkg/errors"
)

func newTemplateService(f *fakes) EquipmentTemplateServiceInterface {
	return NewEquipmentTemplateService(f.templates, f.points, f.equipment, f.tx, f.cache, f.logger)
}

func TestFilterTemplatePoints(t *testing.T) {
	existing := []uint64{1, 2, 3}

	tests := []struct {
		name     string
		points   []dto.TemplatePointDTO
		expected []entities.EquipmentTemplatePoint
	}{
		{
			name:     "empty list",
			points:   nil,
			expected: []entities.EquipmentTemplatePoint{},
		},
		{
			name: "unknown ids dropped",
			points: []dto.TemplatePointDTO{
				{ID: 1, Quantity: 2},
				{ID: 99, Quantity: 1},
			},
			expected: []entities.EquipmentTemplatePoint{
				{PointTemplateID: 1, Quantity: 2},
			},
		},
		{
			name: "duplicate keeps first entry",
			points: []dto.TemplatePointDTO{
				{ID: 2, Quantity: 3},
				{ID: 2, Quantity: 7},
			},
			expected: []entities.EquipmentTemplatePoint{
				{PointTemplateID: 2, Quantity: 3},
			},
		},
		{
			name: "missing quantity defaults to one",
			points: []dto.TemplatePointDTO{
				{ID: 3},
			},
			expected: []entities.EquipmentTemplatePoint{
				{PointTemplateID: 3, Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filterTemplatePoints(tt.points, existing))
		})
	}
}

func TestEquipmentTemplateService_CreateTemplate(t *testing.T) {
	f := newFakes()
	svc := newTemplateService(f)
	supply := f.addPoint("Supply Air Temp", "AI")
	f.addTemplate("ahu", "Air Handling Unit")

	t.Run("success wraps the template under its type key", func(t *testing.T) {
		wrapped, err := svc.CreateTemplate(context.Background(), dto.CreateEquipmentTemplateDTO{
			TypeKey: "fcu",
			Name:    "Fan Coil Unit",
			Points: []dto.TemplatePointDTO{
				{ID: supply.ID, Quantity: 2},
				{ID: 999, Quantity: 1},
			},
		})
		require.NoError(t, err)
		require.Contains(t, wrapped, "fcu")

		template := wrapped["fcu"]
		assert.Equal(t, "Fan Coil Unit", template.Name)
		require.Len(t, template.Points, 1)
		assert.Equal(t, supply.ID, template.Points[0].ID)
		assert.Equal(t, 2, template.Points[0].Quantity)
		assert.Equal(t, 1, f.cache.deleteCount(scheduleDataCacheKey))
	})

	t.Run("taken type key", func(t *testing.T) {
		_, err := svc.CreateTemplate(context.Background(), dto.CreateEquipmentTemplateDTO{TypeKey: "ahu", Name: "Another AHU"})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		assert.Equal(t, "Equipment type key 'ahu' already exists.", httpErr.Message)
	})
}

func TestEquipmentTemplateService_UpdateTemplate(t *testing.T) {
	f := newFakes()
	svc := newTemplateService(f)
	supply := f.addPoint("Supply Air Temp", "AI")
	fan := f.addPoint("Fan Status", "DI")
	f.addTemplate("ahu", "Air Handling Unit", entities.EquipmentTemplatePoint{PointTemplateID: supply.ID, Quantity: 1})
	f.addTemplate("fcu", "Fan Coil Unit")

	t.Run("replaces the point list", func(t *testing.T) {
		wrapped, err := svc.UpdateTemplate(context.Background(), "ahu", dto.UpdateEquipmentTemplateDTO{
			TypeKey: "ahu",
			Name:    "Air Handling Unit v2",
			Points:  []dto.TemplatePointDTO{{ID: fan.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.Contains(t, wrapped, "ahu")
		assert.Equal(t, "Air Handling Unit v2", wrapped["ahu"].Name)
		require.Len(t, wrapped["ahu"].Points, 1)
		assert.Equal(t, fan.ID, wrapped["ahu"].Points[0].ID)
	})

	t.Run("rename to a free key", func(t *testing.T) {
		wrapped, err := svc.UpdateTemplate(context.Background(), "ahu", dto.UpdateEquipmentTemplateDTO{
			TypeKey: "rtu",
			Name:    "Rooftop Unit",
			Points:  []dto.TemplatePointDTO{},
		})
		require.NoError(t, err)
		require.Contains(t, wrapped, "rtu")

		_, err = f.templates.FindByTypeKey(context.Background(), nil, "ahu")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("rename onto a taken key", func(t *testing.T) {
		_, err := svc.UpdateTemplate(context.Background(), "rtu", dto.UpdateEquipmentTemplateDTO{
			TypeKey: "fcu",
			Name:    "Rooftop Unit",
			Points:  []dto.TemplatePointDTO{},
		})
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := svc.UpdateTemplate(context.Background(), "chiller", dto.UpdateEquipmentTemplateDTO{TypeKey: "chiller", Name: "Chiller"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestEquipmentTemplateService_DeleteTemplate(t *testing.T) {
	f := newFakes()
	svc := newTemplateService(f)
	panel := f.addPanel("LP-GF-01", "Ground Floor")
	ahu := f.addTemplate("ahu", "Air Handling Unit")
	f.addTemplate("fcu", "Fan Coil Unit")
	f.addEquipment("AHU-GF-01", 1, panel.ID, ahu.ID)

	t.Run("still scheduled", func(t *testing.T) {
		err := svc.DeleteTemplate(context.Background(), "ahu")
		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		assert.Equal(t, "Equipment template is currently used by scheduled equipment and cannot be deleted.", httpErr.Message)
	})

	t.Run("unused template", func(t *testing.T) {
		require.NoError(t, svc.DeleteTemplate(context.Background(), "fcu"))
		_, err := f.templates.FindByTypeKey(context.Background(), nil, "fcu")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unknown template", func(t *testing.T) {
		err := svc.DeleteTemplate(context.Background(), "chiller")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestEquipmentTemplateService_ReplicateTemplate(t *testing.T) {
	f := newFakes()
	svc := newTemplateService(f)
	supply := f.addPoint("Supply Air Temp", "AI")
	f.addTemplate("ahu", "Air Handling Unit", entities.EquipmentTemplatePoint{PointTemplateID: supply.ID, Quantity: 2})

	t.Run("first copy", func(t *testing.T) {
		wrapped, err := svc.ReplicateTemplate(context.Background(), "ahu")
		require.NoError(t, err)
		require.Contains(t, wrapped, "ahu_copy1")

		copied := wrapped["ahu_copy1"]
		assert.Equal(t, "Air Handling Unit (Copy 1)", copied.Name)
		require.Len(t, copied.Points, 1)
		assert.Equal(t, supply.ID, copied.Points[0].ID)
		assert.Equal(t, 2, copied.Points[0].Quantity)
	})

	t.Run("suffix skips taken keys", func(t *testing.T) {
		wrapped, err := svc.ReplicateTemplate(context.Background(), "ahu")
		require.NoError(t, err)
		require.Contains(t, wrapped, "ahu_copy2")
		assert.Equal(t, "Air Handling Unit (Copy 2)", wrapped["ahu_copy2"].Name)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := svc.ReplicateTemplate(context.Background(), "chiller")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
