package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/services"
	apperrors "bms-select/pkg/errors"
	"bms-select/pkg/utils"
)

type PanelController struct {
	panelService services.PanelServiceInterface
	logger       *zap.Logger
}

func NewPanelController(panelService services.PanelServiceInterface, logger *zap.Logger) *PanelController {
	return &PanelController{panelService: panelService, logger: logger}
}

func (ctrl *PanelController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *PanelController) CreatePanel(c echo.Context) error {
	var payload dto.CreatePanelDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid panel payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	panel, err := ctrl.panelService.CreatePanel(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Warn("CreatePanel: failed", zap.String("panelName", payload.PanelName), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, panel, "Panel created", http.StatusCreated)
}

func (ctrl *PanelController) UpdatePanel(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var payload dto.UpdatePanelDTO
	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "invalid panel payload", err, nil))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	panel, err := ctrl.panelService.UpdatePanel(c.Request().Context(), id, payload)
	if err != nil {
		ctrl.logger.Warn("UpdatePanel: failed", zap.Uint64("panelID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, panel, "Panel updated", http.StatusOK)
}

func (ctrl *PanelController) DeletePanel(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.panelService.DeletePanel(c.Request().Context(), id); err != nil {
		ctrl.logger.Warn("DeletePanel: failed", zap.Uint64("panelID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, struct{}{}, "Panel deleted", http.StatusOK)
}

// GetPointSummary returns the bare {pointType: count} map; the embedded page
// consumes this shape directly.
func (ctrl *PanelController) GetPointSummary(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	summary, err := ctrl.panelService.GetPointSummary(c.Request().Context(), id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

func (ctrl *PanelController) ExportSchedule(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	export, err := ctrl.panelService.GetScheduleExport(c.Request().Context(), id)
	if err != nil {
		ctrl.logger.Warn("ExportSchedule: failed", zap.Uint64("panelID", id), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return ctrl.respondWithXLSX(c, export)
}

var scheduleHeaders = []string{"#", "Instance Name", "Equipment Type", "Template", "Quantity", "Selected Points"}

func (ctrl *PanelController) respondWithXLSX(c echo.Context, export *dto.PanelScheduleExportDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &scheduleHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "F1", style)

	for i, item := range export.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			i + 1, item.InstanceName, item.TypeKey, item.TemplateName,
			item.Quantity, strings.Join(item.PointNames, ", "),
		}
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "D", 20)
	f.SetColWidth(sheet, "F", "F", 60)

	summarySheet := "Point Summary"
	f.NewSheet(summarySheet)
	summaryHeaders := []interface{}{"Point Type", "Total Count"}
	f.SetSheetRow(summarySheet, "A1", &summaryHeaders)
	f.SetCellStyle(summarySheet, "A1", "B1", style)
	for i, pointType := range sortedSummaryKeys(export.Summary) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{pointType, export.Summary[pointType]}
		f.SetSheetRow(summarySheet, cell, &row)
	}
	f.SetColWidth(summarySheet, "A", "B", 18)

	fileName := fmt.Sprintf("schedule_%s_%s.xlsx", export.Panel.PanelName, time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}

func sortedSummaryKeys(summary dto.PointSummaryDTO) []string {
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// parseIDParam reads the :id route parameter shared by the entity endpoints.
func parseIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"invalid id parameter",
			err,
			map[string]interface{}{"param": c.Param("id")},
		)
	}
	return id, nil
}
