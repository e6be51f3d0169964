package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bms-select/internal/services"
	apperrors "bms-select/pkg/errors"
	"bms-select/pkg/utils"
)

type PartController struct {
	partService   services.PartServiceInterface
	importService services.PartImportServiceInterface
	logger        *zap.Logger
}

func NewPartController(
	partService services.PartServiceInterface,
	importService services.PartImportServiceInterface,
	logger *zap.Logger,
) *PartController {
	return &PartController{
		partService:   partService,
		importService: importService,
		logger:        logger,
	}
}

func (ctrl *PartController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *PartController) GetParts(c echo.Context) error {
	filter := utils.ParseFilterFromQuery(c.Request().URL.Query())

	parts, total, err := ctrl.partService.GetParts(c.Request().Context(), filter)
	if err != nil {
		ctrl.logger.Error("GetParts: failed", zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, parts, "Parts list", http.StatusOK, total)
}

func (ctrl *PartController) FindPart(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	part, err := ctrl.partService.FindPart(c.Request().Context(), id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, part, "Part found", http.StatusOK)
}

// ImportParts accepts a multipart XLSX upload under the "file" field.
// ?dry_run=true walks the workbook and reports without committing.
func (ctrl *PartController) ImportParts(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusBadRequest, "no file was uploaded", err, nil))
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		return ctrl.errorResponse(c, apperrors.NewHttpError(
			http.StatusBadRequest,
			"only .xlsx workbooks are supported",
			nil,
			map[string]interface{}{"filename": fileHeader.Filename},
		))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return ctrl.errorResponse(c, apperrors.NewHttpError(http.StatusInternalServerError, "failed to read uploaded file", err, nil))
	}
	defer src.Close()

	dryRun := c.QueryParam("dry_run") == "true"

	report, err := ctrl.importService.ImportFromUpload(c.Request().Context(), src, fileHeader.Filename, dryRun)
	if err != nil {
		ctrl.logger.Error("ImportParts: import failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	return utils.SuccessResponse(c, report, "Import finished", http.StatusOK)
}
