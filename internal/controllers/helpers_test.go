package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/pkg/types"
	"bms-select/pkg/validation"
)

// envelope mirrors the standard response wrapper for decoding in tests.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// newJSONContext builds an echo context carrying a JSON request, with the
// same validator the server installs.
func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setIDParam(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

var testLogger = zap.NewNop()

// Stub services: each method delegates to its function field, so a test
// only fills in what the handler under test calls.

type stubPanelService struct {
	find    func(ctx context.Context, id uint64) (*dto.PanelDTO, error)
	create  func(ctx context.Context, payload dto.CreatePanelDTO) (*dto.PanelDTO, error)
	update  func(ctx context.Context, id uint64, payload dto.UpdatePanelDTO) (*dto.PanelDTO, error)
	remove  func(ctx context.Context, id uint64) error
	summary func(ctx context.Context, panelID uint64) (dto.PointSummaryDTO, error)
	export  func(ctx context.Context, panelID uint64) (*dto.PanelScheduleExportDTO, error)
}

func (s *stubPanelService) FindPanel(ctx context.Context, id uint64) (*dto.PanelDTO, error) {
	return s.find(ctx, id)
}
func (s *stubPanelService) CreatePanel(ctx context.Context, payload dto.CreatePanelDTO) (*dto.PanelDTO, error) {
	return s.create(ctx, payload)
}
func (s *stubPanelService) UpdatePanel(ctx context.Context, id uint64, payload dto.UpdatePanelDTO) (*dto.PanelDTO, error) {
	return s.update(ctx, id, payload)
}
func (s *stubPanelService) DeletePanel(ctx context.Context, id uint64) error {
	return s.remove(ctx, id)
}
func (s *stubPanelService) GetPointSummary(ctx context.Context, panelID uint64) (dto.PointSummaryDTO, error) {
	return s.summary(ctx, panelID)
}
func (s *stubPanelService) GetScheduleExport(ctx context.Context, panelID uint64) (*dto.PanelScheduleExportDTO, error) {
	return s.export(ctx, panelID)
}

type stubPointService struct {
	find   func(ctx context.Context, id uint64) (*dto.PointTemplateDTO, error)
	create func(ctx context.Context, payload dto.CreatePointTemplateDTO) (*dto.PointTemplateDTO, error)
	update func(ctx context.Context, id uint64, payload dto.UpdatePointTemplateDTO) (*dto.PointTemplateDTO, error)
	remove func(ctx context.Context, id uint64) error
}

func (s *stubPointService) FindPoint(ctx context.Context, id uint64) (*dto.PointTemplateDTO, error) {
	return s.find(ctx, id)
}
func (s *stubPointService) CreatePoint(ctx context.Context, payload dto.CreatePointTemplateDTO) (*dto.PointTemplateDTO, error) {
	return s.create(ctx, payload)
}
func (s *stubPointService) UpdatePoint(ctx context.Context, id uint64, payload dto.UpdatePointTemplateDTO) (*dto.PointTemplateDTO, error) {
	return s.update(ctx, id, payload)
}
func (s *stubPointService) DeletePoint(ctx context.Context, id uint64) error {
	return s.remove(ctx, id)
}

type stubTemplateService struct {
	create    func(ctx context.Context, payload dto.CreateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error)
	update    func(ctx context.Context, typeKey string, payload dto.UpdateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error)
	remove    func(ctx context.Context, typeKey string) error
	replicate func(ctx context.Context, typeKey string) (map[string]dto.EquipmentTemplateDTO, error)
}

func (s *stubTemplateService) CreateTemplate(ctx context.Context, payload dto.CreateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error) {
	return s.create(ctx, payload)
}
func (s *stubTemplateService) UpdateTemplate(ctx context.Context, typeKey string, payload dto.UpdateEquipmentTemplateDTO) (map[string]dto.EquipmentTemplateDTO, error) {
	return s.update(ctx, typeKey, payload)
}
func (s *stubTemplateService) DeleteTemplate(ctx context.Context, typeKey string) error {
	return s.remove(ctx, typeKey)
}
func (s *stubTemplateService) ReplicateTemplate(ctx context.Context, typeKey string) (map[string]dto.EquipmentTemplateDTO, error) {
	return s.replicate(ctx, typeKey)
}

type stubEquipmentService struct {
	find   func(ctx context.Context, id uint64) (*dto.ScheduledEquipmentDTO, error)
	create func(ctx context.Context, payload dto.CreateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error)
	update func(ctx context.Context, id uint64, payload dto.UpdateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error)
	remove func(ctx context.Context, id uint64) error
}

func (s *stubEquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.ScheduledEquipmentDTO, error) {
	return s.find(ctx, id)
}
func (s *stubEquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error) {
	return s.create(ctx, payload)
}
func (s *stubEquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateScheduledEquipmentDTO) (*dto.ScheduledEquipmentDTO, error) {
	return s.update(ctx, id, payload)
}
func (s *stubEquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	return s.remove(ctx, id)
}

type stubDataService struct {
	get func(ctx context.Context) (*dto.ScheduleDataDTO, error)
}

func (s *stubDataService) GetScheduleData(ctx context.Context) (*dto.ScheduleDataDTO, error) {
	return s.get(ctx)
}

type stubAuthService struct {
	login          func(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	getUserByID    func(ctx context.Context, userID uint64) (*entities.User, error)
	changePassword func(ctx context.Context, userID uint64, payload dto.ChangePasswordDTO) error
}

func (s *stubAuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	return s.login(ctx, payload)
}
func (s *stubAuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	return s.getUserByID(ctx, userID)
}
func (s *stubAuthService) ChangePassword(ctx context.Context, userID uint64, payload dto.ChangePasswordDTO) error {
	return s.changePassword(ctx, userID, payload)
}

type stubPartService struct {
	getParts func(ctx context.Context, filter types.Filter) ([]dto.PartDTO, uint64, error)
	find     func(ctx context.Context, id uint64) (*dto.PartDTO, error)
}

func (s *stubPartService) GetParts(ctx context.Context, filter types.Filter) ([]dto.PartDTO, uint64, error) {
	return s.getParts(ctx, filter)
}
func (s *stubPartService) FindPart(ctx context.Context, id uint64) (*dto.PartDTO, error) {
	return s.find(ctx, id)
}

type stubImportService struct {
	importFn func(ctx context.Context, upload io.Reader, originalName string, dryRun bool) (*dto.PartImportReportDTO, error)
}

func (s *stubImportService) ImportFromUpload(ctx context.Context, upload io.Reader, originalName string, dryRun bool) (*dto.PartImportReportDTO, error) {
	return s.importFn(ctx, upload, originalName, dryRun)
}
