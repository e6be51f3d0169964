package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bms-select/internal/entities"
	apperrors "bms-select/pkg/errors"
	"bms-select/pkg/types"
	"bms-select/pkg/utils"
)

// errCacheMiss stands in for the driver's nil-reply error; callers only
// check err == nil, so any non-nil error works.
var errCacheMiss = errors.New("cache: key not found")

// fakes bundles in-memory repository doubles wired the way the router wires
// the real ones: the equipment fake resolves joined panel and template
// fields through the panel and template fakes.
type fakes struct {
	panels    *fakePanelRepo
	points    *fakePointTemplateRepo
	templates *fakeEquipmentTemplateRepo
	equipment *fakeScheduledEquipmentRepo
	parts     *fakePartRepo
	users     *fakeUserRepo
	cache     *fakeCacheRepo
	tx        *fakeTxManager
	logger    *zap.Logger
}

func newFakes() *fakes {
	f := &fakes{
		panels:    &fakePanelRepo{items: map[uint64]entities.Panel{}},
		templates: &fakeEquipmentTemplateRepo{items: map[uint64]entities.EquipmentTemplate{}},
		parts:     &fakePartRepo{items: map[uint64]entities.Part{}},
		users:     &fakeUserRepo{items: map[uint64]entities.User{}},
		cache:     &fakeCacheRepo{values: map[string]string{}},
		tx:        &fakeTxManager{},
		logger:    zap.NewNop(),
	}
	f.points = &fakePointTemplateRepo{items: map[uint64]entities.PointTemplate{}, templates: f.templates}
	f.equipment = &fakeScheduledEquipmentRepo{
		items:     map[uint64]entities.ScheduledEquipment{},
		panels:    f.panels,
		templates: f.templates,
	}
	return f
}

func (f *fakes) addPanel(name, floor string) entities.Panel {
	f.panels.nextID++
	panel := entities.Panel{ID: f.panels.nextID, PanelName: name, Floor: floor}
	f.panels.items[panel.ID] = panel
	return panel
}

func (f *fakes) addPoint(name, pointType string) entities.PointTemplate {
	f.points.nextID++
	point := entities.PointTemplate{ID: f.points.nextID, Name: name, PointType: pointType}
	f.points.items[point.ID] = point
	return point
}

func (f *fakes) addTemplate(typeKey, name string, points ...entities.EquipmentTemplatePoint) entities.EquipmentTemplate {
	f.templates.nextID++
	template := entities.EquipmentTemplate{ID: f.templates.nextID, TypeKey: typeKey, Name: name, Points: points}
	f.templates.items[template.ID] = template
	return template
}

func (f *fakes) addEquipment(instanceName string, quantity int, panelID, templateID uint64, selected ...uint64) entities.ScheduledEquipment {
	f.equipment.nextID++
	equip := entities.ScheduledEquipment{
		ID:                  f.equipment.nextID,
		InstanceName:        instanceName,
		Quantity:            quantity,
		PanelID:             panelID,
		EquipmentTemplateID: templateID,
		SelectedPoints:      selected,
	}
	f.equipment.items[equip.ID] = equip
	return equip
}

func (f *fakes) addUser(t *testing.T, username, password string, mustChange bool) entities.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	f.users.nextID++
	user := entities.User{ID: f.users.nextID, Username: username, Password: hash, MustChangePassword: mustChange}
	f.users.items[user.ID] = user
	return user
}

type fakePanelRepo struct {
	items  map[uint64]entities.Panel
	nextID uint64
}

func (r *fakePanelRepo) GetAll(ctx context.Context) ([]entities.Panel, error) {
	result := make([]entities.Panel, 0, len(r.items))
	for _, panel := range r.items {
		result = append(result, panel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePanelRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Panel, error) {
	panel, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &panel, nil
}

func (r *fakePanelRepo) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.Panel, error) {
	for _, panel := range r.items {
		if panel.PanelName == name {
			found := panel
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakePanelRepo) Create(ctx context.Context, tx pgx.Tx, panel entities.Panel) (uint64, error) {
	r.nextID++
	panel.ID = r.nextID
	r.items[panel.ID] = panel
	return panel.ID, nil
}

func (r *fakePanelRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, panel entities.Panel) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	panel.ID = id
	r.items[id] = panel
	return nil
}

func (r *fakePanelRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakePointTemplateRepo struct {
	items     map[uint64]entities.PointTemplate
	nextID    uint64
	templates *fakeEquipmentTemplateRepo
}

func (r *fakePointTemplateRepo) GetAll(ctx context.Context) ([]entities.PointTemplate, error) {
	result := make([]entities.PointTemplate, 0, len(r.items))
	for _, point := range r.items {
		result = append(result, point)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePointTemplateRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PointTemplate, error) {
	point, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &point, nil
}

func (r *fakePointTemplateRepo) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.PointTemplate, error) {
	for _, point := range r.items {
		if point.Name == name {
			found := point
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakePointTemplateRepo) ListExistingIDs(ctx context.Context, tx pgx.Tx, ids []uint64) ([]uint64, error) {
	result := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := r.items[id]; ok {
			result = append(result, id)
		}
	}
	return result, nil
}

func (r *fakePointTemplateRepo) CountEquipmentTemplateRefs(ctx context.Context, tx pgx.Tx, pointID uint64) (uint64, error) {
	var refs uint64
	for _, template := range r.templates.items {
		for _, point := range template.Points {
			if point.PointTemplateID == pointID {
				refs++
			}
		}
	}
	return refs, nil
}

func (r *fakePointTemplateRepo) Create(ctx context.Context, tx pgx.Tx, point entities.PointTemplate) (uint64, error) {
	r.nextID++
	point.ID = r.nextID
	r.items[point.ID] = point
	return point.ID, nil
}

func (r *fakePointTemplateRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, point entities.PointTemplate) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	point.ID = id
	r.items[id] = point
	return nil
}

func (r *fakePointTemplateRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeEquipmentTemplateRepo struct {
	items  map[uint64]entities.EquipmentTemplate
	nextID uint64
}

func (r *fakeEquipmentTemplateRepo) GetAll(ctx context.Context) ([]entities.EquipmentTemplate, error) {
	result := make([]entities.EquipmentTemplate, 0, len(r.items))
	for _, template := range r.items {
		result = append(result, template)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeEquipmentTemplateRepo) FindByTypeKey(ctx context.Context, tx pgx.Tx, typeKey string) (*entities.EquipmentTemplate, error) {
	for _, template := range r.items {
		if template.TypeKey == typeKey {
			found := template
			found.Points = append([]entities.EquipmentTemplatePoint(nil), template.Points...)
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentTemplateRepo) ExistsByTypeKey(ctx context.Context, tx pgx.Tx, typeKey string) (bool, error) {
	for _, template := range r.items {
		if template.TypeKey == typeKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEquipmentTemplateRepo) Create(ctx context.Context, tx pgx.Tx, template entities.EquipmentTemplate) (uint64, error) {
	r.nextID++
	template.ID = r.nextID
	r.items[template.ID] = template
	return template.ID, nil
}

func (r *fakeEquipmentTemplateRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, template entities.EquipmentTemplate) error {
	existing, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	template.ID = id
	template.Points = existing.Points
	r.items[id] = template
	return nil
}

func (r *fakeEquipmentTemplateRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentTemplateRepo) ReplacePoints(ctx context.Context, tx pgx.Tx, templateID uint64, points []entities.EquipmentTemplatePoint) error {
	template, ok := r.items[templateID]
	if !ok {
		return apperrors.ErrNotFound
	}
	template.Points = append([]entities.EquipmentTemplatePoint(nil), points...)
	r.items[templateID] = template
	return nil
}

type fakeScheduledEquipmentRepo struct {
	items     map[uint64]entities.ScheduledEquipment
	nextID    uint64
	panels    *fakePanelRepo
	templates *fakeEquipmentTemplateRepo
}

// resolve fills the joined panel and template columns the way the SQL
// repository's SELECT does.
func (r *fakeScheduledEquipmentRepo) resolve(equip entities.ScheduledEquipment) entities.ScheduledEquipment {
	if panel, ok := r.panels.items[equip.PanelID]; ok {
		equip.PanelName = panel.PanelName
	}
	if template, ok := r.templates.items[equip.EquipmentTemplateID]; ok {
		equip.TypeKey = template.TypeKey
	}
	equip.SelectedPoints = append([]uint64(nil), equip.SelectedPoints...)
	return equip
}

func (r *fakeScheduledEquipmentRepo) GetAll(ctx context.Context) ([]entities.ScheduledEquipment, error) {
	result := make([]entities.ScheduledEquipment, 0, len(r.items))
	for _, equip := range r.items {
		result = append(result, r.resolve(equip))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeScheduledEquipmentRepo) GetByPanel(ctx context.Context, panelID uint64) ([]entities.ScheduledEquipment, error) {
	result := make([]entities.ScheduledEquipment, 0)
	for _, equip := range r.items {
		if equip.PanelID == panelID {
			result = append(result, r.resolve(equip))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeScheduledEquipmentRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ScheduledEquipment, error) {
	equip, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	resolved := r.resolve(equip)
	return &resolved, nil
}

func (r *fakeScheduledEquipmentRepo) CountByTemplate(ctx context.Context, tx pgx.Tx, templateID uint64) (uint64, error) {
	var refs uint64
	for _, equip := range r.items {
		if equip.EquipmentTemplateID == templateID {
			refs++
		}
	}
	return refs, nil
}

func (r *fakeScheduledEquipmentRepo) Create(ctx context.Context, tx pgx.Tx, equipment entities.ScheduledEquipment) (uint64, error) {
	r.nextID++
	equipment.ID = r.nextID
	r.items[equipment.ID] = equipment
	return equipment.ID, nil
}

func (r *fakeScheduledEquipmentRepo) Update(ctx context.Context, tx pgx.Tx, id uint64, equipment entities.ScheduledEquipment) error {
	existing, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	equipment.ID = id
	equipment.SelectedPoints = existing.SelectedPoints
	r.items[id] = equipment
	return nil
}

func (r *fakeScheduledEquipmentRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeScheduledEquipmentRepo) ReplaceSelectedPoints(ctx context.Context, tx pgx.Tx, equipmentID uint64, pointIDs []uint64) error {
	equip, ok := r.items[equipmentID]
	if !ok {
		return apperrors.ErrNotFound
	}
	equip.SelectedPoints = append([]uint64(nil), pointIDs...)
	r.items[equipmentID] = equip
	return nil
}

type fakePartRepo struct {
	items  map[uint64]entities.Part
	nextID uint64
}

func (r *fakePartRepo) GetParts(ctx context.Context, filter types.Filter) ([]entities.Part, uint64, error) {
	result := make([]entities.Part, 0, len(r.items))
	for _, part := range r.items {
		result = append(result, part)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, uint64(len(result)), nil
}

func (r *fakePartRepo) FindByID(ctx context.Context, id uint64) (*entities.Part, error) {
	part, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &part, nil
}

func (r *fakePartRepo) FindByPartNumber(ctx context.Context, tx pgx.Tx, partNumber string) (*entities.Part, error) {
	for _, part := range r.items {
		if part.PartNumber == partNumber {
			found := part
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakePartRepo) ListPartNumbers(ctx context.Context) ([]string, error) {
	result := make([]string, 0, len(r.items))
	for _, part := range r.items {
		result = append(result, part.PartNumber)
	}
	sort.Strings(result)
	return result, nil
}

func (r *fakePartRepo) Create(ctx context.Context, tx pgx.Tx, part entities.Part) (uint64, error) {
	r.nextID++
	part.ID = r.nextID
	r.items[part.ID] = part
	return part.ID, nil
}

type fakeUserRepo struct {
	items  map[uint64]entities.User
	nextID uint64
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, user := range r.items {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CountUsers(ctx context.Context) (uint64, error) {
	return uint64(len(r.items)), nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	r.nextID++
	user.ID = r.nextID
	r.items[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string, mustChange bool) error {
	user, ok := r.items[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Password = passwordHash
	user.MustChangePassword = mustChange
	r.items[userID] = user
	return nil
}

// fakeCacheRepo keeps values in a plain map and records deletes so tests
// can assert on cache invalidation.
type fakeCacheRepo struct {
	values  map[string]string
	deleted []string
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		r.values[key] = string(v)
	case string:
		r.values[key] = v
	default:
		r.values[key] = fmt.Sprint(v)
	}
	return nil
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	value, ok := r.values[key]
	if !ok {
		return "", errCacheMiss
	}
	return value, nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(r.values, key)
		r.deleted = append(r.deleted, key)
	}
	return nil
}

func (r *fakeCacheRepo) Incr(ctx context.Context, key string) (int64, error) {
	current, _ := strconv.ParseInt(r.values[key], 10, 64)
	current++
	r.values[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (r *fakeCacheRepo) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	_, ok := r.values[key]
	return ok, nil
}

func (r *fakeCacheRepo) deleteCount(key string) int {
	var count int
	for _, deleted := range r.deleted {
		if deleted == key {
			count++
		}
	}
	return count
}

// fakeTxManager runs the callback with a nil transaction; the fakes ignore
// the tx argument the same way the real repositories fall back to the pool.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}
