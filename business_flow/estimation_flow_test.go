package businessflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/heimanarii/fenua-estim/app/dto"
	"github.com/heimanarii/fenua-estim/app/services"
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// stubValuation answers with a fixed estimate and records the wire request
type stubValuation struct {
	estimate *services.ValuationEstimate
	err      error
	lastReq  services.ValuationRequest
	calls    int
}

func (s *stubValuation) Estimate(ctx context.Context, req services.ValuationRequest) (*services.ValuationEstimate, error) {
	s.lastReq = req
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.estimate, nil
}

// stubStorage keeps uploads in memory
type stubStorage struct {
	uploads map[string][]byte
	err     error
}

func newStubStorage() *stubStorage {
	return &stubStorage{uploads: map[string][]byte{}}
}

func (s *stubStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error {
	return nil
}

// memEstimationRepo is an in-memory EstimationRepository
type memEstimationRepo struct {
	records   map[uint]*models.Estimation
	nextID    uint
	saveErr   error
	updateErr error
}

func newMemEstimationRepo() *memEstimationRepo {
	return &memEstimationRepo{records: map[uint]*models.Estimation{}}
}

func (m *memEstimationRepo) ByID(ctx context.Context, id uint) (*models.Estimation, error) {
	return m.records[id], nil
}

func (m *memEstimationRepo) ByFilter(ctx context.Context, filter models.EstimationFilter, orderBy string, limit, offset int) ([]*models.Estimation, error) {
	var out []*models.Estimation
	for _, r := range m.records {
		if filter.AgentID != nil && r.AgentID != *filter.AgentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memEstimationRepo) Save(ctx context.Context, entity *models.Estimation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if entity.ID == 0 {
		m.nextID++
		entity.ID = m.nextID
	}
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	m.records[entity.ID] = entity
	return nil
}

func (m *memEstimationRepo) Count(ctx context.Context, filter models.EstimationFilter) (int64, error) {
	list, _ := m.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(list)), nil
}

func (m *memEstimationRepo) Exists(ctx context.Context, filter models.EstimationFilter) (bool, error) {
	count, _ := m.Count(ctx, filter)
	return count > 0, nil
}

func (m *memEstimationRepo) ByUUID(ctx context.Context, id string) (*models.Estimation, error) {
	for _, r := range m.records {
		if r.UUID.String() == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memEstimationRepo) ByAgentID(ctx context.Context, agentID uint, limit, offset int) ([]*models.Estimation, error) {
	return m.ByFilter(ctx, models.EstimationFilter{AgentID: &agentID}, "", limit, offset)
}

func (m *memEstimationRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	r, ok := m.records[id]
	if !ok {
		return errors.New("record not found")
	}
	for k, v := range fields {
		switch k {
		case "prix_ajuste":
			val := v.(int64)
			r.PrixAjuste = &val
		case "notes":
			val := v.(string)
			r.Notes = &val
		case "photo_url":
			val := v.(string)
			r.PhotoURL = &val
		case "extra_photo_urls":
			r.ExtraPhotoURLs = v.(models.StringList)
		case "section_visibility":
			r.SectionVisibility = v.(models.SectionVisibility)
		}
	}
	return nil
}

func (m *memEstimationRepo) DeleteByID(ctx context.Context, id uint) error {
	delete(m.records, id)
	return nil
}

// memAuditRepo is an in-memory AuditLogRepository
type memAuditRepo struct {
	entries []*models.AuditLog
}

func (m *memAuditRepo) ByID(ctx context.Context, id uint) (*models.AuditLog, error) {
	return nil, nil
}

func (m *memAuditRepo) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	return m.entries, nil
}

func (m *memAuditRepo) Save(ctx context.Context, entity *models.AuditLog) error {
	m.entries = append(m.entries, entity)
	return nil
}

func (m *memAuditRepo) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	return int64(len(m.entries)), nil
}

func (m *memAuditRepo) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	return len(m.entries) > 0, nil
}

func (m *memAuditRepo) ByAgentID(ctx context.Context, agentID uint, limit, offset int) ([]*models.AuditLog, error) {
	return m.entries, nil
}

func (m *memAuditRepo) actions() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

// memAgentRepo answers every lookup with one fixed agent.
type memAgentRepo struct {
	agent *models.Agent
}

func newMemAgentRepo() *memAgentRepo {
	return &memAgentRepo{
		agent: &models.Agent{
			ID:         7,
			UUID:       uuid.New(),
			Email:      "teva.maono@example.pf",
			FirstName:  "Teva",
			LastName:   "Maono",
			AgencyName: utils.ToPtr("Agence Tiare"),
			IsActive:   utils.ToPtr(true),
		},
	}
}

func (m *memAgentRepo) ByID(ctx context.Context, id uint) (*models.Agent, error) {
	if m.agent != nil && m.agent.ID == id {
		return m.agent, nil
	}
	return nil, nil
}

func (m *memAgentRepo) ByEmail(ctx context.Context, email string) (*models.Agent, error) {
	if m.agent != nil && m.agent.Email == email {
		return m.agent, nil
	}
	return nil, nil
}

func (m *memAgentRepo) ByUUID(ctx context.Context, id string) (*models.Agent, error) {
	if m.agent != nil && m.agent.UUID.String() == id {
		return m.agent, nil
	}
	return nil, nil
}

func (m *memAgentRepo) ByFilter(ctx context.Context, filter models.AgentFilter, orderBy string, limit, offset int) ([]*models.Agent, error) {
	if m.agent == nil {
		return nil, nil
	}
	return []*models.Agent{m.agent}, nil
}

func (m *memAgentRepo) Save(ctx context.Context, agent *models.Agent) error { return nil }

func (m *memAgentRepo) Count(ctx context.Context, filter models.AgentFilter) (int64, error) {
	if m.agent == nil {
		return 0, nil
	}
	return 1, nil
}

func (m *memAgentRepo) Exists(ctx context.Context, filter models.AgentFilter) (bool, error) {
	return m.agent != nil, nil
}

type flowFixture struct {
	flow      EstimationFlow
	repo      *memEstimationRepo
	agents    *memAgentRepo
	audit     *memAuditRepo
	valuation *stubValuation
	storage   *stubStorage
}

func newFlowFixture() *flowFixture {
	repo := newMemEstimationRepo()
	agents := newMemAgentRepo()
	audit := &memAuditRepo{}
	valuation := &stubValuation{
		estimate: &services.ValuationEstimate{
			PrixBas:     42_000_000,
			PrixMoyen:   48_000_000,
			PrixHaut:    55_000_000,
			PrixM2Moyen: 400_000,
			Comparables: models.Comparables{},
		},
	}
	storage := newStubStorage()

	return &flowFixture{
		flow:      NewEstimationFlow(repo, agents, audit, valuation, storage, nil),
		repo:      repo,
		agents:    agents,
		audit:     audit,
		valuation: valuation,
		storage:   storage,
	}
}

func maisonRequest() *dto.EstimateRequest {
	return &dto.EstimateRequest{
		Commune:        "Punaauia",
		Categorie:      "Maison",
		Surface:        utils.ToPtr(120.0),
		SurfaceTerrain: utils.ToPtr(500.0),
	}
}

func makeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func pngUpload(t *testing.T, name string) *dto.UploadPhotoRequest {
	data := makeTestPNG(t, 32, 32)
	return &dto.UploadPhotoRequest{
		OriginalFilename: name,
		ContentType:      "image/png",
		Size:             int64(len(data)),
		Data:             data,
	}
}

func TestBuildValuationRequest(t *testing.T) {
	t.Run("TerrainUsesSurfaceTerrainAsSurface", func(t *testing.T) {
		req := &dto.EstimateRequest{
			Commune:        "Papeete",
			Categorie:      "Terrain",
			SurfaceTerrain: utils.ToPtr(800.0),
		}

		wire := BuildValuationRequest(req)
		assert.Equal(t, float64(800), wire.Surface)
		assert.Empty(t, wire.TypeBien)
		assert.Nil(t, wire.SurfaceTerrain)
	})

	t.Run("MaisonEchoesSurfaceTerrain", func(t *testing.T) {
		wire := BuildValuationRequest(maisonRequest())
		assert.Equal(t, float64(120), wire.Surface)
		require.NotNil(t, wire.SurfaceTerrain)
		assert.Equal(t, float64(500), *wire.SurfaceTerrain)
	})

	t.Run("AppartementCarriesTypeBien", func(t *testing.T) {
		req := &dto.EstimateRequest{
			Commune:   "Papeete",
			Categorie: "Appartement",
			TypeBien:  "F3",
			Surface:   utils.ToPtr(72.0),
		}

		wire := BuildValuationRequest(req)
		assert.Equal(t, float64(72), wire.Surface)
		assert.Equal(t, "F3", wire.TypeBien)
		assert.Nil(t, wire.SurfaceTerrain)
	})

	t.Run("OptionalFieldsForwarded", func(t *testing.T) {
		req := maisonRequest()
		req.EtatBien = models.ConditionBonEtat
		req.Caracteristiques = []string{"Piscine", "Vue mer"}

		wire := BuildValuationRequest(req)
		assert.Equal(t, models.ConditionBonEtat, wire.EtatBien)
		assert.Equal(t, []string{"Piscine", "Vue mer"}, wire.Caracteristiques)
	})
}

func TestEstimateAnonymous(t *testing.T) {
	f := newFlowFixture()

	resp, err := f.flow.Estimate(context.Background(), maisonRequest(), nil, nil, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	assert.False(t, resp.Persisted)
	assert.Nil(t, resp.RecordUUID)
	assert.False(t, resp.SaveFailed)
	assert.Empty(t, f.repo.records)

	// The adjustment engine starts at the mid estimate
	assert.Equal(t, int64(48_000_000), resp.Adjustment.Value.Amount)
	assert.Equal(t, int64(37_800_000), resp.Adjustment.MinBound.Amount)
	assert.Equal(t, int64(60_500_000), resp.Adjustment.MaxBound.Amount)
	assert.Equal(t, int64(500_000), resp.Adjustment.Step)
	assert.Equal(t, "12 500 000 XPF", mustFormatFull(t))
}

// mustFormatFull pins the formatting contract used across views
func mustFormatFull(t *testing.T) string {
	t.Helper()
	view := ToPriceView(12_500_000)
	return view.Formatted
}

func TestEstimatePersistsForSession(t *testing.T) {
	f := newFlowFixture()
	session := &Session{AgentID: 7, Email: "teva@example.pf"}

	req := maisonRequest()
	req.EtatBien = models.ConditionNeuf
	req.Caracteristiques = []string{"Piscine"}

	resp, err := f.flow.Estimate(context.Background(), req, session, nil, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	assert.True(t, resp.Persisted)
	require.NotNil(t, resp.RecordUUID)
	require.Len(t, f.repo.records, 1)

	var saved *models.Estimation
	for _, r := range f.repo.records {
		saved = r
	}
	assert.Equal(t, uint(7), saved.AgentID)
	assert.Equal(t, "Punaauia", saved.Commune)
	assert.Equal(t, models.CategoryMaison, saved.Categorie)
	assert.Equal(t, int64(48_000_000), saved.PrixMoyen)
	require.NotNil(t, saved.EtatBien)
	assert.Equal(t, models.ConditionNeuf, *saved.EtatBien)
	assert.Nil(t, saved.PrixAjuste)

	assert.Contains(t, f.audit.actions(), models.AuditActionEstimateRequested)
	assert.Contains(t, f.audit.actions(), models.AuditActionEstimationSaved)
}

func TestEstimateSaveFailureDoesNotFailRequest(t *testing.T) {
	f := newFlowFixture()
	f.repo.saveErr = errors.New("connection refused")
	session := &Session{AgentID: 7}

	resp, err := f.flow.Estimate(context.Background(), maisonRequest(), session, nil, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	assert.True(t, resp.SaveFailed)
	assert.False(t, resp.Persisted)
	assert.Nil(t, resp.RecordUUID)
	// The estimate itself is still delivered
	assert.Equal(t, int64(48_000_000), resp.Estimate.PrixMoyen.Amount)
	assert.Contains(t, f.audit.actions(), models.AuditActionEstimationSaveFailed)
}

func TestEstimateUpstreamFailure(t *testing.T) {
	f := newFlowFixture()
	f.valuation.err = services.ErrValuationProtocol

	_, err := f.flow.Estimate(context.Background(), maisonRequest(), nil, nil, NewClientMetadata("127.0.0.1", "test"))
	require.Error(t, err)
	assert.True(t, IsEstimateUnavailable(err))

	var bizErr *BusinessError
	require.True(t, errors.As(err, &bizErr))
	assert.Equal(t, "ESTIMATE_FAILED", bizErr.Code)
	assert.Contains(t, f.audit.actions(), models.AuditActionEstimateFailed)
}

func TestEstimateValidation(t *testing.T) {
	cases := []struct {
		name  string
		req   *dto.EstimateRequest
		check func(error) bool
	}{
		{
			name:  "MissingCommune",
			req:   &dto.EstimateRequest{Categorie: "Maison", Surface: utils.ToPtr(120.0)},
			check: IsCommuneRequired,
		},
		{
			name:  "UnknownCommune",
			req:   &dto.EstimateRequest{Commune: "Bora-Bora-Nord", Categorie: "Maison", Surface: utils.ToPtr(120.0)},
			check: IsCommuneUnknown,
		},
		{
			name:  "MissingCategory",
			req:   &dto.EstimateRequest{Commune: "Papeete"},
			check: IsCategoryRequired,
		},
		{
			name:  "UnknownCategory",
			req:   &dto.EstimateRequest{Commune: "Papeete", Categorie: "Bateau"},
			check: IsCategoryUnknown,
		},
		{
			name:  "SurfaceTooSmall",
			req:   &dto.EstimateRequest{Commune: "Papeete", Categorie: "Maison", Surface: utils.ToPtr(5.0)},
			check: IsSurfaceTooSmall,
		},
		{
			name:  "SurfaceMissing",
			req:   &dto.EstimateRequest{Commune: "Papeete", Categorie: "Maison"},
			check: IsSurfaceTooSmall,
		},
		{
			name:  "TerrainWithoutSurfaceTerrain",
			req:   &dto.EstimateRequest{Commune: "Papeete", Categorie: "Terrain", Surface: utils.ToPtr(800.0)},
			check: IsSurfaceTerrainTooSmall,
		},
		{
			name:  "AppartementWithoutTypeBien",
			req:   &dto.EstimateRequest{Commune: "Papeete", Categorie: "Appartement", Surface: utils.ToPtr(72.0)},
			check: IsTypeBienRequired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFlowFixture()

			_, err := f.flow.Estimate(context.Background(), tc.req, nil, nil, NewClientMetadata("127.0.0.1", "test"))
			require.Error(t, err)
			assert.True(t, tc.check(err), "expected sentinel for %s, got %v", tc.name, err)

			var bizErr *BusinessError
			require.True(t, errors.As(err, &bizErr))
			assert.Equal(t, "ESTIMATE_VALIDATION_FAILED", bizErr.Code)
			// No upstream call is made for invalid input
			assert.Zero(t, f.valuation.calls)
		})
	}
}

func seedRecord(t *testing.T, f *flowFixture, agentID uint) *models.Estimation {
	t.Helper()
	record := &models.Estimation{
		AgentID:     agentID,
		Commune:     "Punaauia",
		Categorie:   models.CategoryMaison,
		Surface:     utils.ToPtr(120.0),
		PrixBas:     42_000_000,
		PrixMoyen:   48_000_000,
		PrixHaut:    55_000_000,
		PrixM2Moyen: 400_000,
	}
	require.NoError(t, f.repo.Save(context.Background(), record))
	return record
}

func TestUpdateEstimationQuantizesAdjustedPrice(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	resp, err := f.flow.UpdateEstimation(context.Background(), &dto.UpdateEstimationRequest{
		UUID:       record.UUID.String(),
		AgentID:    7,
		PrixAjuste: utils.ToPtr(int64(48_700_000)),
	}, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	// 48.7M rounds to the 48.5M step
	require.NotNil(t, record.PrixAjuste)
	assert.Equal(t, int64(48_500_000), *record.PrixAjuste)
	assert.Equal(t, int64(48_500_000), resp.Estimation.FinalPrice.Amount)
	assert.Contains(t, f.audit.actions(), models.AuditActionPriceAdjusted)
}

func TestUpdateEstimationClampsToBounds(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	_, err := f.flow.UpdateEstimation(context.Background(), &dto.UpdateEstimationRequest{
		UUID:       record.UUID.String(),
		AgentID:    7,
		PrixAjuste: utils.ToPtr(int64(99_000_000)),
	}, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	// Clamped to round(55M * 1.1)
	require.NotNil(t, record.PrixAjuste)
	assert.Equal(t, int64(60_500_000), *record.PrixAjuste)
}

func TestUpdateEstimationNotesOnly(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	_, err := f.flow.UpdateEstimation(context.Background(), &dto.UpdateEstimationRequest{
		UUID:    record.UUID.String(),
		AgentID: 7,
		Notes:   utils.ToPtr("Bien orienté, vue dégagée"),
	}, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	require.NotNil(t, record.Notes)
	assert.Equal(t, "Bien orienté, vue dégagée", *record.Notes)
	assert.Nil(t, record.PrixAjuste)
	assert.Contains(t, f.audit.actions(), models.AuditActionEstimationUpdated)
	assert.NotContains(t, f.audit.actions(), models.AuditActionPriceAdjusted)
}

func TestUpdateEstimationRequiresFields(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	_, err := f.flow.UpdateEstimation(context.Background(), &dto.UpdateEstimationRequest{
		UUID:    record.UUID.String(),
		AgentID: 7,
	}, NewClientMetadata("127.0.0.1", "test"))
	require.Error(t, err)
	assert.True(t, IsUpdateFieldsRequired(err))
}

func TestOwnershipEnforced(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	t.Run("OtherAgentIsDenied", func(t *testing.T) {
		_, err := f.flow.GetEstimation(context.Background(), record.UUID.String(), 8)
		require.Error(t, err)
		assert.True(t, IsEstimationAccessDenied(err))
	})

	t.Run("UnknownRecord", func(t *testing.T) {
		_, err := f.flow.GetEstimation(context.Background(), uuid.NewString(), 7)
		require.Error(t, err)
		assert.True(t, IsEstimationNotFound(err))
	})
}

func TestDeleteEstimation(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	_, err := f.flow.DeleteEstimation(context.Background(), record.UUID.String(), 7, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)
	assert.Empty(t, f.repo.records)
	assert.Contains(t, f.audit.actions(), models.AuditActionEstimationDeleted)
}

func TestListEstimations(t *testing.T) {
	f := newFlowFixture()
	seedRecord(t, f, 7)
	seedRecord(t, f, 7)
	seedRecord(t, f, 8)

	t.Run("Defaults", func(t *testing.T) {
		resp, err := f.flow.ListEstimations(context.Background(), &dto.ListEstimationsRequest{AgentID: 7}, NewClientMetadata("127.0.0.1", "test"))
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 20, resp.Limit)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Items, 2)
	})

	t.Run("LimitTooLarge", func(t *testing.T) {
		_, err := f.flow.ListEstimations(context.Background(), &dto.ListEstimationsRequest{AgentID: 7, Limit: 101}, NewClientMetadata("127.0.0.1", "test"))
		require.Error(t, err)
		assert.True(t, IsInvalidPageSize(err))
	})
}

func TestUploadPhotoPrimary(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	req := pngUpload(t, "maison.png")
	req.UUID = record.UUID.String()
	req.AgentID = 7

	resp, err := f.flow.UploadPhoto(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	expectedKey := fmt.Sprintf("7/%s.png", record.UUID)
	assert.Contains(t, f.storage.uploads, expectedKey)
	assert.Equal(t, "https://cdn.test/"+expectedKey, resp.PhotoURL)
	require.NotNil(t, record.PhotoURL)
	assert.Equal(t, resp.PhotoURL, *record.PhotoURL)
	assert.Contains(t, f.audit.actions(), models.AuditActionPhotoUploaded)
}

func TestUploadPhotoRejectsBadFiles(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	t.Run("WrongExtension", func(t *testing.T) {
		req := pngUpload(t, "notes.pdf")
		req.UUID = record.UUID.String()
		req.AgentID = 7

		_, err := f.flow.UploadPhoto(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))
		require.Error(t, err)
		assert.True(t, IsPhotoTypeNotAllowed(err))
	})

	t.Run("NotAnImage", func(t *testing.T) {
		data := []byte(strings.Repeat("plain text content, definitely not pixels. ", 20))
		req := &dto.UploadPhotoRequest{
			UUID:             record.UUID.String(),
			AgentID:          7,
			OriginalFilename: "fake.png",
			ContentType:      "image/png",
			Size:             int64(len(data)),
			Data:             data,
		}

		_, err := f.flow.UploadPhoto(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))
		require.Error(t, err)
		assert.True(t, IsPhotoTypeNotAllowed(err))
	})

	t.Run("TooLarge", func(t *testing.T) {
		req := pngUpload(t, "maison.png")
		req.UUID = record.UUID.String()
		req.AgentID = 7
		req.Size = utils.MaxPhotoSizeBytes + 1

		_, err := f.flow.UploadPhoto(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))
		require.Error(t, err)
		assert.True(t, IsPhotoTooLarge(err))
	})
}

func TestUploadExtraPhotos(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)

	req := pngUpload(t, "jardin.png")
	req.UUID = record.UUID.String()
	req.AgentID = 7
	req.Index = utils.ToPtr(0)

	resp, err := f.flow.UploadPhoto(context.Background(), req, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)

	expectedKey := fmt.Sprintf("7/%s/extra_0.png", record.UUID)
	assert.Contains(t, f.storage.uploads, expectedKey)
	assert.Equal(t, "https://cdn.test/"+expectedKey, resp.PhotoURL)
	require.Len(t, record.ExtraPhotoURLs, 1)

	t.Run("CapEnforced", func(t *testing.T) {
		record.ExtraPhotoURLs = make(models.StringList, utils.MaxExtraPhotos)

		capped := pngUpload(t, "trop.png")
		capped.UUID = record.UUID.String()
		capped.AgentID = 7
		capped.Index = utils.ToPtr(1)

		_, err := f.flow.UploadPhoto(context.Background(), capped, NewClientMetadata("127.0.0.1", "test"))
		require.Error(t, err)
		assert.True(t, IsTooManyExtraPhotos(err))
	})
}

func TestExportHistory(t *testing.T) {
	f := newFlowFixture()
	record := seedRecord(t, f, 7)
	record.PrixAjuste = utils.ToPtr(int64(50_000_000))

	filename, data, err := f.flow.ExportHistory(context.Background(), 7, NewClientMetadata("127.0.0.1", "test"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "estimations_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	require.NotEmpty(t, data)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	props, err := xl.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Teva Maono", props.Creator)
	assert.Equal(t, "Agence Tiare", props.Subject)

	header, err := xl.GetCellValue("Estimations", "A1")
	require.NoError(t, err)
	assert.Equal(t, "uuid", header)

	firstUUID, err := xl.GetCellValue("Estimations", "A2")
	require.NoError(t, err)
	assert.Equal(t, record.UUID.String(), firstUUID)

	// The final price column carries the adjusted value, formatted
	finalPrice, err := xl.GetCellValue("Estimations", "M2")
	require.NoError(t, err)
	assert.Equal(t, "50 000 000 XPF", finalPrice)

	assert.Contains(t, f.audit.actions(), models.AuditActionHistoryExported)
}

func TestExportHistoryUnknownAgent(t *testing.T) {
	f := newFlowFixture()

	_, _, err := f.flow.ExportHistory(context.Background(), 99, NewClientMetadata("127.0.0.1", "test"))
	require.Error(t, err)
	assert.True(t, IsAgentNotFound(err))
}
