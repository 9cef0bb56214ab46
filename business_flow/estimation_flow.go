// Package businessflow contains the core business logic and use cases for estimation workflows
package businessflow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/heimanarii/fenua-estim/app/dto"
	"github.com/heimanarii/fenua-estim/app/services"
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/pricing"
	"github.com/heimanarii/fenua-estim/repository"
	"github.com/heimanarii/fenua-estim/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// EstimationFlow handles the estimation business logic
type EstimationFlow interface {
	Estimate(ctx context.Context, req *dto.EstimateRequest, session *Session, photo *dto.UploadPhotoRequest, metadata *ClientMetadata) (*dto.EstimateResponse, error)
	ListEstimations(ctx context.Context, req *dto.ListEstimationsRequest, metadata *ClientMetadata) (*dto.ListEstimationsResponse, error)
	GetEstimation(ctx context.Context, recordUUID string, agentID uint) (*dto.EstimationResponse, error)
	UpdateEstimation(ctx context.Context, req *dto.UpdateEstimationRequest, metadata *ClientMetadata) (*dto.UpdateEstimationResponse, error)
	DeleteEstimation(ctx context.Context, recordUUID string, agentID uint, metadata *ClientMetadata) (*dto.DeleteEstimationResponse, error)
	UploadPhoto(ctx context.Context, req *dto.UploadPhotoRequest, metadata *ClientMetadata) (*dto.UploadPhotoResponse, error)
	ExportHistory(ctx context.Context, agentID uint, metadata *ClientMetadata) (string, []byte, error)
}

// EstimationFlowImpl implements the estimation business flow
type EstimationFlowImpl struct {
	estimationRepo repository.EstimationRepository
	agentRepo      repository.AgentRepository
	auditRepo      repository.AuditLogRepository
	valuation      services.ValuationClient
	storage        services.StorageClient
	db             *gorm.DB
}

// NewEstimationFlow creates a new estimation flow instance
func NewEstimationFlow(
	estimationRepo repository.EstimationRepository,
	agentRepo repository.AgentRepository,
	auditRepo repository.AuditLogRepository,
	valuation services.ValuationClient,
	storage services.StorageClient,
	db *gorm.DB,
) EstimationFlow {
	return &EstimationFlowImpl{
		estimationRepo: estimationRepo,
		agentRepo:      agentRepo,
		auditRepo:      auditRepo,
		valuation:      valuation,
		storage:        storage,
		db:             db,
	}
}

// Estimate runs the full estimation sequence: validate input, request
// the estimate, then persist record and photo on a best-effort basis.
// Only the estimate itself can fail the operation; every later step
// degrades to a flag or an audit entry.
func (s *EstimationFlowImpl) Estimate(ctx context.Context, req *dto.EstimateRequest, session *Session, photo *dto.UploadPhotoRequest, metadata *ClientMetadata) (*dto.EstimateResponse, error) {
	if err := s.validateEstimateRequest(req); err != nil {
		return nil, NewBusinessError("ESTIMATE_VALIDATION_FAILED", validationMessage(err), err)
	}

	// A bad photo is rejected before any network call; the agent fixes
	// the file and resubmits.
	if photo != nil {
		if err := validatePhoto(photo); err != nil {
			return nil, err
		}
	}

	wireReq := BuildValuationRequest(req)

	estimate, err := s.valuation.Estimate(ctx, wireReq)
	if err != nil {
		errMsg := err.Error()
		_ = s.createAuditLog(ctx, session, models.AuditActionEstimateFailed, "Estimate request failed", false, &errMsg, metadata)
		return nil, NewBusinessError("ESTIMATE_FAILED", "L'estimation n'a pas pu être obtenue, veuillez réessayer", ErrEstimateUnavailable)
	}

	_ = s.createAuditLog(ctx, session, models.AuditActionEstimateRequested,
		fmt.Sprintf("Estimate obtained for %s (%s)", req.Commune, req.Categorie), true, nil, metadata)

	adj := pricing.NewAdjuster(estimate.PrixBas, estimate.PrixMoyen, estimate.PrixHaut, nil)

	resp := &dto.EstimateResponse{
		Message:    "Estimation obtenue",
		Estimate:   ToEstimateView(estimate.PrixBas, estimate.PrixMoyen, estimate.PrixHaut, estimate.PrixM2Moyen, estimate.Comparables),
		Adjustment: ToAdjustmentView(adj),
	}

	if session == nil {
		return resp, nil
	}

	// Best-effort persistence. Each submission creates a new record,
	// identical input is not deduplicated.
	record := buildEstimationRecord(req, session.AgentID, estimate)
	if err := s.estimationRepo.Save(ctx, record); err != nil {
		log.Printf("estimation save failed for agent %d: %v", session.AgentID, err)
		errMsg := err.Error()
		_ = s.createAuditLog(ctx, session, models.AuditActionEstimationSaveFailed, "Estimation record save failed", false, &errMsg, metadata)
		resp.SaveFailed = true
		return resp, nil
	}

	recordUUID := record.UUID.String()
	resp.RecordUUID = &recordUUID
	resp.Persisted = true
	_ = s.createAuditLog(ctx, session, models.AuditActionEstimationSaved,
		fmt.Sprintf("Estimation %s saved", recordUUID), true, nil, metadata)

	if photo != nil {
		photo.UUID = recordUUID
		photo.AgentID = session.AgentID
		if photoResp, err := s.attachPhoto(ctx, session, record, photo, metadata); err == nil {
			resp.PhotoURL = &photoResp.PhotoURL
		}
	}

	return resp, nil
}

// validateEstimateRequest enforces the conditional input rules that the
// validator tags cannot express
func (s *EstimationFlowImpl) validateEstimateRequest(req *dto.EstimateRequest) error {
	if strings.TrimSpace(req.Commune) == "" {
		return ErrCommuneRequired
	}
	if !models.IsValidCommune(req.Commune) {
		return ErrCommuneUnknown
	}

	categorie := models.PropertyCategory(req.Categorie)
	if req.Categorie == "" {
		return ErrCategoryRequired
	}
	if !categorie.Valid() {
		return ErrCategoryUnknown
	}

	if categorie == models.CategoryTerrain {
		if req.SurfaceTerrain == nil || *req.SurfaceTerrain < utils.MinSurface {
			return ErrSurfaceTerrainTooSmall
		}
		return nil
	}

	if req.Surface == nil || *req.Surface < utils.MinSurface {
		return ErrSurfaceTooSmall
	}
	if categorie == models.CategoryAppartement && strings.TrimSpace(req.TypeBien) == "" {
		return ErrTypeBienRequired
	}

	return nil
}

// BuildValuationRequest shapes the validated form input into the wire
// body. The single wire field surface carries surface_terrain for bare
// land and surface otherwise; surface_terrain is echoed separately only
// for houses; optional fields are omitted entirely when empty.
func BuildValuationRequest(req *dto.EstimateRequest) services.ValuationRequest {
	categorie := models.PropertyCategory(req.Categorie)

	out := services.ValuationRequest{
		Commune:   req.Commune,
		Categorie: req.Categorie,
	}

	if categorie == models.CategoryTerrain {
		out.Surface = *req.SurfaceTerrain
	} else {
		out.Surface = *req.Surface
		if strings.TrimSpace(req.TypeBien) != "" {
			out.TypeBien = req.TypeBien
		}
	}

	if categorie == models.CategoryMaison && req.SurfaceTerrain != nil {
		out.SurfaceTerrain = req.SurfaceTerrain
	}

	if strings.TrimSpace(req.EtatBien) != "" {
		out.EtatBien = req.EtatBien
	}
	if len(req.Caracteristiques) > 0 {
		out.Caracteristiques = req.Caracteristiques
	}

	return out
}

// buildEstimationRecord assembles the record persisted for an
// authenticated agent
func buildEstimationRecord(req *dto.EstimateRequest, agentID uint, estimate *services.ValuationEstimate) *models.Estimation {
	record := &models.Estimation{
		AgentID:     agentID,
		Commune:     req.Commune,
		Categorie:   models.PropertyCategory(req.Categorie),
		Surface:     req.Surface,
		PrixBas:     estimate.PrixBas,
		PrixMoyen:   estimate.PrixMoyen,
		PrixHaut:    estimate.PrixHaut,
		PrixM2Moyen: estimate.PrixM2Moyen,
		Comparables: estimate.Comparables,
	}
	if strings.TrimSpace(req.TypeBien) != "" {
		record.TypeBien = utils.ToPtr(req.TypeBien)
	}
	if req.SurfaceTerrain != nil {
		record.SurfaceTerrain = req.SurfaceTerrain
	}
	if strings.TrimSpace(req.EtatBien) != "" {
		record.EtatBien = utils.ToPtr(req.EtatBien)
	}
	if len(req.Caracteristiques) > 0 {
		record.Caracteristiques = models.StringList(req.Caracteristiques)
	}
	return record
}

// attachPhoto uploads a photo and links its URL onto the record. Both
// steps are best-effort: a failure is logged and audited but the record
// stays valid without the photo.
func (s *EstimationFlowImpl) attachPhoto(ctx context.Context, session *Session, record *models.Estimation, photo *dto.UploadPhotoRequest, metadata *ClientMetadata) (*dto.UploadPhotoResponse, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(photo.OriginalFilename)), ".")
	key := services.PhotoKey(record.AgentID, record.UUID.String(), ext)

	url, err := s.storage.Upload(ctx, key, photo.Data, photo.ContentType)
	if err != nil {
		log.Printf("photo upload failed for estimation %s: %v", record.UUID, err)
		errMsg := err.Error()
		_ = s.createAuditLog(ctx, session, models.AuditActionPhotoUploadFailed, "Photo upload failed", false, &errMsg, metadata)
		return nil, err
	}

	resp := &dto.UploadPhotoResponse{
		Message:  "Photo enregistrée",
		PhotoURL: url,
	}

	if thumbURL := s.uploadThumbnail(ctx, record, photo); thumbURL != "" {
		resp.ThumbURL = &thumbURL
	}

	if err := s.estimationRepo.UpdateFields(ctx, record.ID, map[string]any{"photo_url": url}); err != nil {
		log.Printf("photo link failed for estimation %s: %v", record.UUID, err)
		errMsg := err.Error()
		_ = s.createAuditLog(ctx, session, models.AuditActionPhotoLinkFailed, "Photo link update failed", false, &errMsg, metadata)
		return resp, nil
	}

	_ = s.createAuditLog(ctx, session, models.AuditActionPhotoUploaded,
		fmt.Sprintf("Photo attached to estimation %s", record.UUID), true, nil, metadata)

	return resp, nil
}

// uploadThumbnail stores a scaled-down preview next to the photo. Purely
// best-effort, a failure only costs the preview.
func (s *EstimationFlowImpl) uploadThumbnail(ctx context.Context, record *models.Estimation, photo *dto.UploadPhotoRequest) string {
	thumb, err := generatePhotoThumbnail(photo.Data)
	if err != nil {
		log.Printf("thumbnail generation failed for estimation %s: %v", record.UUID, err)
		return ""
	}
	key := fmt.Sprintf("%d/%s_thumb.jpg", record.AgentID, record.UUID)
	url, err := s.storage.Upload(ctx, key, thumb, "image/jpeg")
	if err != nil {
		log.Printf("thumbnail upload failed for estimation %s: %v", record.UUID, err)
		return ""
	}
	return url
}

// ListEstimations returns the agent's history, newest first
func (s *EstimationFlowImpl) ListEstimations(ctx context.Context, req *dto.ListEstimationsRequest, metadata *ClientMetadata) (*dto.ListEstimationsResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Page must be at least 1", ErrInvalidPage)
	}
	limit := req.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 1 || limit > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "Page size must be between 1 and 100", ErrInvalidPageSize)
	}

	offset := (page - 1) * limit
	records, err := s.estimationRepo.ByAgentID(ctx, req.AgentID, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.estimationRepo.Count(ctx, models.EstimationFilter{AgentID: &req.AgentID})
	if err != nil {
		return nil, err
	}

	items := make([]dto.EstimationResponse, 0, len(records))
	for _, record := range records {
		items = append(items, ToEstimationResponse(record))
	}

	return &dto.ListEstimationsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// GetEstimation returns one record with its presentation data recomputed
func (s *EstimationFlowImpl) GetEstimation(ctx context.Context, recordUUID string, agentID uint) (*dto.EstimationResponse, error) {
	record, err := s.ownedEstimation(ctx, recordUUID, agentID)
	if err != nil {
		return nil, err
	}

	resp := ToEstimationResponse(record)
	return &resp, nil
}

// UpdateEstimation applies a partial update to a record. The adjusted
// price goes through the adjustment engine so it lands on the step grid
// inside the allowed bounds; the estimate triple itself never changes.
func (s *EstimationFlowImpl) UpdateEstimation(ctx context.Context, req *dto.UpdateEstimationRequest, metadata *ClientMetadata) (*dto.UpdateEstimationResponse, error) {
	record, err := s.ownedEstimation(ctx, req.UUID, req.AgentID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	priceAdjusted := false

	if req.PrixAjuste != nil {
		adj := pricing.NewAdjuster(record.PrixBas, record.PrixMoyen, record.PrixHaut, nil)
		applied := adj.SetFromSlider(float64(*req.PrixAjuste))
		fields["prix_ajuste"] = applied
		record.PrixAjuste = &applied
		priceAdjusted = true
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
		record.Notes = req.Notes
	}
	if req.SectionVisibility != nil {
		fields["section_visibility"] = req.SectionVisibility
		record.SectionVisibility = req.SectionVisibility
	}

	if len(fields) == 0 {
		return nil, NewBusinessError("UPDATE_FIELDS_REQUIRED", "At least one field must be provided", ErrUpdateFieldsRequired)
	}

	if err := s.estimationRepo.UpdateFields(ctx, record.ID, fields); err != nil {
		return nil, err
	}

	session := &Session{AgentID: req.AgentID}
	action := models.AuditActionEstimationUpdated
	description := fmt.Sprintf("Estimation %s updated", req.UUID)
	if priceAdjusted {
		action = models.AuditActionPriceAdjusted
		description = fmt.Sprintf("Estimation %s price adjusted to %d", req.UUID, *record.PrixAjuste)
	}
	_ = s.createAuditLog(ctx, session, action, description, true, nil, metadata)

	now := utils.UTCNow()
	record.UpdatedAt = &now

	return &dto.UpdateEstimationResponse{
		Message:    "Estimation mise à jour",
		Estimation: ToEstimationResponse(record),
	}, nil
}

// DeleteEstimation removes a record owned by the agent
func (s *EstimationFlowImpl) DeleteEstimation(ctx context.Context, recordUUID string, agentID uint, metadata *ClientMetadata) (*dto.DeleteEstimationResponse, error) {
	record, err := s.ownedEstimation(ctx, recordUUID, agentID)
	if err != nil {
		return nil, err
	}

	if err := s.estimationRepo.DeleteByID(ctx, record.ID); err != nil {
		return nil, err
	}

	session := &Session{AgentID: agentID}
	_ = s.createAuditLog(ctx, session, models.AuditActionEstimationDeleted,
		fmt.Sprintf("Estimation %s deleted", recordUUID), true, nil, metadata)

	return &dto.DeleteEstimationResponse{Message: "Estimation supprimée"}, nil
}

// UploadPhoto attaches a photo to an existing record. A nil index means
// the primary photo; otherwise the photo is stored under the extra_{index}
// key and appended to the supplementary list.
func (s *EstimationFlowImpl) UploadPhoto(ctx context.Context, req *dto.UploadPhotoRequest, metadata *ClientMetadata) (*dto.UploadPhotoResponse, error) {
	record, err := s.ownedEstimation(ctx, req.UUID, req.AgentID)
	if err != nil {
		return nil, err
	}

	if err := validatePhoto(req); err != nil {
		return nil, err
	}

	session := &Session{AgentID: req.AgentID}

	if req.Index == nil {
		return s.attachPhoto(ctx, session, record, req, metadata)
	}

	if len(record.ExtraPhotoURLs) >= utils.MaxExtraPhotos {
		return nil, NewBusinessError("TOO_MANY_PHOTOS",
			fmt.Sprintf("At most %d supplementary photos are allowed", utils.MaxExtraPhotos), ErrTooManyExtraPhotos)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(req.OriginalFilename)), ".")
	key := services.ExtraPhotoKey(record.AgentID, record.UUID.String(), *req.Index, ext)

	url, err := s.storage.Upload(ctx, key, req.Data, req.ContentType)
	if err != nil {
		errMsg := err.Error()
		_ = s.createAuditLog(ctx, session, models.AuditActionPhotoUploadFailed, "Supplementary photo upload failed", false, &errMsg, metadata)
		return nil, NewBusinessError("PHOTO_UPLOAD_FAILED", "La photo n'a pas pu être enregistrée", err)
	}

	urls := append(models.StringList{}, record.ExtraPhotoURLs...)
	urls = append(urls, url)
	if err := s.estimationRepo.UpdateFields(ctx, record.ID, map[string]any{"extra_photo_urls": urls}); err != nil {
		errMsg := err.Error()
		_ = s.createAuditLog(ctx, session, models.AuditActionPhotoLinkFailed, "Supplementary photo link update failed", false, &errMsg, metadata)
		return &dto.UploadPhotoResponse{Message: "Photo enregistrée", PhotoURL: url}, nil
	}

	_ = s.createAuditLog(ctx, session, models.AuditActionPhotoUploaded,
		fmt.Sprintf("Supplementary photo %d attached to estimation %s", *req.Index, req.UUID), true, nil, metadata)

	return &dto.UploadPhotoResponse{Message: "Photo enregistrée", PhotoURL: url}, nil
}

// ExportHistory renders the agent's estimation history as an XLSX workbook
func (s *EstimationFlowImpl) ExportHistory(ctx context.Context, agentID uint, metadata *ClientMetadata) (string, []byte, error) {
	agent, err := s.agentRepo.ByID(ctx, agentID)
	if err != nil {
		return "", nil, err
	}
	if agent == nil {
		return "", nil, NewBusinessError("AGENT_NOT_FOUND", "Agent not found", ErrAgentNotFound)
	}

	records, err := s.estimationRepo.ByAgentID(ctx, agentID, 0, 0)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	subject := "Historique des estimations"
	if agent.AgencyName != nil {
		subject = *agent.AgencyName
	}
	_ = xl.SetDocProps(&excelize.DocProperties{
		Creator: agent.FullName(),
		Title:   "Historique des estimations",
		Subject: subject,
	})

	sheet := "Estimations"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"uuid", "created_at", "commune", "categorie", "type_bien", "surface", "surface_terrain", "etat_bien", "prix_bas", "prix_moyen", "prix_haut", "prix_ajuste", "prix_final", "bande", "prix_m2_moyen", "notes"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, r := range records {
		typeBien := ""
		if r.TypeBien != nil {
			typeBien = *r.TypeBien
		}
		surface := ""
		if r.Surface != nil {
			surface = strconv.FormatFloat(*r.Surface, 'f', -1, 64)
		}
		surfaceTerrain := ""
		if r.SurfaceTerrain != nil {
			surfaceTerrain = strconv.FormatFloat(*r.SurfaceTerrain, 'f', -1, 64)
		}
		etatBien := ""
		if r.EtatBien != nil {
			etatBien = *r.EtatBien
		}
		prixAjuste := ""
		if r.PrixAjuste != nil {
			prixAjuste = strconv.FormatInt(*r.PrixAjuste, 10)
		}
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		band := pricing.Classify(r.FinalPrice(), r.PrixBas, r.PrixMoyen, r.PrixHaut)

		record := []string{
			r.UUID.String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Commune,
			r.Categorie.String(),
			typeBien,
			surface,
			surfaceTerrain,
			etatBien,
			strconv.FormatInt(r.PrixBas, 10),
			strconv.FormatInt(r.PrixMoyen, 10),
			strconv.FormatInt(r.PrixHaut, 10),
			prixAjuste,
			pricing.FormatFull(r.FinalPrice()),
			band.Label(),
			strconv.FormatFloat(r.PrixM2Moyen, 'f', 0, 64),
			notes,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	session := &Session{AgentID: agentID}
	_ = s.createAuditLog(ctx, session, models.AuditActionHistoryExported,
		fmt.Sprintf("History exported (%d records)", len(records)), true, nil, metadata)

	filename := fmt.Sprintf("estimations_%s.xlsx", utils.UTCNow().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

// ownedEstimation loads a record and checks the agent owns it
func (s *EstimationFlowImpl) ownedEstimation(ctx context.Context, recordUUID string, agentID uint) (*models.Estimation, error) {
	record, err := s.estimationRepo.ByUUID(ctx, recordUUID)
	if err != nil {
		return nil, NewBusinessError("ESTIMATION_NOT_FOUND", "Estimation not found", ErrEstimationNotFound)
	}
	if record == nil {
		return nil, NewBusinessError("ESTIMATION_NOT_FOUND", "Estimation not found", ErrEstimationNotFound)
	}
	if record.AgentID != agentID {
		return nil, NewBusinessError("FORBIDDEN", "Access denied", ErrEstimationAccessDenied)
	}
	return record, nil
}

// validationMessage maps a validation sentinel to its user-facing message
func validationMessage(err error) string {
	switch {
	case IsCommuneRequired(err):
		return "La commune est requise"
	case IsCommuneUnknown(err):
		return "La commune n'est pas reconnue"
	case IsCategoryRequired(err):
		return "La catégorie est requise"
	case IsCategoryUnknown(err):
		return "La catégorie n'est pas reconnue"
	case IsSurfaceTooSmall(err):
		return "La surface doit être d'au moins 10 m²"
	case IsSurfaceTerrainTooSmall(err):
		return "La surface du terrain doit être d'au moins 10 m²"
	case IsTypeBienRequired(err):
		return "Le type de bien est requis pour un appartement"
	default:
		return "Données invalides"
	}
}

// createAuditLog creates an audit log entry for the estimation operation
func (s *EstimationFlowImpl) createAuditLog(ctx context.Context, session *Session, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	var agentID *uint
	if session != nil {
		agentID = utils.ToPtr(session.AgentID)
	}

	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AgentID:      agentID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	if err := s.auditRepo.Save(ctx, audit); err != nil {
		return err
	}

	return nil
}
