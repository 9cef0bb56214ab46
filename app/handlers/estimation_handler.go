// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/heimanarii/fenua-estim/app/dto"
	businessflow "github.com/heimanarii/fenua-estim/business_flow"
	"github.com/heimanarii/fenua-estim/models"
	"github.com/heimanarii/fenua-estim/utils"
)

// EstimationHandlerInterface defines the contract for estimation handlers
type EstimationHandlerInterface interface {
	Estimate(c fiber.Ctx) error
	ListEstimations(c fiber.Ctx) error
	GetEstimation(c fiber.Ctx) error
	UpdateEstimation(c fiber.Ctx) error
	DeleteEstimation(c fiber.Ctx) error
	UploadPhoto(c fiber.Ctx) error
	UploadExtraPhoto(c fiber.Ctx) error
	ExportHistory(c fiber.Ctx) error
}

// EstimationHandler handles estimation-related HTTP requests
type EstimationHandler struct {
	estimationFlow businessflow.EstimationFlow
	validator      *validator.Validate
}

// NewEstimationHandler creates a new estimation handler
func NewEstimationHandler(estimationFlow businessflow.EstimationFlow) *EstimationHandler {
	handler := &EstimationHandler{
		estimationFlow: estimationFlow,
		validator:      validator.New(),
	}

	handler.setupCustomValidations()

	return handler
}

func (h *EstimationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EstimationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Estimate handles an estimate submission
// @Summary Request a price estimate
// @Description Submit property attributes and receive a three-point estimate with adjustment bounds. Authenticated submissions are persisted; anonymous ones are not.
// @Tags Estimations
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body dto.EstimateRequest true "Property description"
// @Success 200 {object} dto.APIResponse{data=dto.EstimateResponse} "Estimate obtained"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 502 {object} dto.APIResponse "Valuation service failure"
// @Router /api/v1/estimations/estimate [post]
func (h *EstimationHandler) Estimate(c fiber.Ctx) error {
	var req dto.EstimateRequest
	var photo *dto.UploadPhotoRequest

	contentType := c.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		var err error
		photo, err = h.parseMultipartEstimate(c, &req)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid form data", "INVALID_REQUEST", err.Error())
		}
	} else {
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// An absent or invalid session downgrades to anonymous: the estimate
	// still runs, nothing is persisted.
	var session *businessflow.Session
	if agentID, ok := c.Locals("agent_id").(uint); ok {
		email, _ := c.Locals("agent_email").(string)
		session = &businessflow.Session{AgentID: agentID, Email: email}
		req.AgentID = &agentID
	}

	result, err := h.estimationFlow.Estimate(h.createRequestContext(c, "/api/v1/estimations/estimate"), &req, session, photo, metadata)
	if err != nil {
		if businessflow.IsEstimateUnavailable(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Estimate could not be obtained, please retry", "ESTIMATE_FAILED", nil)
		}
		if businessflow.IsPhotoTypeNotAllowed(err) || businessflow.IsPhotoTooLarge(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), businessErrorCode(err), nil)
		}

		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), businessErrorCode(err), nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Estimate obtained", result)
}

// parseMultipartEstimate fills the request from form fields and extracts
// the optional photo attachment
func (h *EstimationHandler) parseMultipartEstimate(c fiber.Ctx, req *dto.EstimateRequest) (*dto.UploadPhotoRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	formValue := func(key string) string {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			return vals[0]
		}
		return ""
	}

	req.Commune = formValue("commune")
	req.Categorie = formValue("categorie")
	req.TypeBien = formValue("type_bien")
	req.EtatBien = formValue("etat_bien")

	if raw := formValue("surface"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		req.Surface = &v
	}
	if raw := formValue("surface_terrain"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		req.SurfaceTerrain = &v
	}
	for _, tag := range form.Value["caracteristiques"] {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			req.Caracteristiques = append(req.Caracteristiques, tag)
		}
	}

	files, ok := form.File["photo"]
	if !ok || len(files) == 0 {
		return nil, nil
	}

	return readPhotoFile(c, "photo", nil)
}

// ListEstimations handles the history listing
// @Summary List estimations
// @Description List the authenticated agent's estimation records, newest first
// @Tags Estimations
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListEstimationsResponse} "Estimations listed"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/estimations [get]
func (h *EstimationHandler) ListEstimations(c fiber.Ctx) error {
	agentID, ok := c.Locals("agent_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Agent ID not found in context", "MISSING_AGENT_ID", nil)
	}

	req := dto.ListEstimationsRequest{AgentID: agentID}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid page", "INVALID_PAGE", nil)
		}
		req.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid limit", "INVALID_PAGE_SIZE", nil)
		}
		req.Limit = limit
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.estimationFlow.ListEstimations(h.createRequestContext(c, "/api/v1/estimations"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), businessErrorCode(err), nil)
		}

		log.Println("Estimation listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Estimation listing failed", "LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Estimations listed", result)
}

// GetEstimation handles single-record retrieval
// @Summary Get estimation
// @Description Get one estimation record with its derived presentation data recomputed
// @Tags Estimations
// @Produce json
// @Param uuid path string true "Estimation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.EstimationResponse} "Estimation found"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Estimation not found"
// @Router /api/v1/estimations/{uuid} [get]
func (h *EstimationHandler) GetEstimation(c fiber.Ctx) error {
	recordUUID := c.Params("uuid")
	if recordUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Estimation UUID is required", "MISSING_UUID", nil)
	}

	agentID, ok := c.Locals("agent_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Agent ID not found in context", "MISSING_AGENT_ID", nil)
	}

	result, err := h.estimationFlow.GetEstimation(h.createRequestContext(c, "/api/v1/estimations/"+recordUUID), recordUUID, agentID)
	if err != nil {
		return h.estimationErrorResponse(c, err, "Estimation retrieval failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Estimation found", result)
}

// UpdateEstimation handles a partial record update
// @Summary Update estimation
// @Description Update the adjusted price, notes or section visibility of a record. The adjusted price is quantized and clamped by the adjustment engine.
// @Tags Estimations
// @Accept json
// @Produce json
// @Param uuid path string true "Estimation UUID"
// @Param request body dto.UpdateEstimationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateEstimationResponse} "Estimation updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Estimation not found"
// @Router /api/v1/estimations/{uuid} [patch]
func (h *EstimationHandler) UpdateEstimation(c fiber.Ctx) error {
	recordUUID := c.Params("uuid")
	if recordUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Estimation UUID is required", "MISSING_UUID", nil)
	}

	agentID, ok := c.Locals("agent_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Agent ID not found in context", "MISSING_AGENT_ID", nil)
	}

	var req dto.UpdateEstimationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = recordUUID
	req.AgentID = agentID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.estimationFlow.UpdateEstimation(h.createRequestContext(c, "/api/v1/estimations/"+recordUUID), &req, metadata)
	if err != nil {
		if businessflow.IsUpdateFieldsRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one field must be provided", "UPDATE_FIELDS_REQUIRED", nil)
		}
		return h.estimationErrorResponse(c, err, "Estimation update failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Estimation updated", result)
}

// DeleteEstimation handles record deletion
// @Summary Delete estimation
// @Description Delete one of the authenticated agent's estimation records
// @Tags Estimations
// @Produce json
// @Param uuid path string true "Estimation UUID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteEstimationResponse} "Estimation deleted"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Estimation not found"
// @Router /api/v1/estimations/{uuid} [delete]
func (h *EstimationHandler) DeleteEstimation(c fiber.Ctx) error {
	recordUUID := c.Params("uuid")
	if recordUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Estimation UUID is required", "MISSING_UUID", nil)
	}

	agentID, ok := c.Locals("agent_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Agent ID not found in context", "MISSING_AGENT_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.estimationFlow.DeleteEstimation(h.createRequestContext(c, "/api/v1/estimations/"+recordUUID), recordUUID, agentID, metadata)
	if err != nil {
		return h.estimationErrorResponse(c, err, "Estimation deletion failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Estimation deleted", result)
}

// UploadPhoto handles the primary photo upload
// @Summary Upload primary photo
// @Description Attach the primary property photo to an estimation record
// @Tags Estimations
// @Accept multipart/form-data
// @Produce json
// @Param uuid path string true "Estimation UUID"
// @Param photo formData file true "Photo file (jpg, jpeg, png, webp; max 5MB)"
// @Success 200 {object} dto.APIResponse{data=dto.UploadPhotoResponse} "Photo uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Estimation not found"
// @Router /api/v1/estimations/{uuid}/photo [post]
func (h *EstimationHandler) UploadPhoto(c fiber.Ctx) error {
	return h.handlePhotoUpload(c, nil)
}

// UploadExtraPhoto handles a supplementary photo upload
// @Summary Upload supplementary photo
// @Description Attach a supplementary property photo to an estimation record
// @Tags Estimations
// @Accept multipart/form-data
// @Produce json
// @Param uuid path string true "Estimation UUID"
// @Param index formData int false "Photo slot index"
// @Param photo formData file true "Photo file (jpg, jpeg, png, webp; max 5MB)"
// @Success 200 {object} dto.APIResponse{data=dto.UploadPhotoResponse} "Photo uploaded"
// @Failure 400 {object} dto.APIResponse "Invalid file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Estimation not found"
// @Router /api/v1/estimations/{uuid}/photos [post]
func (h *EstimationHandler) UploadExtraPhoto(c fiber.Ctx) error {
	index := 0
	if raw := c.FormValue("index"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed >= utils.MaxExtraPhotos {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid photo index", "INVALID_INDEX", nil)
		}
		index = parsed
	}
	return h.handlePhotoUpload(c, &index)
}

func (h *EstimationHandler) handlePhotoUpload(c fiber.Ctx, index *int) error {
	recordUUID := c.Params("uuid")
	if recordUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Estimation UUID is required", "MISSING_UUID", nil)
	}

	agentID, ok := c.Locals("agent_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Agent ID not found in context", "MISSING_AGENT_ID", nil)
	}

	req, err := readPhotoFile(c, "photo", index)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Photo file is required", "MISSING_FILE", err.Error())
	}
	req.UUID = recordUUID
	req.AgentID = agentID

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.estimationFlow.UploadPhoto(h.createRequestContext(c, "/api/v1/estimations/"+recordUUID+"/photo"), req, metadata)
	if err != nil {
		if businessflow.IsPhotoTypeNotAllowed(err) || businessflow.IsPhotoTooLarge(err) || businessflow.IsTooManyExtraPhotos(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), businessErrorCode(err), nil)
		}
		return h.estimationErrorResponse(c, err, "Photo upload failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Photo uploaded", result)
}

// ExportHistory handles the XLSX history export
// @Summary Export estimation history
// @Description Export the authenticated agent's estimation records as an XLSX workbook
// @Tags Estimations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "XLSX workbook"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/estimations/export [get]
func (h *EstimationHandler) ExportHistory(c fiber.Ctx) error {
	agentID, ok := c.Locals("agent_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Agent ID not found in context", "MISSING_AGENT_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	filename, data, err := h.estimationFlow.ExportHistory(h.createRequestContext(c, "/api/v1/estimations/export"), agentID, metadata)
	if err != nil {
		log.Println("History export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "History export failed", "EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// estimationErrorResponse maps common record errors to HTTP statuses
func (h *EstimationHandler) estimationErrorResponse(c fiber.Ctx, err error, fallback string) error {
	if businessflow.IsEstimationNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Estimation not found", "ESTIMATION_NOT_FOUND", nil)
	}
	if businessflow.IsEstimationAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Access denied: estimation belongs to another agent", "FORBIDDEN", nil)
	}

	log.Println(fallback, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, fallback, "INTERNAL_ERROR", nil)
}

// businessErrorCode extracts the code of a BusinessError, if any
func businessErrorCode(err error) string {
	if be, ok := err.(*businessflow.BusinessError); ok {
		return be.Code
	}
	return "INVALID_REQUEST"
}

// readPhotoFile reads one uploaded file into an UploadPhotoRequest
func readPhotoFile(c fiber.Ctx, field string, index *int) (*dto.UploadPhotoRequest, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// One byte past the limit is enough to reject oversized files
	// without buffering them fully.
	data, err := io.ReadAll(io.LimitReader(file, utils.MaxPhotoSizeBytes+1))
	if err != nil {
		return nil, err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &dto.UploadPhotoRequest{
		OriginalFilename: fileHeader.Filename,
		ContentType:      contentType,
		Size:             int64(len(data)),
		Data:             data,
		Index:            index,
	}, nil
}

// createRequestContext creates a context with default timeout
func (h *EstimationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *EstimationHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel) // Store cancel function for cleanup

	return ctx
}

// setupCustomValidations sets up custom validation rules
func (h *EstimationHandler) setupCustomValidations() {
	h.validator.RegisterValidation("commune", func(fl validator.FieldLevel) bool {
		return models.IsValidCommune(fl.Field().String())
	})

	h.validator.RegisterValidation("etat_bien", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, condition := range models.PropertyConditions() {
			if value == condition {
				return true
			}
		}
		return false
	})
}
