package permit

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"permitwork/internal/domain/upload"
	"permitwork/internal/pkg/response"
)

const (
	formTemplate = "form.html"
	pageTitle    = "LECO Permit to Work"
	acceptImages = "image/jpeg,image/png,image/webp"

	fieldOperatedLbsPhotos    = "operatedLbsPhotos"
	fieldEarthingPointsPhotos = "earthingPointsPhotos"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type formView struct {
	Title                     string
	CSCOptions                []string
	RequireSafetyConfirmation bool
	MaxUploadMB               float64
	Accept                    string
	Values                    *SubmitRequest
	Error                     string
	Warnings                  []string
	Result                    *Result
	RowJSON                   string
}

func (h *Handler) newView(values *SubmitRequest) formView {
	opts := h.service.Options()
	maxMB := opts.MaxUploadMB
	if maxMB <= 0 {
		maxMB = upload.DefaultMaxMB
	}
	if values == nil {
		values = &SubmitRequest{}
	}
	return formView{
		Title:                     pageTitle,
		CSCOptions:                opts.CSCOptions,
		RequireSafetyConfirmation: opts.RequireSafetyConfirmation,
		MaxUploadMB:               maxMB,
		Accept:                    acceptImages,
		Values:                    values,
	}
}

// ShowForm handles GET /
func (h *Handler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, formTemplate, h.newView(nil))
}

// SubmitForm handles POST / from the page. The form keeps what was typed
// whether or not the submission went through.
func (h *Handler) SubmitForm(c *gin.Context) {
	req, att, err := bindSubmission(c)
	if err != nil {
		view := h.newView(req)
		view.Error = "Error: " + err.Error()
		c.HTML(http.StatusBadRequest, formTemplate, view)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req, att)
	view := h.newView(req)
	if err != nil {
		status, _ := classify(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		view.Error = formMessage(err)
		c.HTML(status, formTemplate, view)
		return
	}

	view.Result = result
	view.Warnings = result.Warnings
	if raw, err := json.MarshalIndent(result.Permit, "", "  "); err == nil {
		view.RowJSON = string(raw)
	}
	c.HTML(http.StatusOK, formTemplate, view)
}

// Submit handles POST /api/v1/permits
func (h *Handler) Submit(c *gin.Context) {
	req, att, err := bindSubmission(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req, att)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Get handles GET /api/v1/permits/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid permit ID")
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// List handles GET /api/v1/permits
func (h *Handler) List(c *gin.Context) {
	limit := DefaultListLimit
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= MaxListLimit {
			limit = v
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	permits, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ListResponse{Permits: permits, Limit: limit, Offset: offset})
}

// bindSubmission reads the text fields and, for multipart posts, the two
// photo fields. Urlencoded and JSON posts simply carry no photos.
func bindSubmission(c *gin.Context) (*SubmitRequest, Attachments, error) {
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		return &req, Attachments{}, err
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return &req, Attachments{}, nil
		}
		return &req, Attachments{}, err
	}

	return &req, Attachments{
		OperatedLbs:    upload.FromMultipart(form.File[fieldOperatedLbsPhotos]),
		EarthingPoints: upload.FromMultipart(form.File[fieldEarthingPointsPhotos]),
	}, nil
}

func classify(err error) (int, string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case errors.Is(err, upload.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, upload.ErrInvalidMimeType):
		return http.StatusBadRequest, "INVALID_FILE_TYPE"
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED"
	case errors.Is(err, ErrInsertFailed):
		return http.StatusInternalServerError, "INSERT_FAILED"
	case errors.Is(err, ErrPermitNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, status, code, verr.Error(), verr)
		return
	}
	response.Error(c, status, code, err.Error())
}

// formMessage shows validation problems as they are and prefixes
// everything else.
func formMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return "Error: " + err.Error()
}
