package holiday

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	holidayerrors "go-timesheet/internal/holiday/errors"
	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"
)

type Handler struct {
	service  Service
	importer *Importer
}

func NewHandler(service Service, importer *Importer) *Handler {
	return &Handler{service: service, importer: importer}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

type createHolidayRequest struct {
	Date  string `json:"date" binding:"required"`
	Name  string `json:"name" binding:"required"`
	City  string `json:"city"`
	State string `json:"state" binding:"omitempty,len=2"`
}

type holidayResponse struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

func mapToResponse(h Holiday) holidayResponse {
	return holidayResponse{
		ID:    h.ID.String(),
		Date:  h.Date.Format("2006-01-02"),
		Name:  h.Name,
		City:  h.City,
		State: h.State,
	}
}

func (h *Handler) List(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		writeServiceError(c, holidayerrors.ErrInvalidYear)
		return
	}

	holidays, err := h.service.ListByYear(c.Request.Context(), year)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := make([]holidayResponse, 0, len(holidays))
	for _, item := range holidays {
		out = append(out, mapToResponse(item))
	}
	response.Success(c, http.StatusOK, out, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req createHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeServiceError(c, holidayerrors.ErrInvalidDate)
		return
	}

	holiday := &Holiday{
		Date:  date,
		Name:  req.Name,
		City:  req.City,
		State: req.State,
	}
	if err := h.service.Save(c.Request.Context(), holiday); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, mapToResponse(*holiday), nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Import(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 2000 || year > 2100 {
		writeServiceError(c, holidayerrors.ErrInvalidYear)
		return
	}

	imported, failures, err := h.importer.ImportYear(c.Request.Context(), year)
	if err != nil {
		writeServiceError(c, holidayerrors.ErrImportFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"imported":      imported,
		"failed_cities": failures,
	}, nil)
}
