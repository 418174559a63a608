package hospital

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/service/hospital"
)

type Handler struct {
	service *hospital.Service
}

func NewHandler(service *hospital.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/hospitals")
	{
		hospitals.POST("", h.RegisterHospital)
		hospitals.GET("", h.ListHospitals)
		hospitals.GET("/:id", h.GetHospital)
		hospitals.PUT("/:id", h.UpdateHospital)
		hospitals.GET("/:id/business-hours", h.ListBusinessHours)
		hospitals.PUT("/:id/business-hours/:day", h.UpdateBusinessHour)
	}
}

func (h *Handler) RegisterHospital(c *gin.Context) {
	var req model.CreateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	hospital, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": hospital})
}

func (h *Handler) GetHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
		return
	}

	hospital, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": hospital})
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": hospitals})
}

func (h *Handler) UpdateHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
		return
	}

	var req model.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	hospital, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": hospital})
}

func (h *Handler) ListBusinessHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
		return
	}

	hours, err := h.service.ListBusinessHours(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": hours})
}

func (h *Handler) UpdateBusinessHour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
		return
	}

	day := model.Weekday(c.Param("day"))
	valid := false
	for _, d := range model.AllWeekdays {
		if d == day {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid weekday"})
		return
	}

	var req model.UpdateBusinessHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	hour, err := h.service.UpdateBusinessHour(c.Request.Context(), id, day, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": hour})
}
