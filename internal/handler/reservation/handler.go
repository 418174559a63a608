package reservation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medops/clinic-api/internal/middleware"
	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/internal/service/availability"
	"github.com/medops/clinic-api/internal/service/reservation"
	"github.com/medops/clinic-api/internal/service/timetable"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

type Handler struct {
	service      *reservation.Service
	availability *availability.Service
	timetable    *timetable.Service
}

func NewHandler(service *reservation.Service, avail *availability.Service, tt *timetable.Service) *Handler {
	return &Handler{
		service:      service,
		availability: avail,
		timetable:    tt,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("", h.ListReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.GET("/:id/events", h.GetReservationEvents)
		reservations.PATCH("/:id/status", h.ChangeStatus)
		reservations.PATCH("/:id/note", h.UpdateNote)
		reservations.PATCH("/:id/doctor", h.AssignDoctor)
		reservations.POST("/:id/reschedule", h.Reschedule)
	}
}

// RegisterReadRoutes wires the availability and timetable reads. They are
// registered separately so the router can put a short-TTL response cache in
// front of them.
func (h *Handler) RegisterReadRoutes(r *gin.RouterGroup) {
	products := r.Group("/products")
	{
		products.GET("/:id/availability", h.GetAvailability)
		products.GET("/:id/timetable", h.GetTimetable)
	}
}

func actorFrom(c *gin.Context) (model.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.Error(apperrors.Unauthorized(nil))
		return model.Actor{}, false
	}
	return *actor, true
}

func (h *Handler) CreateReservation(c *gin.Context) {
	var req model.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reservation, err := h.service.CreateReservation(c.Request.Context(), actor, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": reservation})
}

func (h *Handler) GetReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid reservation ID"})
		return
	}

	reservation, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reservation})
}

func (h *Handler) ListReservations(c *gin.Context) {
	filters := &model.ReservationFilters{}

	if id := c.Query("hospital_id"); id != "" {
		hospitalID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
			return
		}
		filters.HospitalID = hospitalID
	}

	if id := c.Query("product_id"); id != "" {
		productID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product ID"})
			return
		}
		filters.ProductID = productID
	}

	if id := c.Query("user_id"); id != "" {
		userID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid user ID"})
			return
		}
		filters.UserID = userID
	}

	if status := c.Query("status"); status != "" {
		s := model.ReservationStatus(status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid status"})
			return
		}
		filters.Status = s
	}

	if date := c.Query("start_date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start date"})
			return
		}
		filters.StartDate = parsed
	}

	if date := c.Query("end_date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end date"})
			return
		}
		filters.EndDate = parsed
	}

	reservations, err := h.service.ListReservations(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reservations})
}

func (h *Handler) GetReservationEvents(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid reservation ID"})
		return
	}

	events, err := h.service.GetEvents(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": events})
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid reservation ID"})
		return
	}

	var req model.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reservation, err := h.service.ChangeStatus(c.Request.Context(), id, actor, req.Status, req.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reservation})
}

func (h *Handler) UpdateNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid reservation ID"})
		return
	}

	var req model.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reservation, err := h.service.UpdateNote(c.Request.Context(), id, actor, req.Note)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reservation})
}

func (h *Handler) AssignDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid reservation ID"})
		return
	}

	var req model.AssignDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reservation, err := h.service.AssignDoctor(c.Request.Context(), id, actor, req.DoctorID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reservation})
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid reservation ID"})
		return
	}

	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	reservation, err := h.service.Reschedule(c.Request.Context(), id, actor, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reservation})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product ID"})
		return
	}

	hospitalID, err := uuid.Parse(c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format"})
		return
	}

	availability, err := h.availability.GetAvailability(c.Request.Context(), hospitalID, productID, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": availability})
}

func (h *Handler) GetTimetable(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid product ID"})
		return
	}

	hospitalID, err := uuid.Parse(c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hospital ID"})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date format"})
		return
	}

	timetable, err := h.timetable.GetTimetable(c.Request.Context(), hospitalID, productID, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": timetable})
}
