package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "greencurry/internal/app/booking"
	domainbooking "greencurry/internal/domain/booking"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/domain/shared/dates"
)

type BookingHandler struct {
	Service *bookingapp.Service
}

type quoteRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func (h BookingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quote, err := h.Service.Quote(c.Request.Context(), req.RoomID, req.CheckIn, req.CheckOut)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type createBookingRequest struct {
	ID         string `json:"id"`
	RoomID     string `json:"room_id" binding:"required"`
	GuestName  string `json:"guest_name" binding:"required"`
	GuestEmail string `json:"guest_email" binding:"required"`
	GuestPhone string `json:"guest_phone"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	Notes      string `json:"notes"`
	CardNumber string `json:"card_number"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.Reserve(c.Request.Context(), bookingapp.ReserveParams{
		ID:         req.ID,
		RoomID:     req.RoomID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Notes:      req.Notes,
		CardNumber: req.CardNumber,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h BookingHandler) List(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h BookingHandler) Get(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

type updateBookingRequest struct {
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
	GuestName *string `json:"guest_name"`
}

func (h BookingHandler) Update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.Update(c.Request.Context(), c.Param("id"), bookingapp.UpdateParams{
		Status:    req.Status,
		Notes:     req.Notes,
		GuestName: req.GuestName,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h BookingHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

type bookingResponse struct {
	ID         string `json:"id"`
	RoomID     string `json:"room_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	PricePaid  int64  `json:"price_paid"`
}

func toBookingResponse(b *domainbooking.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		RoomID:     b.RoomID,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		GuestPhone: b.GuestPhone,
		CheckIn:    b.Stay.CheckIn.String(),
		CheckOut:   b.Stay.CheckOut.String(),
		Status:     string(b.Status),
		Notes:      b.Notes,
		PricePaid:  b.PricePaid,
	}
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound), errors.Is(err, domainbooking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrRoomUnavailable), errors.Is(err, domainbooking.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrPaymentIncomplete):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, dates.ErrBadFormat), errors.Is(err, dates.ErrInvalidRange),
		errors.Is(err, bookingapp.ErrCheckInInPast), errors.Is(err, bookingapp.ErrStatusNotAllowed),
		errors.Is(err, domainbooking.ErrInvalidState), errors.Is(err, domainbooking.ErrGuestRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

var _ BookingHTTP = BookingHandler{}
