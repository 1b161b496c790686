package ginserver

import (
	"fmt"
	"net/http"
	"path"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookingapp "greencurry/internal/app/booking"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/infra/storage/s3"
)

type RoomHandler struct {
	Rooms    rooms.Repository
	Service  *bookingapp.Service
	Uploader s3.Uploader
}

func (h RoomHandler) List(c *gin.Context) {
	list, err := h.Rooms.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Calendar returns the blocked dates for the room so the booking form can
// grey them out.
func (h RoomHandler) Calendar(c *gin.Context) {
	blocked, err := h.Service.RoomCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	out := make([]string, 0, len(blocked))
	for _, d := range blocked {
		out = append(out, d.String())
	}
	c.JSON(http.StatusOK, gin.H{"room_id": c.Param("id"), "booked_dates": out})
}

func (h RoomHandler) UploadPhoto(c *gin.Context) {
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
		return
	}
	room, err := h.Rooms.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("rooms/%s/%s%s", room.ID, uuid.NewString(), path.Ext(header.Filename))
	url, err := h.Uploader.Upload(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room_id": room.ID, "url": url})
}

var _ RoomHTTP = RoomHandler{}
