package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	bookingapp "greencurry/internal/app/booking"
	"greencurry/internal/domain/shared/dates"
)

type DashboardHandler struct {
	Service *bookingapp.Service
}

// Stats serves the admin headline numbers; ?from=YYYY-MM-DD&to=YYYY-MM-DD
// adds the per-day calendar window.
func (h DashboardHandler) Stats(c *gin.Context) {
	from, _ := dates.Parse(c.Query("from"))
	to, _ := dates.Parse(c.Query("to"))
	stats, err := h.Service.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

var _ DashboardHTTP = DashboardHandler{}
