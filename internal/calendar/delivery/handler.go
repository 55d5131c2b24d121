package delivery

import (
	"net/http"
	"time"

	authrepo "lifedash-backend/internal/auth/repository"
	"lifedash-backend/pkg/calendar"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

type CalendarHandler struct {
	calendarService *calendar.Service
	userRepo        authrepo.UserRepository
}

func NewCalendarHandler(calendarService *calendar.Service, userRepo authrepo.UserRepository) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		userRepo:        userRepo,
	}
}

// ListEvents proxies the user's Google Calendar for the dashboard. The
// window defaults to the next 30 days.
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil || user.GoogleAccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "google account not connected"})
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, 30)
	if s := c.Query("from"); s != "" {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			from = parsed
		}
	}
	if s := c.Query("to"); s != "" {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			to = parsed
		}
	}

	onTokenRefresh := func(newToken *oauth2.Token) error {
		user.GoogleAccessToken = newToken.AccessToken
		if newToken.RefreshToken != "" {
			user.GoogleRefreshToken = newToken.RefreshToken
		}
		return h.userRepo.Update(user)
	}

	events, err := h.calendarService.ListEvents(c.Request.Context(), user.GoogleAccessToken, user.GoogleRefreshToken, from, to, onTokenRefresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
