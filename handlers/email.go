package handlers

import (
	"net/http"

	"beamhealth/models"
	"beamhealth/services/notification"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	Sender notification.EmailSender
}

func NewEmailHandler(sender notification.EmailSender) *EmailHandler {
	return &EmailHandler{Sender: sender}
}

// SendEmailHandler handles POST /api/send-email. Delivery is mocked.
func (h *EmailHandler) SendEmailHandler(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid email request", err)
		return
	}
	receipt, err := h.Sender.SendEmail(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Error sending email")
		return
	}
	c.JSON(http.StatusOK, receipt)
}
