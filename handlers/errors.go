package handlers

import (
	"errors"
	"net/http"
	"strconv"

	recordsRepo "beamhealth/database/repository/records"
	ai "beamhealth/services/intelligence"
	"beamhealth/services/patient"
	"beamhealth/utils"

	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is advertised when an upstream call timed out or the
// record store could not be read.
const retryAfterSeconds = 30

// writeError maps a service error onto an HTTP status and the standard
// error body. message describes the failed operation.
func writeError(c *gin.Context, err error, message string) {
	var (
		nf patient.NotFoundError
		pe *ai.ProviderError
	)
	switch {
	case errors.As(err, &nf):
		utils.JSONError(c, http.StatusNotFound, nf.Error(), "")
	case errors.Is(err, recordsRepo.ErrDataUnavailable):
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		utils.JSONError(c, http.StatusServiceUnavailable, message, err.Error())
	case errors.Is(err, ai.ErrAudioTooLarge):
		utils.JSONError(c, http.StatusRequestEntityTooLarge, message, err.Error())
	case errors.Is(err, ai.ErrInvalidRequest), errors.Is(err, ai.ErrInvalidTranscription):
		utils.JSONError(c, http.StatusBadRequest, message, err.Error())
	case errors.As(err, &pe) && pe.Timeout():
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		utils.JSONError(c, http.StatusServiceUnavailable, message, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, message, err.Error())
	}
}

func badRequest(c *gin.Context, message string, err error) {
	utils.JSONError(c, http.StatusBadRequest, message, err.Error())
}
