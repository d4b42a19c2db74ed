package handler

import (
	"net/http"

	"estate_ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindNotFound:     http.StatusNotFound,
}

// respondError writes expected failures as {"error": msg} and hides everything else
// behind a plain 500.
func respondError(c *gin.Context, err error) {
	if e, ok := service.AsError(err); ok {
		c.JSON(kindStatus[e.Kind], gin.H{"error": e.Msg})
		return
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("Request failed")
	c.String(http.StatusInternalServerError, "Server Error")
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}
