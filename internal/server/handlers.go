package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vidresolve/internal/extract"
)

// statusClientClosed is the nginx convention for a request the client gave up on.
const statusClientClosed = 499

// ResolveRequest is the POST body of /api/v1/resolve.
type ResolveRequest struct {
	Text string `json:"text" form:"text"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse wraps successful payloads.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

func respondSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resolveHandler accepts ?text= on GET and a JSON body on POST.
func (s *Server) resolveHandler(c *gin.Context) {
	var req ResolveRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, string(extract.KindBadInput),
				"invalid request body", err.Error())
			return
		}
	} else {
		req.Text = c.Query("text")
	}

	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, string(extract.KindBadInput),
			"text is required", nil)
		return
	}

	result, err := s.ext.Extract(c.Request.Context(), req.Text)
	if err != nil {
		kind := extract.Classify(err)
		details := map[string]any{"cause": err.Error()}
		var f *extract.Failure
		if errors.As(err, &f) {
			details["stage"] = f.Stage.String()
		}
		s.log.WithError(err).WithField("kind", kind).Warn("resolve failed")
		respondError(c, statusFor(kind), string(kind), "could not resolve media URL", details)
		return
	}

	respondSuccess(c, result, "")
}

func statusFor(kind extract.Kind) int {
	switch kind {
	case extract.KindBadInput:
		return http.StatusBadRequest
	case extract.KindUnavailable:
		return http.StatusBadGateway
	case extract.KindSchemaChanged:
		return http.StatusUnprocessableEntity
	case extract.KindCanceled:
		return statusClientClosed
	default:
		return http.StatusInternalServerError
	}
}
