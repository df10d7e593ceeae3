package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"otprelay/internal/model"
	"otprelay/internal/service"
	"otprelay/pkg/logger"

	"github.com/gin-gonic/gin"
)

// smsCodePattern extracts the first 6-digit group from an SMS body.
var smsCodePattern = regexp.MustCompile(`\d{6}`)

// OTPHandler handles passcode submission and introspection
type OTPHandler struct {
	otpService *service.OTPService
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(otpService *service.OTPService) *OTPHandler {
	return &OTPHandler{otpService: otpService}
}

// Submit receives a code from an external source (SMS webhook or manual input)
// @Summary Submit OTP code
// @Description Accepts manual JSON ({"otp": "123456"}) or a form-encoded SMS webhook (Body field, first 6-digit group extracted)
// @Tags otp
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /otp [post]
func (h *OTPHandler) Submit(c *gin.Context) {
	code, err := extractCode(c)
	if err != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	h.otpService.SubmitCode(c.Request.Context(), code)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "OTP received successfully",
		"otp":       code,
		"timestamp": time.Now().Format("2006-01-02 15:04:05"),
	})
}

// extractCode pulls the code out of either request shape. The second return
// value is a non-empty user-facing error message on failure.
func extractCode(c *gin.Context) (string, string) {
	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") ||
		strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		// SMS webhook shape: code embedded in the message body
		body := c.PostForm("Body")
		code := smsCodePattern.FindString(body)
		if code == "" {
			logger.WarnCtx(c.Request.Context(), "could not extract code from SMS body")
			return "", "could not extract OTP from SMS body"
		}
		return code, ""
	}

	// Manual JSON shape
	var req model.SubmitOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OTP == "" {
		return "", "otp code is required"
	}
	return req.OTP, ""
}

// Status reports whether a legacy code is waiting
// @Summary Legacy slot status
// @Description Read-only introspection of the legacy single-slot fallback
// @Tags otp
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /otp/status [get]
func (h *OTPHandler) Status(c *gin.Context) {
	st := h.otpService.LegacyStatus()
	if !st.Waiting {
		c.JSON(http.StatusOK, gin.H{"waiting": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"waiting":     true,
		"age_seconds": int(st.Age.Seconds()),
		"expires_in":  int(st.ExpiresIn.Seconds()),
	})
}

// Info describes the submission endpoint and the current queue state
// @Summary OTP endpoint usage
// @Tags otp
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /otp [get]
func (h *OTPHandler) Info(c *gin.Context) {
	st := h.otpService.LegacyStatus()
	current := gin.H{"has_otp": st.Waiting}
	if st.Waiting {
		current["age_seconds"] = int(st.Age.Seconds())
	}
	c.JSON(http.StatusOK, gin.H{
		"usage":           "Send POST request with JSON body: {\"otp\": \"123456\"}",
		"queue_depth":     h.otpService.QueueDepth(),
		"waiting_workers": h.otpService.WaitingWorkers(),
		"current_status":  current,
	})
}
