package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Copay-Africa/copay-server-sub001/internal/models"
	"github.com/Copay-Africa/copay-server-sub001/internal/ussd"
)

// USSDHandler is the gateway adapter between the telecom aggregator and the
// conversation engine. It holds no conversation state itself: exactly one
// load -> handle -> save|delete cycle per inbound request happens inside the
// engine, and every failure is converted into a safe terminal response here.
type USSDHandler struct {
	engine *ussd.Engine
}

// NewUSSDHandler creates a new USSD gateway handler
func NewUSSDHandler(engine *ussd.Engine) *USSDHandler {
	return &USSDHandler{engine: engine}
}

// USSDRequest is the aggregator's request body
type USSDRequest struct {
	SessionID   string `json:"sessionId"`
	PhoneNumber string `json:"phoneNumber"`
	Text        string `json:"text"`
	ServiceCode string `json:"serviceCode"`
	NetworkCode string `json:"networkCode"`
}

// USSDResponse tells the aggregator what to display and whether to keep the
// session open ("CON") or close it ("END")
type USSDResponse struct {
	Message      string `json:"message"`
	SessionState string `json:"sessionState"`
}

var unavailableResponse = USSDResponse{
	Message:      "Service temporarily unavailable. Please try again later.",
	SessionState: string(ussd.StateEnd),
}

// HandleUSSD processes one aggregator request
func (h *USSDHandler) HandleUSSD(c *fiber.Ctx) error {
	var req USSDRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("USSD: invalid payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid USSD payload",
		})
	}

	if req.SessionID == "" || req.PhoneNumber == "" {
		log.Printf("USSD: missing sessionId or phoneNumber")
		return c.JSON(unavailableResponse)
	}

	phone := models.NormalizePhone(req.PhoneNumber)
	log.Printf("📱 USSD %s from %s: %q", req.SessionID, phone, req.Text)

	// Nothing past this point may leak internal detail onto the USSD
	// channel; a panic anywhere in the cycle becomes the generic terminal
	// response with the session cleared
	response := h.safeHandle(c, req.SessionID, phone, req.Text)
	return c.JSON(response)
}

func (h *USSDHandler) safeHandle(c *fiber.Ctx, sessionID, phone, text string) (resp USSDResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ USSD panic for session %s: %v", sessionID, r)
			h.engine.Reset(c.Context(), sessionID)
			resp = unavailableResponse
		}
	}()

	result, err := h.engine.Handle(c.Context(), sessionID, phone, text)
	if err != nil {
		log.Printf("❌ USSD error for session %s: %v", sessionID, err)
		h.engine.Reset(c.Context(), sessionID)
		return unavailableResponse
	}

	return USSDResponse{
		Message:      result.Message,
		SessionState: string(result.State),
	}
}

// HandleHealth answers aggregator-side liveness checks
func (h *USSDHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "copay-ussd-gateway",
	})
}
