/**
 * @description
 * This file contains the HTTP handlers for the billing-service: the PayPal
 * webhook endpoint and the manual reconciliation actions called from the
 * dashboard. The webhook handler is the only unauthenticated inbound
 * surface, so every delivery is signature-verified before the transition
 * engine sees it. Every request gets a correlation id carried through the
 * log lines of the multi-step transition.
 */
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/billing-service/internal/app"
	"github.com/careerforge/billing-service/internal/domain"
	"github.com/careerforge/billing-service/pkg/paypalclient"
)

// Handler wires the HTTP surface to the transition engine.
type Handler struct {
	service  *app.Service
	verifier *app.Verifier
}

// NewHandler creates a new Handler.
func NewHandler(service *app.Service, verifier *app.Verifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

// handleWebhook processes provider webhook deliveries. Manual-action bodies
// are rejected here; the authenticated /actions route owns those.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	start := time.Now()
	log.Printf("[%s] webhook delivery from %s", reqID, r.RemoteAddr)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, reqID, http.StatusBadRequest, "cannot read request body")
		return
	}

	action, event, err := domain.ClassifyRequest(body)
	if err != nil {
		respondWithError(w, reqID, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if action != nil {
		respondWithError(w, reqID, http.StatusBadRequest, "manual actions must use the authenticated /actions endpoint")
		return
	}
	if event.EventType == "" {
		respondWithError(w, reqID, http.StatusBadRequest, "missing event_type")
		return
	}

	if err := h.verifier.Verify(r.Context(), body, r.Header); err != nil {
		log.Printf("[%s] webhook signature rejected for event %s: %v", reqID, event.EventType, err)
		respondWithError(w, reqID, http.StatusUnauthorized, "webhook signature verification failed")
		return
	}

	result, err := h.service.HandleWebhookEvent(r.Context(), reqID, event)
	if err != nil {
		h.respondWithEngineError(w, reqID, err)
		return
	}

	log.Printf("[%s] webhook %s processed in %v", reqID, event.EventType, time.Since(start))
	respondWithJSON(w, http.StatusOK, result)
}

// handleAction processes manual reconciliation actions. The route is behind
// JWT authentication; webhook signature verification does not apply here.
func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	userID, _ := GetClerkUserID(r.Context())
	log.Printf("[%s] manual action request by %s", reqID, userID)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, reqID, http.StatusBadRequest, "cannot read request body")
		return
	}

	action, _, err := domain.ClassifyRequest(body)
	if err != nil || action == nil {
		respondWithError(w, reqID, http.StatusBadRequest, "missing or invalid action")
		return
	}

	switch action.Action {
	case domain.ActionForceLink:
		result, err := h.service.ForceLink(r.Context(), reqID, action)
		if err != nil {
			if errors.Is(err, app.ErrMissingSubscriptionID) {
				respondWithError(w, reqID, http.StatusBadRequest, err.Error())
				return
			}
			h.respondWithEngineError(w, reqID, err)
			return
		}
		respondWithJSON(w, http.StatusOK, result)

	case domain.ActionSyncSubscriptions:
		target := action.UserID
		if target == "" {
			target = userID
		}
		if target == "" {
			respondWithError(w, reqID, http.StatusBadRequest, "user_id is required")
			return
		}
		result, err := h.service.SyncSubscriptions(r.Context(), reqID, target)
		if err != nil {
			h.respondWithEngineError(w, reqID, err)
			return
		}
		respondWithJSON(w, http.StatusOK, result)

	case domain.ActionCancel:
		respondWithJSON(w, http.StatusOK, h.service.AcknowledgeCancel(reqID))

	default:
		respondWithError(w, reqID, http.StatusBadRequest, fmt.Sprintf("unknown action %q", action.Action))
	}
}

// respondWithEngineError maps transition engine failures onto HTTP codes:
// unresolvable identity is a client-side 400 (the event cannot be applied),
// everything else is a 500 so the provider redelivers.
func (h *Handler) respondWithEngineError(w http.ResponseWriter, reqID string, err error) {
	var unresolved *app.UnresolvedUserError
	if errors.As(err, &unresolved) {
		respondWithError(w, reqID, http.StatusBadRequest, unresolved.Error())
		return
	}
	var authErr *paypalclient.AuthError
	var apiErr *paypalclient.APIError
	switch {
	case errors.As(err, &authErr), errors.As(err, &apiErr):
		log.Printf("[%s] provider error: %v", reqID, err)
	default:
		log.Printf("[%s] unexpected error: %v", reqID, err)
	}
	respondWithJSON(w, http.StatusInternalServerError, map[string]any{
		"error":     err.Error(),
		"errorId":   reqID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// requestID returns the caller-supplied correlation id or generates one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

func respondWithError(w http.ResponseWriter, reqID string, code int, message string) {
	log.Printf("[%s] request rejected: %d %s", reqID, code, message)
	respondWithJSON(w, code, map[string]any{
		"error":     message,
		"errorId":   reqID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
