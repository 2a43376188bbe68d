package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "github.com/vlasovdm/taskdeck/backend/internal/common/http"
	"github.com/vlasovdm/taskdeck/backend/internal/common/jwtverify"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	"github.com/vlasovdm/taskdeck/backend/internal/push/domain"
	"github.com/vlasovdm/taskdeck/backend/internal/push/service"
)

const unsubscribePrefix = "/api/auth/push/unsubscribe/"

type subscribeRequest struct {
	Endpoint       string      `json:"endpoint" validate:"required,url,max=1024"`
	ExpirationTime *float64    `json:"expirationTime"`
	Keys           keysPayload `json:"keys"`
}

type keysPayload struct {
	P256dh string `json:"p256dh" validate:"required,max=512"`
	Auth   string `json:"auth" validate:"required,max=512"`
}

type publicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	push       *service.Service
	dispatcher *service.Dispatcher
	errors     *commonhttp.ErrorHandler
	log        *logger.Logger
	timeout    time.Duration
}

func NewHandler(push *service.Service, dispatcher *service.Dispatcher, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		push:       push,
		dispatcher: dispatcher,
		errors:     commonhttp.NewErrorHandler(log),
		log:        log,
		timeout:    timeout,
	}
}

// Register mounts the push routes. Everything except the public-key
// lookup requires a bearer token.
func (h *Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	withTimeout := commonhttp.WithTimeout(h.timeout)

	mux.HandleFunc("/api/auth/push/vapid-public-key",
		commonhttp.RequireMethod(http.MethodGet)(withTimeout(h.publicKey)))

	mux.Handle("/api/auth/push/subscribe",
		auth(commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.subscribe))))

	mux.Handle(unsubscribePrefix,
		auth(commonhttp.RequireMethod(http.MethodDelete)(withTimeout(h.unsubscribe))))

	mux.Handle("/api/auth/push/subscriptions",
		auth(commonhttp.RequireMethod(http.MethodDelete)(withTimeout(h.deactivateAll))))

	mux.Handle("/api/auth/push/test",
		auth(commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.sendTest))))
}

func (h *Handler) publicKey(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, publicKeyResponse{PublicKey: h.push.PublicKey()})
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, "")
		return
	}

	var req subscribeRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	input := service.SubscribeInput{
		Endpoint: req.Endpoint,
		Keys: domain.Keys{
			P256dh: req.Keys.P256dh,
			Auth:   req.Keys.Auth,
		},
		ExpirationTime: expirationTime(req.ExpirationTime),
	}

	if err := h.push.Subscribe(r.Context(), claims.UserID, input); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, statusResponse{Status: "subscribed"})
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, "")
		return
	}

	raw := strings.TrimPrefix(r.URL.EscapedPath(), unsubscribePrefix)
	if raw == "" {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "endpoint is required", nil, "")
		return
	}

	endpoint, err := url.PathUnescape(raw)
	if err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidEndpoint, "endpoint is not a valid url-encoded value", nil, "")
		return
	}

	if err := h.push.Unsubscribe(r.Context(), claims.UserID, endpoint); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, statusResponse{Status: "unsubscribed"})
}

func (h *Handler) deactivateAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, "")
		return
	}

	if err := h.push.DeactivateAll(r.Context(), claims.UserID); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, statusResponse{Status: "deactivated"})
}

// sendTest pushes a throwaway notification to the caller's own
// subscriptions so a client can verify the whole delivery path.
func (h *Handler) sendTest(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, "")
		return
	}

	err := h.dispatcher.NotifyUser(r.Context(), claims.UserID, service.Notification{
		Title: "Taskdeck",
		Body:  "Push notifications are working.",
		Tag:   "test",
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, statusResponse{Status: "sent"})
}

// expirationTime converts the subscription JSON's DOMHighResTimeStamp
// (milliseconds since epoch, or null) into a time.
func expirationTime(ms *float64) *time.Time {
	if ms == nil || *ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(*ms)).UTC()
	return &t
}
