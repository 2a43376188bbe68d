package http

import (
	"net/http"
	"time"

	"github.com/vlasovdm/taskdeck/backend/internal/auth/service"
	commonhttp "github.com/vlasovdm/taskdeck/backend/internal/common/http"
	"github.com/vlasovdm/taskdeck/backend/internal/common/jwtverify"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type Handler struct {
	auth    *service.AuthService
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		auth:    auth,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}
}

func (h *Handler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)
	withTimeout := commonhttp.WithTimeout(h.timeout)

	mux.HandleFunc("/api/auth/register", post(withTimeout(h.register)))
	mux.HandleFunc("/api/auth/login", post(withTimeout(h.login)))
	mux.Handle("/api/auth/me", auth(get(withTimeout(h.me))))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing claims", nil, "")
		return
	}

	user, err := h.auth.Profile(r.Context(), claims.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !commonhttp.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: result.AccessToken})
}
