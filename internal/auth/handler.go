package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/igtaposh/ordersathi-backend/internal/platform/httpx"
)

const (
	otpRequestLimit  = 3
	otpRequestWindow = 5 * time.Minute
)

// Handler wires HTTP endpoints for authentication and profile flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	secureCookie bool
}

// NewHandler constructs a Handler instance. secureCookie marks the token cookie Secure.
func NewHandler(logger *slog.Logger, service *Service, secureCookie bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, secureCookie: secureCookie}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.Limit(otpRequestLimit, otpRequestWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "rate_limited", "Too Many Requests", "too many OTP requests, try again later")
		}),
	)).Post("/otp", h.sendOTP)
	r.Post("/otp/verify", h.verifyOTP)
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(Middleware(h.service.Tokens()))
		r.Get("/profile", h.profile)
		r.Put("/profile", h.updateProfile)
		r.Delete("/profile", h.deleteAccount)
	})
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SendOTP(r.Context(), req); err != nil {
		h.logger.Warn("send otp", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "OTP sent, check your messages"})
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.VerifyOTP(r.Context(), req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "OTP verified"})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sess, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.Warn("register", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.setTokenCookie(w, sess)
	httpx.JSON(w, http.StatusCreated, sess)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sess, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.logger.Warn("login", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.setTokenCookie(w, sess)
	httpx.JSON(w, http.StatusOK, sess)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in ProfileInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		h.logger.Error("delete account", slog.String("user_id", userID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, sess Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
