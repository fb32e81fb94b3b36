package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/JoshiWorld/rechnungssteller-api/internal/master"
)

type MasterCredentialsRequest struct {
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type MasterHandler struct {
	service  master.Service
	validate *validator.Validate
}

func NewMasterHandler(service master.Service) *MasterHandler {
	return &MasterHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *MasterHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload MasterCredentialsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	token, err := h.service.Login(r.Context(), requestPayload.Role, requestPayload.Password)
	if err != nil {
		if errors.Is(err, master.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid role or password")
			return
		}
		log.Error().Err(err).Msg("Failed to log in master via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *MasterHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload MasterCredentialsRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	err := h.service.Register(r.Context(), requestPayload.Role, requestPayload.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register master via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to register master")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"role": requestPayload.Role})
}
