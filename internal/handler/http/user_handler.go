package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Forename string `json:"forename"`
	Surname  string `json:"surname"`
	Street   string `json:"street"`
	Zip      string `json:"zip"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Forename string `json:"forename" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Street   string `json:"street" validate:"required"`
	Zip      string `json:"zip" validate:"required"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	domainUser := user.User{
		Email:    requestPayload.Email,
		Forename: requestPayload.Forename,
		Surname:  requestPayload.Surname,
		Street:   requestPayload.Street,
		Zip:      requestPayload.Zip,
		City:     requestPayload.City,
		Country:  requestPayload.Country,
	}

	createdUser, err := h.service.Create(r.Context(), &domainUser)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		if errors.Is(err, user.ErrEmailExists) {
			clientMessage = "Email already exists"
		} else {
			log.Error().Err(err).Msg("Failed to create user via service")
			clientMessage = "Failed to create user"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, createdUser)
}

// handleGetUser serves lookups by internal id or, for non-numeric parameters,
// by email address.
func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	if idParam == "" {
		respondWithError(w, http.StatusBadRequest, "Id parameter cannot be empty")
		return
	}

	foundUser, err := h.service.Get(r.Context(), idParam)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get user via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get user")
		return
	}

	respondWithJSON(w, http.StatusOK, foundUser)
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "userId")
	userID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Warn().Str("user_id", idParam).Msg("Failed to parse userId parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid userId parameter")
		return
	}

	var requestPayload UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	domainUser := user.User{
		ID:       userID,
		Email:    requestPayload.Email,
		Forename: requestPayload.Forename,
		Surname:  requestPayload.Surname,
		Street:   requestPayload.Street,
		Zip:      requestPayload.Zip,
		City:     requestPayload.City,
		Country:  requestPayload.Country,
	}

	err = h.service.Update(r.Context(), &domainUser)
	if err != nil {
		statusCode := mapErrorToStatusCode(err)

		var clientMessage string
		switch {
		case errors.Is(err, user.ErrNotFound):
			clientMessage = "User not found"
		case errors.Is(err, user.ErrEmailExists):
			clientMessage = "Email already exists"
		default:
			log.Error().Err(err).Msg("Failed to update user via service")
			clientMessage = "Failed to update user"
		}

		respondWithError(w, statusCode, clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
