package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
)

type ArticleRequest struct {
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
}

type ArticleHandler struct {
	service  article.Service
	validate *validator.Validate
}

func NewArticleHandler(service article.Service) *ArticleHandler {
	return &ArticleHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ArticleHandler) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var requestPayload ArticleRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	domainArticle := article.Article{
		Title:       requestPayload.Title,
		Price:       requestPayload.Price,
		Description: requestPayload.Description,
	}

	createdArticle, err := h.service.Create(r.Context(), &domainArticle)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create article via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create article")
		return
	}

	respondWithJSON(w, http.StatusCreated, createdArticle)
}

func (h *ArticleHandler) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	articleID, ok := parseArticleID(w, r)
	if !ok {
		return
	}

	foundArticle, err := h.service.GetByID(r.Context(), articleID)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Article not found")
			return
		}
		log.Error().Err(err).Msg("Failed to get article via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get article")
		return
	}

	respondWithJSON(w, http.StatusOK, foundArticle)
}

func (h *ArticleHandler) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	articleID, ok := parseArticleID(w, r)
	if !ok {
		return
	}

	var requestPayload ArticleRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	domainArticle := article.Article{
		ID:          articleID,
		Title:       requestPayload.Title,
		Price:       requestPayload.Price,
		Description: requestPayload.Description,
	}

	err := h.service.Update(r.Context(), &domainArticle)
	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Article not found")
			return
		}
		log.Error().Err(err).Msg("Failed to update article via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update article")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ArticleHandler) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list articles via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list articles")
		return
	}

	respondWithJSON(w, http.StatusOK, articles)
}

func parseArticleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	articleID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Warn().Str("article_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return 0, false
	}
	return articleID, true
}
