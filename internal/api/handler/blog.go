package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/response"
	"github.com/leoprim/ebutikpartner-sub001/internal/api/validation"
	"github.com/leoprim/ebutikpartner-sub001/internal/llm"
)

// BlogHandler proxies blog-post generation to the LLM provider.
type BlogHandler struct {
	generator llm.Generator
	hasKey    bool
}

// NewBlogHandler creates a new BlogHandler. hasKey reflects whether an LLM
// API key was present in the environment.
func NewBlogHandler(generator llm.Generator, hasKey bool) *BlogHandler {
	return &BlogHandler{generator: generator, hasKey: hasKey}
}

type generateBlogRequest struct {
	Topic                  string `json:"topic"`
	Keywords               string `json:"keywords"`
	AdditionalInstructions string `json:"additionalInstructions"`
}

type generateBlogResponse struct {
	Content string `json:"content"`
}

// Generate handles POST /api/blog/generate. Incomplete requests are rejected
// before the upstream provider is contacted; upstream failures surface once,
// unretried.
func (h *BlogHandler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req generateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateGenerateBlogRequest(validation.GenerateBlogRequest{
		Topic:    req.Topic,
		Keywords: req.Keywords,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithFields(w, http.StatusBadRequest, "topic and keywords are required", fieldErrors)
		return
	}

	if !h.hasKey {
		response.Err(w, http.StatusInternalServerError, "LLM API key is not configured")
		return
	}

	content, err := h.generator.GenerateBlogPost(r.Context(), llm.GenerateRequest{
		Topic:                  req.Topic,
		Keywords:               req.Keywords,
		AdditionalInstructions: req.AdditionalInstructions,
	})
	if err != nil {
		slog.Error("blog generation failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "failed to generate blog post")
		return
	}

	response.JSON(w, http.StatusOK, generateBlogResponse{Content: content})
}
