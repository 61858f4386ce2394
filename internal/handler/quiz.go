package handler

import (
	"strings"

	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/middleware"
	"wiki-quiz/internal/service"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	if validator == nil {
		validator = validation.NewValidator()
	}
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes mounts the quiz API under router.
func (h *QuizHandler) RegisterRoutes(router fiber.Router) {
	vm := middleware.NewValidationMiddleware(h.validator)

	router.Get("/health", h.Health)
	router.Post("/quizzes/generate", h.GenerateQuiz)
	router.Get("/quizzes", h.ListQuizzes)
	router.Get("/quizzes/:id", vm.ValidateQuizID(), h.GetQuiz)
	router.Post("/quizzes/:id/score", vm.ValidateQuizID(), h.UpdateScore)
}

// Health godoc
// @Summary Health check
// @Description Reports that the API is running
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Message: "AI Wiki Quiz Generator API running"})
}

// GenerateQuiz godoc
// @Summary Generate a quiz from a Wikipedia article
// @Description Scrapes the article and generates a multiple-choice quiz. A quiz already stored for the URL is returned instead.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest false "Article URL"
// @Param url query string false "Article URL, used when no body is sent"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quizzes/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if req.URL == "" {
		req.URL = c.Query("url")
	}
	req.URL = strings.TrimSpace(req.URL)

	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	resp, err := h.service.GenerateQuiz(c.UserContext(), req.URL)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListQuizzes godoc
// @Summary List stored quizzes
// @Description Returns all stored quizzes, newest first
// @Tags quiz
// @Produce json
// @Success 200 {array} dto.QuizSummaryResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	list, err := h.service.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetQuiz godoc
// @Summary Get a stored quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	resp, err := h.service.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateScore godoc
// @Summary Store the score of a completed session
// @Description Sets the last score and raises the high score when exceeded
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.ScoreRequest true "Final score"
// @Success 200 {object} dto.ScoreResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quizzes/{id}/score [post]
func (h *QuizHandler) UpdateScore(c *fiber.Ctx) error {
	var req dto.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	resp, err := h.service.UpdateScore(c.UserContext(), c.Params("id"), *req.Score)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
