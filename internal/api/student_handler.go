// internal/api/student_handler.go
package api

import (
	"net/http"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// StudentHandler serves the caller's own plan, catalog view and onboarding.
type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

type BoardingRequest struct {
	Birthday       string   `json:"birthday" binding:"required"` // D/M/YYYY
	PreferredGoals []string `json:"preferredGoals"`
}

// GetMyPlan godoc
// @Summary The caller's effective plan
// @Description Ordered exercises the workout session walks. Empty when nothing is assigned.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PlanResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /student/plan [get]
func (h *StudentHandler) GetMyPlan(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return
	}
	p, err := h.studentService.MyPlan(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err, "Failed to load plan.")
		return
	}
	c.JSON(http.StatusOK, PlanResponse{StudentID: studentID.Hex(), Exercises: nonNilPlan(p)})
}

// GetMyBodyParts godoc
// @Summary Catalog filtered to the caller's assignments
// @Description All body parts when nothing is assigned.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.BodyPart
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /student/body-parts [get]
func (h *StudentHandler) GetMyBodyParts(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return
	}
	views, err := h.studentService.MyBodyParts(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err, "Failed to load body parts.")
		return
	}
	c.JSON(http.StatusOK, views)
}

// SubmitBoarding godoc
// @Summary Store onboarding answers
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param boardingRequest body BoardingRequest true "Birthday (DD/MM/YYYY) and preferred goals"
// @Success 200 {object} domain.Boarding
// @Failure 400 {object} gin.H "Invalid input (malformed birthday)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /student/boarding [put]
func (h *StudentHandler) SubmitBoarding(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify student from token.")
		return
	}
	var req BoardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	boarding, err := h.studentService.SubmitBoarding(c.Request.Context(), studentID, req.Birthday, req.PreferredGoals)
	if err != nil {
		respondServiceError(c, err, "Failed to save onboarding.")
		return
	}
	c.JSON(http.StatusOK, boarding)
}

// GetOnboarding godoc
// @Summary Onboarding slides
// @Description Sorted by their numeric id.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.OnboardingSlide
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /onboarding [get]
func (h *StudentHandler) GetOnboarding(c *gin.Context) {
	slides, err := h.studentService.OnboardingSlides(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load onboarding.")
		return
	}
	if slides == nil {
		slides = []domain.OnboardingSlide{}
	}
	c.JSON(http.StatusOK, slides)
}
