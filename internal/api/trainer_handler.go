// internal/api/trainer_handler.go
package api

import (
	"net/http"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/plan"
	"alcyxob/gym-coach/internal/service"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type AssignmentsRequest struct {
	AssignedExercises domain.AssignmentSet `json:"assignedExercises"`
}

type AssignmentsResponse struct {
	StudentID         string               `json:"studentId"`
	AssignedExercises domain.AssignmentSet `json:"assignedExercises"`
}

type OrderRequest struct {
	ExerciseOrder domain.ExerciseOrder `json:"exerciseOrder"`
}

type PlanResponse struct {
	StudentID string    `json:"studentId"`
	Exercises plan.Plan `json:"exercises"`
}

type StudentProfileResponse struct {
	UserResponse
	AssignedExercises domain.AssignmentSet `json:"assignedExercises"`
	Age               string               `json:"age,omitempty"`
	IsBirthday        bool                 `json:"isBirthday"`
}

// --- Handler Methods ---

// GetStudents godoc
// @Summary List students
// @Description Every registered user except the caller.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students [get]
func (h *TrainerHandler) GetStudents(c *gin.Context) {
	users, err := h.trainerService.ListStudents(c.Request.Context(), c.GetString(ContextUserEmailKey))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve students.")
		return
	}
	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = MapUserToResponse(&users[i], "")
	}
	c.JSON(http.StatusOK, resp)
}

// GetStudentProfile godoc
// @Summary Student profile
// @Description Boarding answers with the derived age and a birthday flag.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student's ObjectID Hex"
// @Success 200 {object} StudentProfileResponse
// @Failure 400 {object} gin.H "Invalid student ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students/{id} [get]
func (h *TrainerHandler) GetStudentProfile(c *gin.Context) {
	studentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	profile, err := h.trainerService.GetStudentProfile(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve student.")
		return
	}
	c.JSON(http.StatusOK, StudentProfileResponse{
		UserResponse:      MapUserToResponse(&profile.User, ""),
		AssignedExercises: profile.User.AssignedExercises.Normalize(),
		Age:               profile.Age,
		IsBirthday:        profile.IsBirthday,
	})
}

// GetAssignments godoc
// @Summary Load a student's assignment set
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student's ObjectID Hex"
// @Success 200 {object} AssignmentsResponse
// @Failure 400 {object} gin.H "Invalid student ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students/{id}/assignments [get]
func (h *TrainerHandler) GetAssignments(c *gin.Context) {
	studentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	set, err := h.trainerService.GetAssignments(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve assignments.")
		return
	}
	c.JSON(http.StatusOK, AssignmentsResponse{StudentID: studentID.Hex(), AssignedExercises: set.Normalize()})
}

// SaveAssignments godoc
// @Summary Overwrite a student's assignment set
// @Description An empty set removes the field.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student's ObjectID Hex"
// @Param assignmentsRequest body AssignmentsRequest true "Body part ID to exercise indices"
// @Success 200 {object} AssignmentsResponse
// @Failure 400 {object} gin.H "Invalid input (unknown body part or index)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students/{id}/assignments [put]
func (h *TrainerHandler) SaveAssignments(c *gin.Context) {
	studentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req AssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	saved, err := h.trainerService.SaveAssignments(c.Request.Context(), studentID, req.AssignedExercises)
	if err != nil {
		respondServiceError(c, err, "Failed to save assignments.")
		return
	}
	c.JSON(http.StatusOK, AssignmentsResponse{StudentID: studentID.Hex(), AssignedExercises: saved})
}

// ClearAssignments godoc
// @Summary Delete all of a student's assignments
// @Description Removes the field. The saved order is left as is.
// @Tags Trainer
// @Security BearerAuth
// @Param id path string true "Student's ObjectID Hex"
// @Success 204 "Assignments deleted"
// @Failure 400 {object} gin.H "Invalid student ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students/{id}/assignments [delete]
func (h *TrainerHandler) ClearAssignments(c *gin.Context) {
	studentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.ClearAssignments(c.Request.Context(), studentID); err != nil {
		respondServiceError(c, err, "Failed to delete assignments.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPlan godoc
// @Summary Load the reconciled plan for the order editor
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student's ObjectID Hex"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid student ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students/{id}/plan [get]
func (h *TrainerHandler) GetPlan(c *gin.Context) {
	studentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	p, err := h.trainerService.LoadPlan(c.Request.Context(), studentID)
	if err != nil {
		respondServiceError(c, err, "Failed to load plan.")
		return
	}
	c.JSON(http.StatusOK, PlanResponse{StudentID: studentID.Hex(), Exercises: nonNilPlan(p)})
}

// SaveOrder godoc
// @Summary Persist the displayed exercise order
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student's ObjectID Hex"
// @Param orderRequest body OrderRequest true "Ordered (bodyPartId, exerciseIndex) pairs"
// @Success 200 {object} OrderRequest
// @Failure 400 {object} gin.H "Invalid input (pair not assigned or not in catalog)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Student not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/students/{id}/order [put]
func (h *TrainerHandler) SaveOrder(c *gin.Context) {
	studentID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if req.ExerciseOrder == nil {
		req.ExerciseOrder = domain.ExerciseOrder{}
	}
	if err := h.trainerService.SaveOrder(c.Request.Context(), studentID, req.ExerciseOrder); err != nil {
		respondServiceError(c, err, "Failed to save order.")
		return
	}
	c.JSON(http.StatusOK, OrderRequest{ExerciseOrder: req.ExerciseOrder})
}

func nonNilPlan(p plan.Plan) plan.Plan {
	if p == nil {
		return plan.Plan{}
	}
	return p
}
