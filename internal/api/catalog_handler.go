package api

import (
	"fmt"
	"net/http"
	"strconv"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the body-part catalog and the exercise editor.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ExerciseRequest carries the editable text fields of an exercise. Media is
// changed through the upload endpoints only.
type ExerciseRequest struct {
	Name             string `json:"name"`
	Difficulty       string `json:"difficulty"`
	Equipment        string `json:"equipment"`
	Target           string `json:"target"`
	SecondaryMuscles string `json:"secondaryMuscles"`
	Description      string `json:"description"`
	Instructions     string `json:"instructions"`
}

func (r ExerciseRequest) toDomain() domain.Exercise {
	return domain.Exercise{
		Name:             r.Name,
		Difficulty:       r.Difficulty,
		Equipment:        r.Equipment,
		Target:           r.Target,
		SecondaryMuscles: r.SecondaryMuscles,
		Description:      r.Description,
		Instructions:     r.Instructions,
	}
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaConfirmRequest struct {
	Key string `json:"key" binding:"required"`
}

// GetBodyParts godoc
// @Summary List the catalog
// @Description Every body part with its exercises, in stored order.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.BodyPart
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /body-parts [get]
func (h *CatalogHandler) GetBodyParts(c *gin.Context) {
	bodyParts, err := h.catalogService.ListBodyParts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve body parts.")
		return
	}
	if bodyParts == nil {
		bodyParts = []domain.BodyPart{}
	}
	c.JSON(http.StatusOK, bodyParts)
}

// GetBodyPart godoc
// @Summary Get one body part
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Success 200 {object} domain.BodyPart
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Body part not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /body-parts/{id} [get]
func (h *CatalogHandler) GetBodyPart(c *gin.Context) {
	bodyPart, err := h.catalogService.GetBodyPart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve body part.")
		return
	}
	c.JSON(http.StatusOK, bodyPart)
}

// GetExercise godoc
// @Summary Get one exercise
// @Description Exercise with instruction steps and a resolved media URL.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Param index path int true "Exercise index within the body part"
// @Success 200 {object} service.ExerciseView
// @Failure 400 {object} gin.H "Invalid exercise index"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Body part or exercise not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /body-parts/{id}/exercises/{index} [get]
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	index, ok := exerciseIndexParam(c)
	if !ok {
		return
	}
	view, err := h.catalogService.GetExercise(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// StreamExercise godoc
// @Summary Live exercise detail
// @Description Server-sent events: one "exercise" event with the current state,
// @Description then one per change, until the client disconnects.
// @Tags Catalog
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Param index path int true "Exercise index within the body part"
// @Success 200 {object} service.ExerciseView "Event payload"
// @Failure 400 {object} gin.H "Invalid exercise index"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Body part or exercise not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /body-parts/{id}/exercises/{index}/stream [get]
func (h *CatalogHandler) StreamExercise(c *gin.Context) {
	index, ok := exerciseIndexParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	updates, err := h.catalogService.WatchExercise(ctx, c.Param("id"), index)
	if err != nil {
		respondServiceError(c, err, "Failed to watch exercise.")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	for {
		select {
		case <-ctx.Done():
			return
		case view, open := <-updates:
			if !open {
				return
			}
			c.SSEvent("exercise", view)
			c.Writer.Flush()
		}
	}
}

// UpdateExercise godoc
// @Summary Edit an exercise in place
// @Description Replaces the text fields; the media reference is kept.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Param index path int true "Exercise index within the body part"
// @Param exerciseRequest body ExerciseRequest true "Exercise fields"
// @Success 200 {object} service.ExerciseView
// @Failure 400 {object} gin.H "Invalid input (validation error, invalid index)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Body part or exercise not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /body-parts/{id}/exercises/{index} [put]
func (h *CatalogHandler) UpdateExercise(c *gin.Context) {
	index, ok := exerciseIndexParam(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.catalogService.UpdateExercise(c.Request.Context(), c.Param("id"), index, req.toDomain())
	if err != nil {
		respondServiceError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AppendExercise godoc
// @Summary Append an exercise to a body part
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Param exerciseRequest body ExerciseRequest true "Exercise fields"
// @Success 201 {object} service.ExerciseView
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Body part not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /body-parts/{id}/exercises [post]
func (h *CatalogHandler) AppendExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.catalogService.AppendExercise(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		respondServiceError(c, err, "Failed to add exercise.")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// RequestMediaUpload godoc
// @Summary Get a presigned URL for new exercise media
// @Description The client PUTs the file to uploadUrl, then confirms the key.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Param index path int true "Exercise index within the body part"
// @Param mediaRequest body MediaUploadRequest true "Content type of the file"
// @Success 200 {object} service.MediaUpload
// @Failure 400 {object} gin.H "Invalid input (unsupported content type, invalid index)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Body part or exercise not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /body-parts/{id}/exercises/{index}/media [post]
func (h *CatalogHandler) RequestMediaUpload(c *gin.Context) {
	index, ok := exerciseIndexParam(c)
	if !ok {
		return
	}
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	upload, err := h.catalogService.PresignMediaUpload(c.Request.Context(), c.Param("id"), index, req.ContentType)
	if err != nil {
		respondServiceError(c, err, "Failed to prepare media upload.")
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmMediaUpload godoc
// @Summary Point an exercise at uploaded media
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Body part ID"
// @Param index path int true "Exercise index within the body part"
// @Param confirmRequest body MediaConfirmRequest true "Object key returned by the upload request"
// @Success 200 {object} service.ExerciseView
// @Failure 400 {object} gin.H "Invalid input (key does not belong to this exercise)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Failure 404 {object} gin.H "Body part or exercise not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /body-parts/{id}/exercises/{index}/media [put]
func (h *CatalogHandler) ConfirmMediaUpload(c *gin.Context) {
	index, ok := exerciseIndexParam(c)
	if !ok {
		return
	}
	var req MediaConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.catalogService.ConfirmMediaUpload(c.Request.Context(), c.Param("id"), index, req.Key)
	if err != nil {
		respondServiceError(c, err, "Failed to confirm media upload.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetMediaURL godoc
// @Summary Resolve a media reference
// @Description Signs stored object keys; http(s) references are returned as they are.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param key query string true "Media reference"
// @Success 200 {object} gin.H "url and kind (image or video)"
// @Failure 400 {object} gin.H "Missing key"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /media [get]
func (h *CatalogHandler) GetMediaURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'key' is required.")
		return
	}
	url, err := h.catalogService.MediaURL(c.Request.Context(), key)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve media.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "kind": domain.MediaKindOf(key)})
}

func exerciseIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid exercise index %q.", c.Param("index")))
		return 0, false
	}
	return index, true
}
