package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/logger"
	"alcyxob/gym-coach/internal/repository"
	"alcyxob/gym-coach/internal/storage"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrBodyPartNotFound = errors.New("body part not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrMediaUnavailable = errors.New("media storage is not configured")
	ErrMediaKeyMismatch = errors.New("media key does not belong to this exercise")
)

// mediaExtensions maps accepted upload content types to object suffixes.
// The suffix is what MediaKindOf later classifies.
var mediaExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"image/gif":       ".gif",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// ExerciseView is an exercise addressed by (body part, index) with its media
// resolved to a fetchable URL.
type ExerciseView struct {
	Key           string           `json:"key"`
	BodyPartID    string           `json:"bodyPartId"`
	BodyPartName  string           `json:"bodyPartName"`
	ExerciseIndex int              `json:"exerciseIndex"`
	Exercise      domain.Exercise  `json:"exercise"`
	Steps         []string         `json:"steps"`
	MediaURL      string           `json:"mediaUrl"`
	MediaKind     domain.MediaKind `json:"mediaKind"`
}

// MediaUpload is a presigned PUT for a new exercise media object.
type MediaUpload struct {
	Key         string `json:"key"`
	UploadURL   string `json:"uploadUrl"`
	ContentType string `json:"contentType"`
}

// CatalogService reads and edits the body-part catalog.
type CatalogService interface {
	ListBodyParts(ctx context.Context) ([]domain.BodyPart, error)
	GetBodyPart(ctx context.Context, id string) (*domain.BodyPart, error)
	GetExercise(ctx context.Context, bodyPartID string, index int) (*ExerciseView, error)
	UpdateExercise(ctx context.Context, bodyPartID string, index int, exercise domain.Exercise) (*ExerciseView, error)
	AppendExercise(ctx context.Context, bodyPartID string, exercise domain.Exercise) (*ExerciseView, error)
	// WatchExercise emits the current exercise, then every change to it, until ctx is done.
	WatchExercise(ctx context.Context, bodyPartID string, index int) (<-chan ExerciseView, error)
	PresignMediaUpload(ctx context.Context, bodyPartID string, index int, contentType string) (*MediaUpload, error)
	ConfirmMediaUpload(ctx context.Context, bodyPartID string, index int, key string) (*ExerciseView, error)
	MediaURL(ctx context.Context, ref string) (string, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	bodyPartRepo repository.BodyPartRepository
	media        storage.MediaStorage // nil when no bucket is configured
	log          *logger.Logger
}

// NewCatalogService creates a new instance of catalogService. media may be nil.
func NewCatalogService(bodyPartRepo repository.BodyPartRepository, media storage.MediaStorage, log *logger.Logger) CatalogService {
	return &catalogService{
		bodyPartRepo: bodyPartRepo,
		media:        media,
		log:          log.With("service", "catalog"),
	}
}

func (s *catalogService) ListBodyParts(ctx context.Context) ([]domain.BodyPart, error) {
	return s.bodyPartRepo.List(ctx)
}

func (s *catalogService) GetBodyPart(ctx context.Context, id string) (*domain.BodyPart, error) {
	bodyPart, err := s.bodyPartRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, err
	}
	return bodyPart, nil
}

func (s *catalogService) GetExercise(ctx context.Context, bodyPartID string, index int) (*ExerciseView, error) {
	bodyPart, err := s.GetBodyPart(ctx, bodyPartID)
	if err != nil {
		return nil, err
	}
	view, ok := s.view(ctx, bodyPart, index)
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &view, nil
}

// UpdateExercise replaces the text fields of an exercise in place. Empty
// strings are stored as given; the media reference is untouched.
func (s *catalogService) UpdateExercise(ctx context.Context, bodyPartID string, index int, exercise domain.Exercise) (*ExerciseView, error) {
	if err := s.bodyPartRepo.UpdateExercise(ctx, bodyPartID, index, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		s.log.Error("update exercise failed", "bodyPartId", bodyPartID, "index", index, "error", err)
		return nil, err
	}
	return s.GetExercise(ctx, bodyPartID, index)
}

// AppendExercise adds an exercise at the end of a body part. Existing indices
// never move.
func (s *catalogService) AppendExercise(ctx context.Context, bodyPartID string, exercise domain.Exercise) (*ExerciseView, error) {
	if strings.TrimSpace(exercise.Name) == "" {
		return nil, fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}
	index, err := s.bodyPartRepo.AppendExercise(ctx, bodyPartID, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		s.log.Error("append exercise failed", "bodyPartId", bodyPartID, "error", err)
		return nil, err
	}
	return s.GetExercise(ctx, bodyPartID, index)
}

// WatchExercise subscribes before reading the snapshot so no change made in
// between is lost. The channel closes when ctx is done or the stream ends.
func (s *catalogService) WatchExercise(ctx context.Context, bodyPartID string, index int) (<-chan ExerciseView, error) {
	ctx, cancel := context.WithCancel(ctx)
	changes, err := s.bodyPartRepo.Watch(ctx, bodyPartID)
	if err != nil {
		cancel()
		s.log.Error("open change stream failed", "bodyPartId", bodyPartID, "error", err)
		return nil, err
	}
	snapshot, err := s.GetExercise(ctx, bodyPartID, index)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan ExerciseView, 1)
	out <- *snapshot
	go func() {
		defer cancel()
		defer close(out)
		for bodyPart := range changes {
			view, ok := s.view(ctx, &bodyPart, index)
			if !ok {
				continue
			}
			select {
			case out <- view:
			case <-ctx.Done():
				return
			}
		}
		s.log.Debug("exercise watch closed", "bodyPartId", bodyPartID, "index", index)
	}()
	return out, nil
}

func (s *catalogService) PresignMediaUpload(ctx context.Context, bodyPartID string, index int, contentType string) (*MediaUpload, error) {
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}
	ext, ok := mediaExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedMedia
	}
	if _, err := s.GetExercise(ctx, bodyPartID, index); err != nil {
		return nil, err
	}

	key := mediaKeyPrefix(bodyPartID, index) + uuid.NewString() + ext
	uploadURL, err := s.media.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &MediaUpload{Key: key, UploadURL: uploadURL, ContentType: contentType}, nil
}

// ConfirmMediaUpload points the exercise at an uploaded object. The object it
// replaces is removed when it was one of ours.
func (s *catalogService) ConfirmMediaUpload(ctx context.Context, bodyPartID string, index int, key string) (*ExerciseView, error) {
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}
	if !strings.HasPrefix(key, mediaKeyPrefix(bodyPartID, index)) {
		return nil, ErrMediaKeyMismatch
	}
	previous, err := s.GetExercise(ctx, bodyPartID, index)
	if err != nil {
		return nil, err
	}

	if err = s.bodyPartRepo.SetExerciseMedia(ctx, bodyPartID, index, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	if old := previous.Exercise.MediaURL; old != key && strings.HasPrefix(old, "exercises/") {
		if err := s.media.DeleteObject(ctx, old); err != nil {
			s.log.Warn("delete replaced media failed", "key", old, "error", err)
		}
	}
	return s.GetExercise(ctx, bodyPartID, index)
}

// MediaURL resolves a stored media reference. Absolute URLs pass through;
// anything else is an object key and gets a presigned GET.
func (s *catalogService) MediaURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || isRemoteURL(ref) {
		return ref, nil
	}
	if s.media == nil {
		return "", ErrMediaUnavailable
	}
	return s.media.PresignDownload(ctx, ref)
}

func (s *catalogService) view(ctx context.Context, bodyPart *domain.BodyPart, index int) (ExerciseView, bool) {
	exercise, ok := bodyPart.Exercise(index)
	if !ok {
		return ExerciseView{}, false
	}
	mediaURL, err := s.MediaURL(ctx, exercise.MediaURL)
	if err != nil {
		s.log.Warn("resolve media failed", "bodyPartId", bodyPart.ID, "index", index, "error", err)
		mediaURL = ""
	}
	return ExerciseView{
		Key:           domain.ExerciseKey(bodyPart.ID, index),
		BodyPartID:    bodyPart.ID,
		BodyPartName:  bodyPart.Name,
		ExerciseIndex: index,
		Exercise:      exercise,
		Steps:         exercise.Steps(),
		MediaURL:      mediaURL,
		MediaKind:     domain.MediaKindOf(exercise.MediaURL),
	}, true
}

func mediaKeyPrefix(bodyPartID string, index int) string {
	return fmt.Sprintf("exercises/%s/%d/", bodyPartID, index)
}

func isRemoteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
