package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/logger"
	"alcyxob/gym-coach/internal/plan"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IndexedExercise keeps the catalog index of an exercise in a filtered view.
type IndexedExercise struct {
	Index    int             `json:"index"`
	Key      string          `json:"key"`
	Exercise domain.Exercise `json:"exercise"`
}

// BodyPartView is a body part reduced to the exercises a student may see.
type BodyPartView struct {
	ID        string            `json:"id"`
	Name      string            `json:"bodyPart"`
	ImgURL    string            `json:"imgUrl"`
	Exercises []IndexedExercise `json:"exercises"`
}

// StudentService serves the student's own screens.
type StudentService interface {
	MyPlan(ctx context.Context, studentID primitive.ObjectID) (plan.Plan, error)
	MyBodyParts(ctx context.Context, studentID primitive.ObjectID) ([]BodyPartView, error)
	SubmitBoarding(ctx context.Context, studentID primitive.ObjectID, birthday string, goals []string) (*domain.Boarding, error)
	OnboardingSlides(ctx context.Context) ([]domain.OnboardingSlide, error)
}

// studentService implements the StudentService interface.
type studentService struct {
	userRepo       repository.UserRepository
	onboardingRepo repository.OnboardingRepository
	plans          *planLoader
	now            func() time.Time
	log            *logger.Logger
}

// NewStudentService creates a new instance of studentService.
func NewStudentService(
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	orderRepo repository.OrderRepository,
	bodyPartRepo repository.BodyPartRepository,
	onboardingRepo repository.OnboardingRepository,
	log *logger.Logger,
) StudentService {
	return &studentService{
		userRepo:       userRepo,
		onboardingRepo: onboardingRepo,
		plans:          &planLoader{assignmentRepo: assignmentRepo, orderRepo: orderRepo, bodyPartRepo: bodyPartRepo},
		now:            time.Now,
		log:            log.With("service", "student"),
	}
}

// MyPlan is the effective plan the workout session walks.
func (s *studentService) MyPlan(ctx context.Context, studentID primitive.ObjectID) (plan.Plan, error) {
	return s.plans.load(ctx, studentID)
}

// MyBodyParts filters the catalog to assigned body parts and indices. With
// nothing assigned the whole catalog is returned.
func (s *studentService) MyBodyParts(ctx context.Context, studentID primitive.ObjectID) ([]BodyPartView, error) {
	assigned, err := s.plans.assignmentRepo.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	catalog, err := s.plans.bodyPartRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	showAll := assigned.IsEmpty()
	views := make([]BodyPartView, 0, len(catalog))
	for _, bp := range catalog {
		if !showAll && len(assigned[bp.ID]) == 0 {
			continue
		}
		view := BodyPartView{ID: bp.ID, Name: bp.Name, ImgURL: bp.ImgURL, Exercises: []IndexedExercise{}}
		for i, ex := range bp.Exercises {
			if showAll || assigned.Contains(bp.ID, i) {
				view.Exercises = append(view.Exercises, IndexedExercise{Index: i, Key: domain.ExerciseKey(bp.ID, i), Exercise: ex})
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// SubmitBoarding stores the onboarding answers. The birthday is stored
// zero-padded as DD/MM/YYYY.
func (s *studentService) SubmitBoarding(ctx context.Context, studentID primitive.ObjectID, birthday string, goals []string) (*domain.Boarding, error) {
	day, month, year, err := domain.ParseBirthday(birthday)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	cleaned := make([]string, 0, len(goals))
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			cleaned = append(cleaned, g)
		}
	}
	boarding := domain.Boarding{
		Birthday:       fmt.Sprintf("%02d/%02d/%04d", day, month, year),
		PreferredGoals: cleaned,
	}

	if err = s.userRepo.UpdateBoarding(ctx, studentID, boarding, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		s.log.Error("save boarding failed", "studentId", studentID.Hex(), "error", err)
		return nil, err
	}
	return &boarding, nil
}

// OnboardingSlides lists slides ordered by their numeric id.
func (s *studentService) OnboardingSlides(ctx context.Context) ([]domain.OnboardingSlide, error) {
	return s.onboardingRepo.List(ctx)
}
