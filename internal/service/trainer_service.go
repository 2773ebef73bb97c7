package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/logger"
	"alcyxob/gym-coach/internal/plan"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrInvalidAssignment = errors.New("assignment indices must be non-negative")
	ErrInvalidOrder      = errors.New("order entries need a body part and a non-negative index")
)

// StudentProfile is what a trainer sees about one student.
type StudentProfile struct {
	User       domain.User `json:"user"`
	Age        string      `json:"age,omitempty"`
	IsBirthday bool        `json:"isBirthday"`
}

// TrainerService is everything an admin does to a student's plan.
// Concurrent saves by two trainers are last-write-wins.
type TrainerService interface {
	ListStudents(ctx context.Context, callerEmail string) ([]domain.User, error)
	GetStudentProfile(ctx context.Context, studentID primitive.ObjectID) (*StudentProfile, error)

	// Assignment Editor
	GetAssignments(ctx context.Context, studentID primitive.ObjectID) (domain.AssignmentSet, error)
	SaveAssignments(ctx context.Context, studentID primitive.ObjectID, set domain.AssignmentSet) (domain.AssignmentSet, error)
	ClearAssignments(ctx context.Context, studentID primitive.ObjectID) error

	// Order Editor
	LoadPlan(ctx context.Context, studentID primitive.ObjectID) (plan.Plan, error)
	SaveOrder(ctx context.Context, studentID primitive.ObjectID, order domain.ExerciseOrder) error
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo       repository.UserRepository
	assignmentRepo repository.AssignmentRepository
	plans          *planLoader
	now            func() time.Time
	log            *logger.Logger
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	assignmentRepo repository.AssignmentRepository,
	orderRepo repository.OrderRepository,
	bodyPartRepo repository.BodyPartRepository,
	log *logger.Logger,
) TrainerService {
	return &trainerService{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		plans:          &planLoader{assignmentRepo: assignmentRepo, orderRepo: orderRepo, bodyPartRepo: bodyPartRepo},
		now:            time.Now,
		log:            log.With("service", "trainer"),
	}
}

// ListStudents returns every user but the caller.
func (s *trainerService) ListStudents(ctx context.Context, callerEmail string) ([]domain.User, error) {
	users, err := s.userRepo.ListExcludingEmail(ctx, normalizeEmail(callerEmail))
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// GetStudentProfile loads a student with age and birthday derived from boarding.
// A malformed birthday leaves Age empty.
func (s *trainerService) GetStudentProfile(ctx context.Context, studentID primitive.ObjectID) (*StudentProfile, error) {
	user, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	profile := &StudentProfile{User: *user}
	if user.Boarding != nil && user.Boarding.Birthday != "" {
		now := s.now()
		if age, err := domain.Age(user.Boarding.Birthday, now); err == nil {
			profile.Age = age
			profile.IsBirthday = domain.IsBirthday(user.Boarding.Birthday, now)
		} else {
			s.log.Debug("unparseable birthday", "studentId", studentID.Hex(), "birthday", user.Boarding.Birthday)
		}
	}
	return profile, nil
}

func (s *trainerService) GetAssignments(ctx context.Context, studentID primitive.ObjectID) (domain.AssignmentSet, error) {
	set, err := s.assignmentRepo.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return set, nil
}

// SaveAssignments overwrites the whole set. An empty set deletes the field.
func (s *trainerService) SaveAssignments(ctx context.Context, studentID primitive.ObjectID, set domain.AssignmentSet) (domain.AssignmentSet, error) {
	for bodyPartID, indices := range set {
		if bodyPartID == "" {
			return nil, ErrInvalidAssignment
		}
		for _, idx := range indices {
			if idx < 0 {
				return nil, ErrInvalidAssignment
			}
		}
	}
	set = set.Normalize()

	var err error
	if set.IsEmpty() {
		err = s.assignmentRepo.Clear(ctx, studentID, s.now())
	} else {
		err = s.assignmentRepo.Set(ctx, studentID, set, s.now())
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		s.log.Error("save assignments failed", "studentId", studentID.Hex(), "error", err)
		return nil, err
	}
	return set, nil
}

// ClearAssignments is "delete all": the field is removed. The order is left as
// is; its entries turn stale and are dropped on the next plan load.
func (s *trainerService) ClearAssignments(ctx context.Context, studentID primitive.ObjectID) error {
	if err := s.assignmentRepo.Clear(ctx, studentID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		s.log.Error("clear assignments failed", "studentId", studentID.Hex(), "error", err)
		return err
	}
	return nil
}

// LoadPlan returns the reconciled plan the order editor displays. Nothing is
// written back; the trainer's save persists it.
func (s *trainerService) LoadPlan(ctx context.Context, studentID primitive.ObjectID) (plan.Plan, error) {
	return s.plans.load(ctx, studentID)
}

// SaveOrder overwrites exerciseOrder with the displayed sequence.
func (s *trainerService) SaveOrder(ctx context.Context, studentID primitive.ObjectID, order domain.ExerciseOrder) error {
	for _, entry := range order {
		if entry.BodyPartID == "" || entry.ExerciseIndex < 0 {
			return ErrInvalidOrder
		}
	}
	if err := s.plans.orderRepo.Set(ctx, studentID, order, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		s.log.Error("save order failed", "studentId", studentID.Hex(), "error", err)
		return err
	}
	return nil
}

// planLoader reads the three inputs of an effective plan one after the other
// and reconciles them.
type planLoader struct {
	assignmentRepo repository.AssignmentRepository
	orderRepo      repository.OrderRepository
	bodyPartRepo   repository.BodyPartRepository
}

func (l *planLoader) load(ctx context.Context, studentID primitive.ObjectID) (plan.Plan, error) {
	assigned, err := l.assignmentRepo.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	if assigned.IsEmpty() {
		return plan.Plan{}, nil
	}
	order, err := l.orderRepo.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	catalog, err := l.bodyPartRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return plan.Reconcile(order, assigned, catalog), nil
}
