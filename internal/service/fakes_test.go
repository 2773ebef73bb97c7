package service

import (
	"context"
	"sync"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore backs every repository interface with maps.
type memStore struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]*domain.User
	bodyParts  []domain.BodyPart
	admins     map[string]bool
	slides     []domain.OnboardingSlide
	watchers   map[string][]chan domain.BodyPart
	clears     int
	failWrites error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[primitive.ObjectID]*domain.User{},
		admins:   map[string]bool{},
		watchers: map[string][]chan domain.BodyPart{},
	}
}

func (m *memStore) addUser(u domain.User) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = &u
	return u.ID
}

func (m *memStore) user(id primitive.ObjectID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// --- UserRepository ---

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.user(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) ListExcludingEmail(_ context.Context, email string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.Email != email {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r memUsers) RecordLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.user(id)
	if err != nil {
		return err
	}
	u.LastLogin = &at
	return nil
}

func (r memUsers) UpdateBoarding(_ context.Context, id primitive.ObjectID, b domain.Boarding, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites != nil {
		return r.failWrites
	}
	u, err := r.user(id)
	if err != nil {
		return err
	}
	u.Boarding = &b
	u.LastUpdated = &at
	return nil
}

// --- AssignmentRepository / OrderRepository ---

type memAssignments struct{ *memStore }

func (r memAssignments) Get(_ context.Context, id primitive.ObjectID) (domain.AssignmentSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.user(id)
	if err != nil {
		return nil, err
	}
	return u.AssignedExercises.Normalize(), nil
}

func (r memAssignments) Set(_ context.Context, id primitive.ObjectID, set domain.AssignmentSet, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites != nil {
		return r.failWrites
	}
	u, err := r.user(id)
	if err != nil {
		return err
	}
	u.AssignedExercises = set.Clone()
	return nil
}

func (r memAssignments) Clear(_ context.Context, id primitive.ObjectID, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites != nil {
		return r.failWrites
	}
	u, err := r.user(id)
	if err != nil {
		return err
	}
	u.AssignedExercises = nil
	r.clears++
	return nil
}

type memOrders struct{ *memStore }

func (r memOrders) Get(_ context.Context, id primitive.ObjectID) (domain.ExerciseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.user(id)
	if err != nil {
		return nil, err
	}
	return append(domain.ExerciseOrder{}, u.ExerciseOrder...), nil
}

func (r memOrders) Set(_ context.Context, id primitive.ObjectID, order domain.ExerciseOrder, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.user(id)
	if err != nil {
		return err
	}
	u.ExerciseOrder = append(domain.ExerciseOrder{}, order...)
	return nil
}

// --- BodyPartRepository ---

type memBodyParts struct{ *memStore }

func (r memBodyParts) List(context.Context) ([]domain.BodyPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.BodyPart{}, r.bodyParts...), nil
}

func (r memBodyParts) find(id string) (*domain.BodyPart, error) {
	for i := range r.bodyParts {
		if r.bodyParts[i].ID == id {
			return &r.bodyParts[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memBodyParts) GetByID(_ context.Context, id string) (*domain.BodyPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bp, err := r.find(id)
	if err != nil {
		return nil, err
	}
	cp := *bp
	cp.Exercises = append([]domain.Exercise{}, bp.Exercises...)
	return &cp, nil
}

func (r memBodyParts) mutate(id string, fn func(bp *domain.BodyPart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bp, err := r.find(id)
	if err != nil {
		return err
	}
	if err = fn(bp); err != nil {
		return err
	}
	snapshot := *bp
	snapshot.Exercises = append([]domain.Exercise{}, bp.Exercises...)
	for _, w := range r.watchers[id] {
		w <- snapshot
	}
	return nil
}

func (r memBodyParts) UpdateExercise(_ context.Context, id string, index int, ex domain.Exercise) error {
	return r.mutate(id, func(bp *domain.BodyPart) error {
		if index < 0 || index >= len(bp.Exercises) {
			return repository.ErrNotFound
		}
		ex.MediaURL = bp.Exercises[index].MediaURL
		bp.Exercises[index] = ex
		return nil
	})
}

func (r memBodyParts) AppendExercise(_ context.Context, id string, ex domain.Exercise) (int, error) {
	var index int
	err := r.mutate(id, func(bp *domain.BodyPart) error {
		bp.Exercises = append(bp.Exercises, ex)
		index = len(bp.Exercises) - 1
		return nil
	})
	return index, err
}

func (r memBodyParts) SetExerciseMedia(_ context.Context, id string, index int, mediaURL string) error {
	return r.mutate(id, func(bp *domain.BodyPart) error {
		if index < 0 || index >= len(bp.Exercises) {
			return repository.ErrNotFound
		}
		bp.Exercises[index].MediaURL = mediaURL
		return nil
	})
}

// Watch registers a buffered subscriber; mutations are delivered under the lock.
func (r memBodyParts) Watch(ctx context.Context, id string) (<-chan domain.BodyPart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan domain.BodyPart, 16)
	r.watchers[id] = append(r.watchers[id], ch)
	go func() {
		<-ctx.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.watchers[id]
		for i, w := range list {
			if w == ch {
				r.watchers[id] = append(list[:i], list[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// --- AdminRepository / OnboardingRepository ---

type memAdmins struct{ *memStore }

func (r memAdmins) IsAdmin(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[email], nil
}

type memOnboarding struct{ *memStore }

func (r memOnboarding) List(context.Context) ([]domain.OnboardingSlide, error) {
	return append([]domain.OnboardingSlide{}, r.slides...), nil
}

// --- MediaStorage ---

type fakeMedia struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeMedia) PresignUpload(_ context.Context, key, contentType string) (string, error) {
	return "https://bucket.local/" + key + "?upload=1&type=" + contentType, nil
}

func (f *fakeMedia) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://bucket.local/" + key + "?X-Amz-Signature=sig", nil
}

func (f *fakeMedia) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func testCatalog() []domain.BodyPart {
	legs := domain.BodyPart{ID: "legs", Name: "Legs", Exercises: []domain.Exercise{
		{Name: "squat", MediaURL: "https://cdn.example.com/squat.mp4"},
		{Name: "lunge"},
		{Name: "deadlift", MediaURL: "exercises/legs/2/old.gif"},
	}}
	arms := domain.BodyPart{ID: "arms", Name: "Arms", Exercises: []domain.Exercise{
		{Name: "curl"}, {Name: "dip", Instructions: "Grip the bars. Lower slowly. Push up."},
	}}
	return []domain.BodyPart{legs, arms}
}
