package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func newAuth(store *memStore) *authService {
	return NewAuthService(memUsers{store}, memAdmins{store}, testSecret, time.Hour, logger.Nop()).(*authService)
}

func newTrainer(store *memStore, now time.Time) *trainerService {
	svc := NewTrainerService(memUsers{store}, memAssignments{store}, memOrders{store}, memBodyParts{store}, logger.Nop()).(*trainerService)
	svc.now = func() time.Time { return now }
	return svc
}

func newStudent(store *memStore) *studentService {
	return NewStudentService(memUsers{store}, memAssignments{store}, memOrders{store}, memBodyParts{store}, memOnboarding{store}, logger.Nop()).(*studentService)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.admins["coach@example.com"] = true
	auth := newAuth(store)

	if _, err := auth.Register(ctx, "Coach", " Coach@Example.com ", "s3cret-pass", ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := auth.Register(ctx, "Ana", "ana@example.com", "ana-pass", ""); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if _, err := auth.Register(ctx, "Ana", "ana@example.com", "x", ""); !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("duplicate Register() error = %v", err)
	}

	token, user, role, err := auth.Login(ctx, "coach@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", role)
	}
	if user.PasswordHash != "" || user.LastLogin == nil {
		t.Errorf("unexpected user after login: %+v", user)
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.UserID != user.ID.Hex() || claims.Email != "coach@example.com" || claims.Role != domain.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}

	_, _, role, err = auth.Login(ctx, "ana@example.com", "ana-pass")
	if err != nil || role != domain.RoleStudent {
		t.Errorf("student Login() = %q, %v", role, err)
	}

	if _, _, _, err = auth.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("bad password error = %v", err)
	}
	if _, _, _, err = auth.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	auth := newAuth(store)
	if _, err := auth.Register(ctx, "Ana", "ana@example.com", "ana-pass", ""); err != nil {
		t.Fatal(err)
	}

	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, _, err := auth.Login(ctx, "ana@example.com", "ana-pass")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v", err)
	}

	other := NewAuthService(memUsers{store}, memAdmins{store}, "other-secret", time.Hour, logger.Nop())
	auth.now = time.Now
	token, _, _, _ = auth.Login(ctx, "ana@example.com", "ana-pass")
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token error = %v", err)
	}
}

func TestTrainerAssignments(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.bodyParts = testCatalog()
	id := store.addUser(domain.User{Email: "ana@example.com"})
	trainer := newTrainer(store, time.Now())

	saved, err := trainer.SaveAssignments(ctx, id, domain.AssignmentSet{"legs": {0, 2, 2}, "arms": {}})
	if err != nil {
		t.Fatalf("SaveAssignments() error: %v", err)
	}
	if !reflect.DeepEqual(saved, domain.AssignmentSet{"legs": {0, 2}}) {
		t.Errorf("saved = %v", saved)
	}

	got, _ := trainer.GetAssignments(ctx, id)
	if !got.Equal(saved) {
		t.Errorf("GetAssignments() = %v", got)
	}

	if _, err := trainer.SaveAssignments(ctx, id, domain.AssignmentSet{}); err != nil {
		t.Fatal(err)
	}
	if store.clears != 1 {
		t.Errorf("empty save should clear the field, clears = %d", store.clears)
	}

	if _, err := trainer.SaveAssignments(ctx, id, domain.AssignmentSet{"legs": {-1}}); !errors.Is(err, ErrInvalidAssignment) {
		t.Errorf("negative index error = %v", err)
	}
	if _, err := trainer.SaveAssignments(ctx, primitive.NewObjectID(), domain.AssignmentSet{"legs": {1}}); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("missing student error = %v", err)
	}
}

func TestTrainerWriteFailureIsSurfaced(t *testing.T) {
	store := newMemStore()
	id := store.addUser(domain.User{Email: "ana@example.com"})
	store.failWrites = errors.New("network down")
	trainer := newTrainer(store, time.Now())

	if _, err := trainer.SaveAssignments(context.Background(), id, domain.AssignmentSet{"legs": {1}}); err == nil || !strings.Contains(err.Error(), "network down") {
		t.Errorf("SaveAssignments() error = %v", err)
	}
}

func TestTrainerLoadPlanAndSaveOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.bodyParts = testCatalog()
	id := store.addUser(domain.User{
		Email:             "ana@example.com",
		AssignedExercises: domain.AssignmentSet{"legs": {0, 2}, "arms": {1}},
		ExerciseOrder:     domain.ExerciseOrder{{BodyPartID: "legs", ExerciseIndex: 0}},
	})
	trainer := newTrainer(store, time.Now())

	p, err := trainer.LoadPlan(ctx, id)
	if err != nil {
		t.Fatalf("LoadPlan() error: %v", err)
	}
	if got := strings.Join(p.Keys(), ","); got != "legs-0,legs-2,arms-1" {
		t.Errorf("plan = %s", got)
	}

	order := domain.ExerciseOrder{{BodyPartID: "arms", ExerciseIndex: 1}, {BodyPartID: "legs", ExerciseIndex: 2}, {BodyPartID: "legs", ExerciseIndex: 0}}
	if err := trainer.SaveOrder(ctx, id, order); err != nil {
		t.Fatalf("SaveOrder() error: %v", err)
	}
	p, _ = trainer.LoadPlan(ctx, id)
	if got := strings.Join(p.Keys(), ","); got != "arms-1,legs-2,legs-0" {
		t.Errorf("plan after save = %s", got)
	}

	if err := trainer.SaveOrder(ctx, id, domain.ExerciseOrder{{BodyPartID: "", ExerciseIndex: 0}}); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("invalid order error = %v", err)
	}

	// Removing an assignment leaves a stale order entry that is dropped on load.
	if _, err := trainer.SaveAssignments(ctx, id, domain.AssignmentSet{"legs": {0, 2}}); err != nil {
		t.Fatal(err)
	}
	p, _ = trainer.LoadPlan(ctx, id)
	if got := strings.Join(p.Keys(), ","); got != "legs-2,legs-0" {
		t.Errorf("plan after unassign = %s", got)
	}
}

func TestLoadPlanWithoutAssignments(t *testing.T) {
	store := newMemStore()
	store.bodyParts = testCatalog()
	id := store.addUser(domain.User{Email: "ana@example.com", ExerciseOrder: domain.ExerciseOrder{{BodyPartID: "legs"}}})

	p, err := newStudent(store).MyPlan(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || len(p) != 0 {
		t.Errorf("MyPlan() = %v, want empty", p)
	}
	if _, err := newStudent(store).MyPlan(context.Background(), primitive.NewObjectID()); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("missing student error = %v", err)
	}
}

func TestStudentProfileAge(t *testing.T) {
	store := newMemStore()
	id := store.addUser(domain.User{
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Boarding:     &domain.Boarding{Birthday: "15/03/1995", PreferredGoals: []string{"strength"}},
	})
	bad := store.addUser(domain.User{Email: "bo@example.com", Boarding: &domain.Boarding{Birthday: "1995-03-15"}})

	on := newTrainer(store, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	profile, err := on.GetStudentProfile(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Age != "29" || !profile.IsBirthday || profile.User.PasswordHash != "" {
		t.Errorf("profile = %+v", profile)
	}

	before := newTrainer(store, time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC))
	profile, _ = before.GetStudentProfile(context.Background(), id)
	if profile.Age != "28.9" || profile.IsBirthday {
		t.Errorf("profile day before = %+v", profile)
	}

	profile, err = on.GetStudentProfile(context.Background(), bad)
	if err != nil || profile.Age != "" {
		t.Errorf("malformed birthday profile = %+v, %v", profile, err)
	}
}

func TestListStudentsExcludesCaller(t *testing.T) {
	store := newMemStore()
	store.addUser(domain.User{Email: "coach@example.com"})
	store.addUser(domain.User{Email: "ana@example.com", PasswordHash: "hash"})

	users, err := newTrainer(store, time.Now()).ListStudents(context.Background(), "Coach@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Email != "ana@example.com" || users[0].PasswordHash != "" {
		t.Errorf("ListStudents() = %+v", users)
	}
}

func TestMyBodyPartsFiltersByAssignment(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.bodyParts = testCatalog()
	assigned := store.addUser(domain.User{Email: "ana@example.com", AssignedExercises: domain.AssignmentSet{"legs": {2}}})
	fresh := store.addUser(domain.User{Email: "bo@example.com"})
	student := newStudent(store)

	views, err := student.MyBodyParts(ctx, assigned)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].ID != "legs" || len(views[0].Exercises) != 1 {
		t.Fatalf("MyBodyParts() = %+v", views)
	}
	if ex := views[0].Exercises[0]; ex.Index != 2 || ex.Key != "legs-2" || ex.Exercise.Name != "deadlift" {
		t.Errorf("filtered exercise = %+v", ex)
	}

	views, _ = student.MyBodyParts(ctx, fresh)
	if len(views) != 2 || len(views[1].Exercises) != 2 {
		t.Errorf("unassigned student should see the whole catalog: %+v", views)
	}
}

func TestSubmitBoarding(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	id := store.addUser(domain.User{Email: "ana@example.com"})
	student := newStudent(store)

	b, err := student.SubmitBoarding(ctx, id, "5/3/1995", []string{" strength ", ""})
	if err != nil {
		t.Fatal(err)
	}
	if b.Birthday != "05/03/1995" || !reflect.DeepEqual(b.PreferredGoals, []string{"strength"}) {
		t.Errorf("boarding = %+v", b)
	}
	if u := store.users[id]; u.Boarding == nil || u.LastUpdated == nil {
		t.Error("boarding not persisted")
	}

	if _, err := student.SubmitBoarding(ctx, id, "March 5th", nil); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad birthday error = %v", err)
	}
}

func TestCatalogExerciseEditing(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.bodyParts = testCatalog()
	catalog := NewCatalogService(memBodyParts{store}, &fakeMedia{}, logger.Nop())

	view, err := catalog.UpdateExercise(ctx, "legs", 0, domain.Exercise{Name: "front squat", Description: ""})
	if err != nil {
		t.Fatal(err)
	}
	if view.Exercise.Name != "front squat" || view.Exercise.MediaURL != "https://cdn.example.com/squat.mp4" {
		t.Errorf("edit should keep media: %+v", view.Exercise)
	}
	if view.MediaKind != domain.MediaVideo || view.MediaURL != "https://cdn.example.com/squat.mp4" {
		t.Errorf("remote media should pass through as video: %+v", view)
	}

	if _, err := catalog.UpdateExercise(ctx, "legs", 7, domain.Exercise{Name: "x"}); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("out of range edit error = %v", err)
	}

	added, err := catalog.AppendExercise(ctx, "arms", domain.Exercise{Name: "hammer curl"})
	if err != nil {
		t.Fatal(err)
	}
	if added.ExerciseIndex != 2 || added.Key != "arms-2" {
		t.Errorf("appended = %+v", added)
	}
	if _, err := catalog.AppendExercise(ctx, "chest", domain.Exercise{Name: "press"}); !errors.Is(err, ErrBodyPartNotFound) {
		t.Errorf("append to missing body part error = %v", err)
	}

	view, _ = catalog.GetExercise(ctx, "arms", 1)
	if len(view.Steps) != 3 || view.Steps[0] != "Grip the bars" {
		t.Errorf("steps = %v", view.Steps)
	}
}

func TestCatalogMediaUpload(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.bodyParts = testCatalog()
	media := &fakeMedia{}
	catalog := NewCatalogService(memBodyParts{store}, media, logger.Nop())

	if _, err := catalog.PresignMediaUpload(ctx, "legs", 2, "application/pdf"); !errors.Is(err, ErrUnsupportedMedia) {
		t.Errorf("pdf upload error = %v", err)
	}

	up, err := catalog.PresignMediaUpload(ctx, "legs", 2, "video/mp4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(up.Key, "exercises/legs/2/") || !strings.HasSuffix(up.Key, ".mp4") {
		t.Errorf("key = %q", up.Key)
	}

	if _, err := catalog.ConfirmMediaUpload(ctx, "legs", 1, up.Key); !errors.Is(err, ErrMediaKeyMismatch) {
		t.Errorf("foreign key confirm error = %v", err)
	}

	view, err := catalog.ConfirmMediaUpload(ctx, "legs", 2, up.Key)
	if err != nil {
		t.Fatal(err)
	}
	if view.Exercise.MediaURL != up.Key || view.MediaKind != domain.MediaVideo {
		t.Errorf("confirmed view = %+v", view)
	}
	if !strings.Contains(view.MediaURL, "X-Amz-Signature") {
		t.Errorf("stored key should resolve to a presigned url: %s", view.MediaURL)
	}
	if !reflect.DeepEqual(media.deleted, []string{"exercises/legs/2/old.gif"}) {
		t.Errorf("deleted = %v", media.deleted)
	}

	noMedia := NewCatalogService(memBodyParts{store}, nil, logger.Nop())
	if _, err := noMedia.PresignMediaUpload(ctx, "legs", 2, "video/mp4"); !errors.Is(err, ErrMediaUnavailable) {
		t.Errorf("no storage error = %v", err)
	}
	if u, err := noMedia.MediaURL(ctx, "https://cdn.example.com/a.gif"); err != nil || u != "https://cdn.example.com/a.gif" {
		t.Errorf("MediaURL passthrough = %q, %v", u, err)
	}
}

func TestWatchExercise(t *testing.T) {
	store := newMemStore()
	store.bodyParts = testCatalog()
	catalog := NewCatalogService(memBodyParts{store}, &fakeMedia{}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := catalog.WatchExercise(ctx, "arms", 0)
	if err != nil {
		t.Fatal(err)
	}
	first := <-updates
	if first.Exercise.Name != "curl" {
		t.Fatalf("snapshot = %+v", first)
	}

	if _, err := catalog.UpdateExercise(context.Background(), "arms", 0, domain.Exercise{Name: "preacher curl"}); err != nil {
		t.Fatal(err)
	}
	select {
	case next := <-updates:
		if next.Exercise.Name != "preacher curl" {
			t.Errorf("update = %+v", next)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	cancel()
	select {
	case _, open := <-updates:
		for open {
			_, open = <-updates
		}
	case <-time.After(time.Second):
		t.Fatal("watch not closed after cancel")
	}

	if _, err := catalog.WatchExercise(context.Background(), "arms", 9); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("watch missing exercise error = %v", err)
	}
}

func TestOnboardingSlides(t *testing.T) {
	store := newMemStore()
	store.slides = []domain.OnboardingSlide{{DocID: "a", Order: 1}, {DocID: "b", Order: 2}}
	slides, err := newStudent(store).OnboardingSlides(context.Background())
	if err != nil || len(slides) != 2 {
		t.Errorf("OnboardingSlides() = %v, %v", slides, err)
	}
}
