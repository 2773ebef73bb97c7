package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

// updated mocks an update acknowledgement matching n documents.
func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func TestUserRepository(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ana@example.com"},
			{Key: "name", Value: "Ana"},
			{Key: "boarding", Value: bson.D{{Key: "birthday", Value: "15/03/1995"}}},
		}))

		user, err := repo.GetByEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() error: %v", err)
		}
		if user.ID != id || user.Name != "Ana" || user.Boarding == nil || user.Boarding.Birthday != "15/03/1995" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	mt.Run("missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch))

		if _, err := repo.GetByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("GetByID() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &domain.User{Email: "ana@example.com"})
		if !errors.Is(err, repository.ErrConflict) {
			t.Errorf("Create() error = %v, want ErrConflict", err)
		}
	})

	mt.Run("list excludes caller", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "bo@example.com"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "cy@example.com"}},
		))

		users, err := repo.ListExcludingEmail(ctx, "ana@example.com")
		if err != nil {
			t.Fatalf("ListExcludingEmail() error: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("got %d users, want 2", len(users))
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("filter", "email", "$ne").StringValue(); got != "ana@example.com" {
			t.Errorf("filter $ne = %q", got)
		}
	})

	mt.Run("record login on missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(updated(0))

		if err := repo.RecordLogin(ctx, id, time.Now()); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("RecordLogin() error = %v, want ErrNotFound", err)
		}
	})
}

func TestAssignmentRepository(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	mt.Run("get normalizes", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "assignedExercises", Value: bson.D{
				{Key: "legs", Value: bson.A{0, 2, 2}},
				{Key: "arms", Value: bson.A{}},
			}},
		}))

		set, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !set.Equal(domain.AssignmentSet{"legs": {0, 2}}) {
			t.Errorf("Get() = %v", set)
		}
		if _, ok := set["arms"]; ok {
			t.Error("empty key survived Get")
		}
	})

	mt.Run("get without field", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}}))

		set, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !set.IsEmpty() {
			t.Errorf("Get() = %v, want empty", set)
		}
	})

	mt.Run("set writes the map", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		if err := repo.Set(ctx, id, domain.AssignmentSet{"legs": {1}}, time.Now()); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if _, err := cmd.LookupErr("updates", "0", "u", "$set", "assignedExercises", "legs"); err != nil {
			t.Errorf("$set assignedExercises.legs missing from %s", cmd)
		}
	})

	mt.Run("empty set deletes the field", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		if err := repo.Set(ctx, id, domain.AssignmentSet{"legs": {}}, time.Now()); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if _, err := cmd.LookupErr("updates", "0", "u", "$unset", "assignedExercises"); err != nil {
			t.Errorf("$unset assignedExercises missing from %s", cmd)
		}
		if _, err := cmd.LookupErr("updates", "0", "u", "$set", "assignedExercises"); err == nil {
			t.Error("empty map must never be written")
		}
	})

	mt.Run("clear on missing student", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(updated(0))

		if err := repo.Clear(ctx, id, time.Now()); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("Clear() error = %v, want ErrNotFound", err)
		}
	})
}

func TestOrderRepository(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	mt.Run("get keeps stale entries", func(mt *mtest.T) {
		repo := NewMongoOrderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "exerciseOrder", Value: bson.A{
				bson.D{{Key: "bodyPartId", Value: "legs"}, {Key: "exerciseIndex", Value: 2}},
				bson.D{{Key: "bodyPartId", Value: "legs"}, {Key: "exerciseIndex", Value: 5}},
			}},
		}))

		order, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if len(order) != 2 || order[1].Key() != "legs-5" {
			t.Errorf("Get() = %v", order)
		}
	})

	mt.Run("get without field", func(mt *mtest.T) {
		repo := NewMongoOrderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, userCollectionName), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}}))

		order, err := repo.Get(ctx, id)
		if err != nil || order == nil || len(order) != 0 {
			t.Errorf("Get() = %v, %v; want empty order", order, err)
		}
	})

	mt.Run("set", func(mt *mtest.T) {
		repo := NewMongoOrderRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		order := domain.ExerciseOrder{{BodyPartID: "arms", ExerciseIndex: 1}}
		if err := repo.Set(ctx, id, order, time.Now()); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		got := cmd.Lookup("updates", "0", "u", "$set", "exerciseOrder", "0", "bodyPartId").StringValue()
		if got != "arms" {
			t.Errorf("exerciseOrder[0].bodyPartId = %q", got)
		}
	})
}

func TestBodyPartRepository(t *testing.T) {
	mt := newMock(t)
	ctx := context.Background()

	mt.Run("list keeps natural order", func(mt *mtest.T) {
		repo := NewMongoBodyPartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, bodyPartCollectionName), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "legs"}, {Key: "bodyPart", Value: "Legs"}},
			bson.D{{Key: "_id", Value: "arms"}, {Key: "bodyPart", Value: "Arms"}},
		))

		parts, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(parts) != 2 || parts[0].ID != "legs" || parts[1].ID != "arms" {
			t.Errorf("List() = %+v", parts)
		}
		if _, err := mt.GetStartedEvent().Command.LookupErr("sort"); err == nil {
			t.Error("List must not sort")
		}
	})

	mt.Run("update exercise out of range", func(mt *mtest.T) {
		repo := NewMongoBodyPartRepository(mt.DB)
		mt.AddMockResponses(updated(0))

		err := repo.UpdateExercise(ctx, "legs", 9, domain.Exercise{Name: "squat"})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("UpdateExercise() error = %v, want ErrNotFound", err)
		}
		cmd := mt.GetStartedEvent().Command
		if _, err := cmd.LookupErr("updates", "0", "q", "exercises.9", "$exists"); err != nil {
			t.Errorf("filter does not guard the index: %s", cmd)
		}
		if _, err := cmd.LookupErr("updates", "0", "u", "$set", "exercises.9.gifUrl"); err == nil {
			t.Error("editing an exercise must keep its media reference")
		}
	})

	mt.Run("set media", func(mt *mtest.T) {
		repo := NewMongoBodyPartRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		if err := repo.SetExerciseMedia(ctx, "legs", 1, "exercises/legs/1/a.mp4"); err != nil {
			t.Fatalf("SetExerciseMedia() error: %v", err)
		}
		cmd := mt.GetStartedEvent().Command
		if got := cmd.Lookup("updates", "0", "u", "$set", "exercises.1.gifUrl").StringValue(); got != "exercises/legs/1/a.mp4" {
			t.Errorf("gifUrl = %q", got)
		}
	})

	mt.Run("append returns new index", func(mt *mtest.T) {
		repo := NewMongoBodyPartRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: "legs"},
			{Key: "exercises", Value: bson.A{
				bson.D{{Key: "name", Value: "squat"}},
				bson.D{{Key: "name", Value: "lunge"}},
				bson.D{{Key: "name", Value: "step up"}},
			}},
		}}))

		index, err := repo.AppendExercise(ctx, "legs", domain.Exercise{Name: "step up"})
		if err != nil {
			t.Fatalf("AppendExercise() error: %v", err)
		}
		if index != 2 {
			t.Errorf("AppendExercise() = %d, want 2", index)
		}
	})
}

func TestAdminRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("member", func(mt *mtest.T) {
		repo := NewMongoAdminRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, adminCollectionName), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 1}}))

		ok, err := repo.IsAdmin(context.Background(), "coach@example.com")
		if err != nil || !ok {
			t.Errorf("IsAdmin() = %v, %v; want true", ok, err)
		}
	})

	mt.Run("not a member", func(mt *mtest.T) {
		repo := NewMongoAdminRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, adminCollectionName), mtest.FirstBatch))

		ok, err := repo.IsAdmin(context.Background(), "ana@example.com")
		if err != nil || ok {
			t.Errorf("IsAdmin() = %v, %v; want false", ok, err)
		}
	})
}

func TestOnboardingRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("sorted by id", func(mt *mtest.T) {
		repo := NewMongoOnboardingRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, onboardingCollectionName), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "welcome"}, {Key: "id", Value: 1}, {Key: "title", Value: "Welcome"}},
			bson.D{{Key: "_id", Value: "goals"}, {Key: "id", Value: 2}, {Key: "title", Value: "Goals"}},
		))

		slides, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(slides) != 2 || slides[0].Order != 1 || slides[1].DocID != "goals" {
			t.Errorf("List() = %+v", slides)
		}
		if got := mt.GetStartedEvent().Command.Lookup("sort", "id").AsInt64(); got != 1 {
			t.Errorf("sort id = %d", got)
		}
	})
}
