package collection

import (
	"context"
	"errors"
	"sort"
	"testing"

	"flowboard/internal/app/project"
	"flowboard/internal/app/task"
	"flowboard/internal/auth"
	"flowboard/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	cols      map[uuid.UUID]*Collection
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cols: map[uuid.UUID]*Collection{}}
}

func (f *fakeRepo) Create(col *Collection) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.cols {
		if existing.ProjectID == col.ProjectID && existing.Name == col.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if col.ID == uuid.Nil {
		col.ID = uuid.New()
	}
	cp := *col
	f.cols[col.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(id uuid.UUID) (*Collection, error) {
	col, ok := f.cols[id]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	cp := *col
	return &cp, nil
}

func (f *fakeRepo) GetByProject(projectID uuid.UUID) ([]*Collection, error) {
	var out []*Collection
	for _, col := range f.cols {
		if col.ProjectID == projectID {
			cp := *col
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) CountByProject(projectID uuid.UUID) (int64, error) {
	var count int64
	for _, col := range f.cols {
		if col.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) Save(col *Collection) error {
	cp := *col
	f.cols[col.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(id uuid.UUID) error {
	if _, ok := f.cols[id]; !ok {
		return ErrCollectionNotFound
	}
	delete(f.cols, id)
	return nil
}

func (f *fakeRepo) SaveOrder(id uuid.UUID, order int) error {
	col, ok := f.cols[id]
	if !ok {
		return ErrCollectionNotFound
	}
	col.Order = order
	return nil
}

type fakeProjectSvc struct {
	project *project.Project
}

func (f *fakeProjectSvc) CreateProject(creatorID uuid.UUID, name, description, color string) (*project.Project, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProjectSvc) ListProjects(userID uuid.UUID) ([]*project.Project, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProjectSvc) GetProject(userID, projectID uuid.UUID) (*project.Project, error) {
	return f.Authorize(userID, projectID)
}

func (f *fakeProjectSvc) UpdateProject(userID, projectID uuid.UUID, name, description, color *string) (*project.Project, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProjectSvc) DeleteProject(userID, projectID uuid.UUID) error {
	return errors.New("not implemented")
}

func (f *fakeProjectSvc) AddMember(userID, projectID, memberID uuid.UUID) (*project.Project, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeProjectSvc) Authorize(userID, projectID uuid.UUID) (*project.Project, error) {
	if f.project == nil || f.project.ID != projectID {
		return nil, project.ErrProjectNotFound
	}
	if !f.project.HasAccess(userID) {
		return nil, project.ErrAccessDenied
	}
	return f.project, nil
}

func (f *fakeProjectSvc) AuthorizeOwner(userID, projectID uuid.UUID) (*project.Project, error) {
	proj, err := f.Authorize(userID, projectID)
	if err != nil {
		return nil, err
	}
	if !proj.IsOwnedBy(userID) {
		return nil, project.ErrAccessDenied
	}
	return proj, nil
}

type fakeTaskRepo struct {
	task.Repository

	reassigned [][2]uuid.UUID
	cleared    []uuid.UUID
}

func (f *fakeTaskRepo) ReassignCollection(fromCollectionID, toCollectionID uuid.UUID) error {
	f.reassigned = append(f.reassigned, [2]uuid.UUID{fromCollectionID, toCollectionID})
	return nil
}

func (f *fakeTaskRepo) ClearCollection(collectionID uuid.UUID) error {
	f.cleared = append(f.cleared, collectionID)
	return nil
}

type fixture struct {
	svc      Service
	repo     *fakeRepo
	taskRepo *fakeTaskRepo
	bus      *utils.EventBus
	owner    uuid.UUID
	project  *project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	owner := uuid.New()
	proj := &project.Project{ID: uuid.New(), Name: "P", CreatedBy: owner}
	repo := newFakeRepo()
	taskRepo := &fakeTaskRepo{}
	bus := utils.NewEventBus()

	svc := NewService(repo, &fakeProjectSvc{project: proj}, taskRepo, bus, zap.NewNop())

	return &fixture{
		svc:      svc,
		repo:     repo,
		taskRepo: taskRepo,
		bus:      bus,
		owner:    owner,
		project:  proj,
	}
}

func (f *fixture) actor() auth.Actor {
	return auth.Actor{Identity: auth.Identity{UserID: f.owner}, ClientID: "c1"}
}

func (f *fixture) drainEvents() []utils.Event {
	var events []utils.Event
	for {
		select {
		case e := <-f.bus.SubscribeCh():
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestCreateCollection(t *testing.T) {
	f := newFixture(t)

	col, err := f.svc.CreateCollection(context.Background(), f.actor(), CreateCollectionInput{
		Name:      "Sprint 1",
		ProjectID: f.project.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, col.Order)
	assert.Equal(t, f.owner, col.CreatedBy)

	events := f.drainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventCollectionCreated, events[0].Name)
	assert.Equal(t, f.project.ID.String(), events[0].ProjectID)
}

func TestCreateCollectionDuplicateName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCollection(context.Background(), f.actor(), CreateCollectionInput{
		Name: "Sprint 1", ProjectID: f.project.ID,
	})
	require.NoError(t, err)
	f.drainEvents()

	_, err = f.svc.CreateCollection(context.Background(), f.actor(), CreateCollectionInput{
		Name: "Sprint 1", ProjectID: f.project.ID,
	})
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Empty(t, f.drainEvents())
}

func TestDeleteCollectionMovesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	src, err := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "Src", ProjectID: f.project.ID})
	require.NoError(t, err)
	dst, err := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "Dst", ProjectID: f.project.ID})
	require.NoError(t, err)
	f.drainEvents()

	require.NoError(t, f.svc.DeleteCollection(ctx, f.actor(), src.ID, &dst.ID))

	require.Len(t, f.taskRepo.reassigned, 1)
	assert.Equal(t, [2]uuid.UUID{src.ID, dst.ID}, f.taskRepo.reassigned[0])
	assert.Empty(t, f.taskRepo.cleared)

	events := f.drainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventCollectionDeleted, events[0].Name)
}

func TestDeleteCollectionDetachesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	col, err := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "Src", ProjectID: f.project.ID})
	require.NoError(t, err)
	f.drainEvents()

	require.NoError(t, f.svc.DeleteCollection(ctx, f.actor(), col.ID, nil))

	assert.Empty(t, f.taskRepo.reassigned)
	assert.Equal(t, []uuid.UUID{col.ID}, f.taskRepo.cleared)
}

func TestReorder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, _ := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "A", ProjectID: f.project.ID})
	b, _ := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "B", ProjectID: f.project.ID})
	c, _ := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "C", ProjectID: f.project.ID})
	f.drainEvents()

	cols, err := f.svc.Reorder(ctx, f.actor(), ReorderInput{
		ProjectID:     f.project.ID,
		CollectionIDs: []uuid.UUID{c.ID, a.ID, b.ID},
	})
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, c.ID, cols[0].ID)
	assert.Equal(t, a.ID, cols[1].ID)
	assert.Equal(t, b.ID, cols[2].ID)

	events := f.drainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventCollectionReordered, events[0].Name)
}

func TestReorderRejectsIncompleteList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, _ := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "A", ProjectID: f.project.ID})
	_, err := f.svc.CreateCollection(ctx, f.actor(), CreateCollectionInput{Name: "B", ProjectID: f.project.ID})
	require.NoError(t, err)
	f.drainEvents()

	_, err = f.svc.Reorder(ctx, f.actor(), ReorderInput{
		ProjectID:     f.project.ID,
		CollectionIDs: []uuid.UUID{a.ID},
	})
	assert.ErrorIs(t, err, ErrIncompleteOrder)

	// Duplicated ids padding the list out do not pass either.
	_, err = f.svc.Reorder(ctx, f.actor(), ReorderInput{
		ProjectID:     f.project.ID,
		CollectionIDs: []uuid.UUID{a.ID, a.ID},
	})
	assert.ErrorIs(t, err, ErrIncompleteOrder)
	assert.Empty(t, f.drainEvents())
}

func TestReorderDeniedForStranger(t *testing.T) {
	f := newFixture(t)
	stranger := auth.Actor{Identity: auth.Identity{UserID: uuid.New()}}

	_, err := f.svc.Reorder(context.Background(), stranger, ReorderInput{
		ProjectID:     f.project.ID,
		CollectionIDs: []uuid.UUID{},
	})
	assert.ErrorIs(t, err, project.ErrAccessDenied)
}
