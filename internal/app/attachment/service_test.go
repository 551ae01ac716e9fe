package attachment

import (
	"context"
	"mime/multipart"
	"testing"

	"flowboard/internal/app/task"
	"flowboard/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTaskSvc struct {
	task.Service

	task *task.Task
}

func (f *fakeTaskSvc) GetTask(userID, taskID uuid.UUID) (*task.Task, error) {
	return f.task, nil
}

type fakeRepo struct {
	attachments map[uuid.UUID]*Attachment
	deleted     []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{attachments: make(map[uuid.UUID]*Attachment)}
}

func (r *fakeRepo) Create(a *Attachment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.attachments[a.ID] = a
	return nil
}

func (r *fakeRepo) GetByID(id uuid.UUID) (*Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, ErrAttachmentNotFound
	}
	return a, nil
}

func (r *fakeRepo) GetByTask(taskID uuid.UUID) ([]*Attachment, error) {
	var out []*Attachment
	for _, a := range r.attachments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(id uuid.UUID) error {
	if _, ok := r.attachments[id]; !ok {
		return ErrAttachmentNotFound
	}
	delete(r.attachments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func newNoStorageService(repo Repository) Service {
	tk := &task.Task{ID: uuid.New()}
	// nil provider mirrors a server started without object storage.
	return NewService(repo, &fakeTaskSvc{task: tk}, nil, zap.NewNop())
}

func TestUploadWithoutStorage(t *testing.T) {
	svc := newNoStorageService(newFakeRepo())
	actor := auth.Actor{Identity: auth.Identity{UserID: uuid.New(), Username: "alice"}}

	_, err := svc.Upload(context.Background(), actor, uuid.New(), &multipart.FileHeader{Filename: "notes.pdf"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDownloadURLWithoutStorage(t *testing.T) {
	repo := newFakeRepo()
	a := &Attachment{TaskID: uuid.New(), Filename: "notes.pdf", ObjectName: "obj"}
	require.NoError(t, repo.Create(a))

	svc := newNoStorageService(repo)

	_, err := svc.DownloadURL(context.Background(), uuid.New(), a.ID)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestListByTaskWorksWithoutStorage(t *testing.T) {
	repo := newFakeRepo()
	taskID := uuid.New()
	require.NoError(t, repo.Create(&Attachment{TaskID: taskID, Filename: "a.png"}))

	svc := newNoStorageService(repo)

	attachments, err := svc.ListByTask(uuid.New(), taskID)
	require.NoError(t, err)
	assert.Len(t, attachments, 1)
}

func TestDeleteWorksWithoutStorage(t *testing.T) {
	repo := newFakeRepo()
	a := &Attachment{TaskID: uuid.New(), Filename: "a.png", ObjectName: "obj"}
	require.NoError(t, repo.Create(a))

	svc := newNoStorageService(repo)
	actor := auth.Actor{Identity: auth.Identity{UserID: uuid.New(), Username: "alice"}}

	// The database row goes away even though there is no store to clean.
	require.NoError(t, svc.Delete(context.Background(), actor, a.ID))
	assert.Equal(t, []uuid.UUID{a.ID}, repo.deleted)
}
