package workers

import (
	"context"

	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/repositories"
	"github.com/blastarena/server/pkg/repositories/models"
)

// PersistRoomOp selects what a persistence request does.
type PersistRoomOp int

const (
	PersistRoomSave PersistRoomOp = iota
	PersistRoomDelete
)

// PersistRoomRequest is a fire-and-forget mirror write from the game
// loop. Room is a detached snapshot; the worker never touches live
// room state.
type PersistRoomRequest struct {
	Op     PersistRoomOp
	RoomID string
	Room   *models.Room
}

type SaveRoomWorker struct {
	repository      repositories.Repository
	persistRoomChan <-chan PersistRoomRequest
}

type NewSaveRoomWorkerOptions struct {
	Repository      repositories.Repository
	PersistRoomChan <-chan PersistRoomRequest
}

// NewSaveRoomWorker creates a new SaveRoomWorker.
// The worker drains persistence requests emitted by the game loop so
// database latency never stalls a tick.
func NewSaveRoomWorker(opts NewSaveRoomWorkerOptions) *SaveRoomWorker {
	return &SaveRoomWorker{
		repository:      opts.Repository,
		persistRoomChan: opts.PersistRoomChan,
	}
}

func (w *SaveRoomWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.persistRoomChan:
			w.process(ctx, req)
		}
	}
}

func (w *SaveRoomWorker) process(ctx context.Context, req PersistRoomRequest) {
	switch req.Op {
	case PersistRoomSave:
		if err := w.repository.SaveRoom(ctx, req.Room); err != nil {
			log.Error("Failed to save room %s: %v", req.RoomID, err)
		}
	case PersistRoomDelete:
		if err := w.repository.DeleteRoom(ctx, req.RoomID); err != nil {
			log.Error("Failed to delete room %s: %v", req.RoomID, err)
		}
	}
}
