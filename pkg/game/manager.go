package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/metrics"
	"github.com/blastarena/server/pkg/network"
	"github.com/blastarena/server/pkg/queue"
	"github.com/blastarena/server/pkg/workers"
)

// GameManager owns every room. All room mutation happens on the game
// loop goroutine; the network layers only enqueue and send.
type GameManager struct {
	clientManager    *network.ClientManager
	messageQueue     queue.Queue
	levelSource      levels.Source
	persistRoomChan  chan<- workers.PersistRoomRequest
	gameLoopInterval time.Duration

	rooms       map[string]*types.Room
	roomsByCode map[string]string
	clientRooms map[uint32]string
	// playerIDs maps a connection to its player identity within its room.
	playerIDs map[uint32]string

	rng       *rand.Rand
	timestamp int64
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	ClientManager    *network.ClientManager
	MessageQueue     queue.Queue
	LevelSource      levels.Source
	PersistRoomChan  chan<- workers.PersistRoomRequest
	GameLoopInterval time.Duration
	// Rand seeds enemy movement decisions and room codes. Nil gets a
	// time-seeded source.
	Rand *rand.Rand
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GameManager{
		clientManager:    opts.ClientManager,
		messageQueue:     opts.MessageQueue,
		levelSource:      opts.LevelSource,
		persistRoomChan:  opts.PersistRoomChan,
		gameLoopInterval: opts.GameLoopInterval,
		rooms:            make(map[string]*types.Room),
		roomsByCode:      make(map[string]string),
		clientRooms:      make(map[uint32]string),
		playerIDs:        make(map[uint32]string),
		rng:              rng,
	}
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if err := gm.gameTick(ctx, t); err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(_ context.Context, t time.Time) error {
	start := time.Now()
	gm.timestamp = t.UnixMilli()

	gm.processMessages()
	gm.updateRooms(gm.gameLoopInterval.Seconds())
	gm.broadcastSnapshots()

	metrics.RecordTick(time.Since(start))
	metrics.UpdateRoomCount(len(gm.rooms))
	metrics.UpdatePlayerCount(len(gm.clientRooms))

	return nil
}

// processMessages drains the queue and applies connection events and
// intents in arrival order.
func (gm *GameManager) processMessages() {
	pending, err := gm.messageQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read messages: %v", err)
		return
	}
	for _, item := range pending {
		switch event := item.(type) {
		case network.ClientConnected:
			log.Debug("Client %d connected", event.ClientID)
		case network.ClientDisconnected:
			log.Debug("Client %d disconnected", event.ClientID)
			gm.handleLeaveRoom(event.ClientID)
		case network.ClientMessage:
			gm.handleClientMessage(event.ClientID, event.Message)
		default:
			log.Warn("Unknown message queue item type: %T", item)
		}
	}
}

// updateRooms advances every started room's simulation by dt seconds.
func (gm *GameManager) updateRooms(dt float64) {
	for _, room := range gm.rooms {
		if !room.Started() || room.GameOver {
			continue
		}
		gm.updateBombs(room, dt)
		gm.updateEnemies(room, dt)
		gm.resolveRoomOutcome(room)
	}
}

// resolveRoomOutcome checks the room's end conditions after a tick's
// worth of damage has settled.
func (gm *GameManager) resolveRoomOutcome(room *types.Room) {
	if room.GameOver {
		return
	}
	if len(room.AlivePlayers()) == 0 {
		room.GameOver = true
		room.Won = false
		log.Info("Room %s lost on %s", room.Code, room.LevelID)
		gm.persistRoom(room)
		return
	}
	gm.maybeAdvanceLevel(room)
}
