package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/repositories/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rooms (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	level_id TEXT NOT NULL,
	started INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS room_players (
	id TEXT PRIMARY KEY,
	room_id TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	health INTEGER NOT NULL
);
`

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %v", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveRoom(ctx context.Context, room *models.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	q := `
	INSERT OR REPLACE INTO rooms (id, code, level_id, started, updated_at)
	VALUES (?, ?, ?, ?, ?);
	`
	if _, err := tx.ExecContext(ctx, q, room.ID, room.Code, room.LevelID, room.Started, room.Timestamp); err != nil {
		return fmt.Errorf("failed to upsert room: %v", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM room_players WHERE room_id = ?", room.ID); err != nil {
		return fmt.Errorf("failed to clear room players: %v", err)
	}
	for _, p := range room.Players {
		q := `
		INSERT INTO room_players (id, room_id, name, x, y, health) VALUES (?, ?, ?, ?, ?, ?);
		`
		if _, err := tx.ExecContext(ctx, q, p.ID, room.ID, p.Name, p.X, p.Y, p.Health); err != nil {
			return fmt.Errorf("failed to insert room player: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) DeleteRoom(ctx context.Context, roomID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", roomID); err != nil {
		return fmt.Errorf("failed to delete room: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) GetRoomByID(ctx context.Context, roomID string) (*models.Room, error) {
	return r.getRoom(ctx, "SELECT id, code, level_id, started, updated_at FROM rooms WHERE id = ?", roomID)
}

func (r *SQLiteRepository) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	return r.getRoom(ctx, "SELECT id, code, level_id, started, updated_at FROM rooms WHERE code = ?", code)
}

func (r *SQLiteRepository) getRoom(ctx context.Context, q string, arg interface{}) (*models.Room, error) {
	room := &models.Room{}
	err := r.db.QueryRowContext(ctx, q, arg).Scan(&room.ID, &room.Code, &room.LevelID, &room.Started, &room.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to query room: %v", err)
	}

	players, err := r.roomPlayers(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	room.Players = players

	return room, nil
}

func (r *SQLiteRepository) roomPlayers(ctx context.Context, roomID string) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, x, y, health FROM room_players WHERE room_id = ?", roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query room players: %v", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.X, &p.Y, &p.Health); err != nil {
			return nil, fmt.Errorf("failed to scan room player: %v", err)
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return r.listRooms(ctx, "SELECT id, code, level_id, started, updated_at FROM rooms ORDER BY updated_at DESC")
}

func (r *SQLiteRepository) ListActiveRooms(ctx context.Context) ([]*models.Room, error) {
	q := `
	SELECT id, code, level_id, started, updated_at FROM rooms
	WHERE started = 0
	AND (SELECT COUNT(*) FROM room_players p WHERE p.room_id = rooms.id) < ?
	ORDER BY updated_at DESC;
	`
	return r.listRooms(ctx, q, types.RoomCapacity)
}

func (r *SQLiteRepository) listRooms(ctx context.Context, q string, args ...interface{}) ([]*models.Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %v", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Code, &room.LevelID, &room.Started, &room.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan room: %v", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, room := range rooms {
		players, err := r.roomPlayers(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		room.Players = players
	}

	return rooms, nil
}
