package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/repositories/models"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS rooms (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	level_id TEXT NOT NULL,
	started BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at BIGINT NOT NULL DEFAULT 0
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

// NewPostgresRepository connects and ensures the schema exists.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to ensure schema: %v", err)
	}
	return &PostgresRepository{conn: conn}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveRoom(ctx context.Context, room *models.Room) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	q := `
	INSERT INTO rooms (id, code, level_id, started, updated_at) VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET level_id = $3, started = $4, updated_at = $5;
	`
	if _, err := tx.Exec(ctx, q, room.ID, room.Code, room.LevelID, room.Started, room.Timestamp); err != nil {
		return fmt.Errorf("failed to upsert room: %v", err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM room_players WHERE room_id = $1", room.ID); err != nil {
		return fmt.Errorf("failed to clear room players: %v", err)
	}
	for _, p := range room.Players {
		q := `
		INSERT INTO room_players (id, room_id, name, x, y, health) VALUES ($1, $2, $3, $4, $5, $6);
		`
		if _, err := tx.Exec(ctx, q, p.ID, room.ID, p.Name, p.X, p.Y, p.Health); err != nil {
			return fmt.Errorf("failed to insert room player: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteRoom(ctx context.Context, roomID string) error {
	if _, err := r.conn.Exec(ctx, "DELETE FROM rooms WHERE id = $1", roomID); err != nil {
		return fmt.Errorf("failed to delete room: %v", err)
	}
	return nil
}

func (r *PostgresRepository) GetRoomByID(ctx context.Context, roomID string) (*models.Room, error) {
	return r.getRoom(ctx, "SELECT id, code, level_id, started, updated_at FROM rooms WHERE id = $1", roomID)
}

func (r *PostgresRepository) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	return r.getRoom(ctx, "SELECT id, code, level_id, started, updated_at FROM rooms WHERE code = $1", code)
}

func (r *PostgresRepository) getRoom(ctx context.Context, q string, arg interface{}) (*models.Room, error) {
	room := &models.Room{}
	err := r.conn.QueryRow(ctx, q, arg).Scan(&room.ID, &room.Code, &room.LevelID, &room.Started, &room.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

func (r *PostgresRepository) roomPlayers(ctx context.Context, roomID string) ([]models.Player, error) {
	rows, err := r.conn.Query(ctx, "SELECT id, name, x, y, health FROM room_players WHERE room_id = $1", roomID)
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

func (r *PostgresRepository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return r.listRooms(ctx, "SELECT id, code, level_id, started, updated_at FROM rooms ORDER BY updated_at DESC")
}

func (r *PostgresRepository) ListActiveRooms(ctx context.Context) ([]*models.Room, error) {
	q := `
	SELECT id, code, level_id, started, updated_at FROM rooms
	WHERE started = FALSE
	AND (SELECT COUNT(*) FROM room_players p WHERE p.room_id = rooms.id) < $1
	ORDER BY updated_at DESC;
	`
	return r.listRooms(ctx, q, types.RoomCapacity)
}

func (r *PostgresRepository) listRooms(ctx context.Context, q string, args ...interface{}) ([]*models.Room, error) {
	rows, err := r.conn.Query(ctx, q, args...)
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
