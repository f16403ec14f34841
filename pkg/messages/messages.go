package messages

import (
	"encoding/json"
	"fmt"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 4096
)

// Client message types
const (
	MessageTypeClientPing         = "ping"
	MessageTypeClientCreateRoom   = "create_room"
	MessageTypeClientJoinRoom     = "join_room"
	MessageTypeClientLeaveRoom    = "leave_room"
	MessageTypeClientListRooms    = "list_rooms"
	MessageTypeClientPlayerMove   = "player_move"
	MessageTypeClientPlaceBomb    = "place_bomb"
	MessageTypeClientPlayerDamage = "player_damage"
)

// Server message types
const (
	MessageTypeServerPong         = "pong"
	MessageTypeServerRoomCreated  = "room_created"
	MessageTypeServerPlayerJoined = "player_joined"
	MessageTypeServerPlayerLeft   = "player_left"
	MessageTypeServerRoomLeft     = "room_left"
	MessageTypeServerRoomDeleted  = "room_deleted"
	MessageTypeServerGameStarted  = "game_started"
	MessageTypeServerGameState    = "game_state"
	MessageTypeServerRoomsList    = "rooms_list"
	MessageTypeServerError        = "error"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	ClientID uint32          `json:"clientID"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// NewMessage builds an envelope with a JSON-encoded payload.
func NewMessage(clientID uint32, msgType string, payload interface{}) (*Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %v", msgType, err)
	}
	return &Message{ClientID: clientID, Type: msgType, Payload: b}, nil
}

// ClientCreateRoom asks the server to create a room with the sender as creator.
type ClientCreateRoom struct {
	PlayerName string `json:"playerName"`
}

// ClientJoinRoom asks the server to join a room by its shareable code.
type ClientJoinRoom struct {
	Code       string `json:"code"`
	PlayerName string `json:"playerName"`
}

// ClientPlayerMove is a single-step move intent.
type ClientPlayerMove struct {
	Direction string `json:"direction"`
}

// ClientPlayerDamage applies external damage to the sender's player.
type ClientPlayerDamage struct {
	Damage int `json:"damage"`
}

// ServerRoomCreated confirms room creation to the creator.
type ServerRoomCreated struct {
	RoomID      string `json:"roomId"`
	Code        string `json:"code"`
	PlayerID    string `json:"playerId"`
	PlayerCount int    `json:"playerCount"`
}

// ServerPlayerJoined announces a roster addition to all room members.
type ServerPlayerJoined struct {
	RoomID      string      `json:"roomId"`
	PlayerID    string      `json:"playerId"`
	PlayerCount int         `json:"playerCount"`
	Player      PlayerState `json:"player"`
}

// ServerPlayerLeft announces a roster removal to remaining room members.
type ServerPlayerLeft struct {
	RoomID      string `json:"roomId"`
	Code        string `json:"code"`
	PlayerID    string `json:"playerId"`
	PlayerCount int    `json:"playerCount"`
}

// ServerRoomLeft acknowledges a leave to the departing client.
type ServerRoomLeft struct {
	RoomID      string `json:"roomId"`
	Code        string `json:"code"`
	PlayerID    string `json:"playerId"`
	PlayerCount int    `json:"playerCount"`
	RoomDeleted bool   `json:"roomDeleted"`
}

// ServerRoomDeleted announces that a room was torn down. GameEnded
// distinguishes a mid-match teardown from a pre-game one.
type ServerRoomDeleted struct {
	RoomID    string `json:"roomId"`
	Reason    string `json:"reason"`
	GameEnded bool   `json:"gameEnded"`
}

// ServerGameStarted carries the initial snapshot when a room starts.
type ServerGameStarted struct {
	RoomID string    `json:"roomId"`
	State  GameState `json:"state"`
}

// ServerRoomsList lists joinable rooms.
type ServerRoomsList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// ServerError reports a rejected intent back to its sender.
type ServerError struct {
	Message string `json:"message"`
}

// RoomSummary is the lobby-facing view of a room.
type RoomSummary struct {
	RoomID      string `json:"roomId"`
	Code        string `json:"code"`
	LevelID     string `json:"levelId"`
	PlayerCount int    `json:"playerCount"`
	Capacity    int    `json:"capacity"`
	Started     bool   `json:"started"`
}
