package models

type Room struct {
	ID        string   `json:"id"`
	Code      string   `json:"code"`
	LevelID   string   `json:"level_id"`
	Started   bool     `json:"started"`
	Timestamp int64    `json:"timestamp"`
	Players   []Player `json:"players"`
}

type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Health int    `json:"health"`
}
