package constants

import "time"

const (
	// DefaultTickInterval is the fixed cadence of the game loop (~30 Hz).
	DefaultTickInterval = 33 * time.Millisecond

	RoomCodeLength = 6

	PlayerMaxHealth         = 100
	PlayerStartingBombPower = 1
	PlayerStartingBombCount = 1

	// BombCountdownSeconds is the armed countdown before detonation.
	BombCountdownSeconds = 4.0
	// BombFadeSeconds is the post-explosion fade before removal.
	BombFadeSeconds  = 1.0
	BombPlayerDamage = 20
	BombEnemyDamage  = 50

	EnemyMaxHealth           = 100
	EnemyMoveIntervalSeconds = 0.5
	EnemyContactDamage       = 10

	// ContactCooldownInitialSeconds applies on first contact with an enemy;
	// ContactCooldownSustainedSeconds applies once continuous contact with
	// the same enemy reaches ContactSustainedThresholdSeconds.
	ContactCooldownInitialSeconds    = 0.5
	ContactCooldownSustainedSeconds  = 0.2
	ContactSustainedThresholdSeconds = 3.0

	// MaxLevelNumber is the last playable level; advancing beyond it
	// wins the game outright.
	MaxLevelNumber = 10
)
