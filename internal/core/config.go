package core

// RuntimeConfig contains host settings for one play session.
type RuntimeConfig struct {
	ScreenW int    // Terminal width in columns
	ScreenH int    // Terminal height in rows
	FPS     int    // Frame rate of the session loop (default 60)
	Seed    int64  // RNG seed for piece selection
	Compact bool   // Draw the board with half-block characters
	Player  string // Name stored with submitted scores
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		FPS:     60,
		Seed:    0, // 0 means use current time in platform layer
		Player:  "player",
	}
}

// GameState summarizes a session for the HUD.
type GameState struct {
	Lines    int     // Rows cleared so far
	Progress float64 // Fraction of the way to maximum speed
	Paused   bool    // Whether the game is paused
	GameOver bool    // Whether the game has ended
	Won      bool    // Whether the line target was reached
	Piece    string  // Label of the falling piece
	Input    string  // Active recognizer, touch or desktop
}
