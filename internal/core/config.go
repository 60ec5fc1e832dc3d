package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The simulation uses TickRate as its time base; one tick is one frame.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState summarizes the campaign for the platform layer.
type GameState struct {
	LevelIndex int  // Index in the play order
	LevelID    int  // Level id from the descriptor
	Deaths     int  // Deaths on the current level
	Steps      int  // Landings since the level (re)started
	Active     bool // Whether the simulation is consuming input
	Complete   bool // Whether the last level has been won
}
