package core

// Command is a host-level request a key can carry, as opposed to piece
// movement, which hosts forward to the input layer as raw events.
type Command int

const (
	CommandNone       Command = iota
	CommandQuit               // q, ctrl+c
	CommandBack               // b, esc: leave the game for the menu
	CommandPause              // p
	CommandRestart            // r: throw the board away and start over
	CommandCompact            // c: half-block board on or off
	CommandScreenshot         // ctrl+s
)

var commandNames = [...]string{
	CommandNone:       "none",
	CommandQuit:       "quit",
	CommandBack:       "back",
	CommandPause:      "pause",
	CommandRestart:    "restart",
	CommandCompact:    "compact",
	CommandScreenshot: "screenshot",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}
