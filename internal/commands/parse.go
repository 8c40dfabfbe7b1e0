package commands

import (
	"strings"
)

// Command represents a parsed operator command.
type Command struct {
	Name string   // Command name (lowercase)
	Args []string // Arguments after the command name
}

// Known command names
const (
	CmdHelp     = "help"
	CmdOrigins  = "origins"
	CmdOrders   = "orders"
	CmdPresets  = "presets"
	CmdIdentity = "identity"

	// Mutating commands
	CmdComplete = "complete"
	CmdQuick    = "quick"
	CmdStatus   = "status"
)

// Parse extracts a command from message content.
// Returns nil if the message is empty or contains only whitespace.
func Parse(content string) *Command {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return nil
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// IsQuery returns true if the command only reads state.
func (c *Command) IsQuery() bool {
	switch c.Name {
	case CmdHelp, CmdOrigins, CmdOrders, CmdPresets, CmdIdentity:
		return true
	default:
		return false
	}
}

// IsMutation returns true if the command changes an order.
func (c *Command) IsMutation() bool {
	switch c.Name {
	case CmdComplete, CmdQuick, CmdStatus:
		return true
	default:
		return false
	}
}

// IsValid returns true if the command name is recognized.
func (c *Command) IsValid() bool {
	return c.IsQuery() || c.IsMutation()
}
