package commands

import (
	"context"

	"github.com/buildtall-systems/bankid-mock/internal/rp"
)

// Result is the outcome of a command.
type Result struct {
	Message string
	Error   error
}

// Execute runs the command against the protocol service and returns a result.
func Execute(ctx context.Context, svc *rp.Service, cmd *Command) Result {
	switch cmd.Name {
	case CmdOrigins:
		return OriginsCmd(svc)

	case CmdOrders:
		return OrdersCmd(svc, cmd.Args)

	case CmdPresets:
		return PresetsCmd(svc)

	case CmdIdentity:
		return IdentityCmd(svc)

	case CmdComplete:
		return CompleteCmd(ctx, svc, cmd.Args)

	case CmdQuick:
		return QuickCmd(ctx, svc, cmd.Args)

	case CmdStatus:
		return StatusCmd(ctx, svc, cmd.Args)

	default:
		return HelpCmd()
	}
}
