package commands

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/google/uuid"

	"github.com/buildtall-systems/bankid-mock/internal/order"
	"github.com/buildtall-systems/bankid-mock/internal/rp"
)

// HelpCmd lists the available commands.
func HelpCmd() Result {
	var b strings.Builder
	b.WriteString("Commands:\n")
	b.WriteString("  origins                         - origins with pending orders\n")
	b.WriteString("  orders <ip|alias>               - pending orders, newest first\n")
	b.WriteString("  presets                         - quick-complete presets\n")
	b.WriteString("  identity                        - random personal number and name\n")
	b.WriteString("  complete <ref> <pnr> <name...>  - complete an order\n")
	b.WriteString("  quick <ref> <label...>          - complete with a preset\n")
	b.WriteString("  status <ref> <hintCode>         - set pending sub-status\n")
	return Result{Message: b.String()}
}

// OriginsCmd lists origins with pending orders.
func OriginsCmd(svc *rp.Service) Result {
	origins := svc.ListOrigins()
	if len(origins) == 0 {
		return Result{Message: "No pending orders"}
	}

	var b strings.Builder
	b.WriteString("Origins with pending orders:\n")
	for _, o := range origins {
		if o.Alias != "" {
			fmt.Fprintf(&b, "  %s (%s)\n", o.Alias, o.IP)
		} else {
			fmt.Fprintf(&b, "  %s\n", o.IP)
		}
	}
	return Result{Message: b.String()}
}

// OrdersCmd lists pending orders for an origin given as IP or alias.
// Args: [ip|alias]
func OrdersCmd(svc *rp.Service, args []string) Result {
	if len(args) < 1 {
		return Result{Error: errors.New("usage: orders <ip|alias>")}
	}

	var (
		pending []rp.PendingOrder
		err     error
	)
	if addr, perr := netip.ParseAddr(args[0]); perr == nil {
		pending = svc.PendingByOrigin(addr.Unmap())
	} else {
		pending, err = svc.PendingByAlias(args[0])
	}
	if errors.Is(err, rp.ErrUnknownAlias) {
		return Result{Error: fmt.Errorf("%s is neither an IP address nor a known alias", args[0])}
	}
	if err != nil {
		return Result{Error: fmt.Errorf("listing orders: %w", err)}
	}

	if len(pending) == 0 {
		return Result{Message: fmt.Sprintf("No pending orders for %s", args[0])}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pending orders for %s:\n", args[0])
	for _, p := range pending {
		fmt.Fprintf(&b, "  %s  %s  %s\n", p.OrderRef, p.CreatedAt.Format("15:04:05"), p.SubStatus)
	}
	return Result{Message: b.String()}
}

// PresetsCmd lists quick-complete presets.
func PresetsCmd(svc *rp.Service) Result {
	presets := svc.Presets()
	if len(presets) == 0 {
		return Result{Message: "No presets configured"}
	}

	var b strings.Builder
	b.WriteString("Presets:\n")
	for _, p := range presets {
		fmt.Fprintf(&b, "  %s: %s %s\n", p.Label, p.SSN, p.Name)
	}
	return Result{Message: b.String()}
}

// IdentityCmd generates a synthetic identity.
func IdentityCmd(svc *rp.Service) Result {
	id, err := svc.GenerateIdentity()
	if err != nil {
		return Result{Error: fmt.Errorf("generating identity: %w", err)}
	}
	return Result{Message: fmt.Sprintf("%s %s", id.PersonalNumber, id.Name)}
}

// CompleteCmd completes a pending order.
// Args: [order_ref, personal_number, name...]
func CompleteCmd(ctx context.Context, svc *rp.Service, args []string) Result {
	if len(args) < 3 {
		return Result{Error: errors.New("usage: complete <ref> <personal_number> <name...>")}
	}

	id, res, ok := parseRef(args[0])
	if !ok {
		return res
	}

	name := strings.Join(args[2:], " ")
	if err := svc.CompleteOrder(ctx, id, args[1], name); err != nil {
		return orderError(args[0], err)
	}
	return Result{Message: fmt.Sprintf("Completed order %s as %s", args[0], name)}
}

// QuickCmd completes a pending order with a preset.
// Args: [order_ref, label...]
func QuickCmd(ctx context.Context, svc *rp.Service, args []string) Result {
	if len(args) < 2 {
		return Result{Error: errors.New("usage: quick <ref> <label>")}
	}

	id, res, ok := parseRef(args[0])
	if !ok {
		return res
	}

	label := strings.Join(args[1:], " ")
	err := svc.QuickComplete(ctx, id, label)
	if errors.Is(err, rp.ErrUnknownPreset) {
		return Result{Error: fmt.Errorf("no preset labelled %q", label)}
	}
	if err != nil {
		return orderError(args[0], err)
	}
	return Result{Message: fmt.Sprintf("Completed order %s with preset %s", args[0], label)}
}

// StatusCmd sets the sub-status of a pending order.
// Args: [order_ref, hint_code]
func StatusCmd(ctx context.Context, svc *rp.Service, args []string) Result {
	if len(args) < 2 {
		return Result{Error: errors.New("usage: status <ref> <hintCode>")}
	}

	id, res, ok := parseRef(args[0])
	if !ok {
		return res
	}

	status, err := order.ParseSubStatus(args[1])
	if err != nil {
		valid := make([]string, 0, len(order.SubStatuses()))
		for _, st := range order.SubStatuses() {
			valid = append(valid, string(st))
		}
		return Result{Error: fmt.Errorf("hint code must be one of: %s", strings.Join(valid, ", "))}
	}

	if err := svc.AdvanceSubStatus(ctx, id, status); err != nil {
		return orderError(args[0], err)
	}
	return Result{Message: fmt.Sprintf("Order %s is now %s", args[0], status)}
}

func parseRef(ref string) (uuid.UUID, Result, bool) {
	id, err := rp.ParseOrderRef(ref)
	if err != nil {
		return uuid.Nil, Result{Error: fmt.Errorf("%q is not an order reference", ref)}, false
	}
	return id, Result{}, true
}

func orderError(ref string, err error) Result {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return Result{Error: fmt.Errorf("order %s not found", ref)}
	case errors.Is(err, order.ErrInvalidTransition):
		return Result{Error: fmt.Errorf("order %s is no longer pending", ref)}
	default:
		return Result{Error: err}
	}
}
