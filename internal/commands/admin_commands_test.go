package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCommandErrors(t *testing.T) {
	ctx := context.Background()
	svc := setupCmdTestService(t)
	ref := svc.StartAuth(ctx, officeIP).OrderRef
	missing := uuid.NewString()

	tests := []struct {
		name        string
		run         func() Result
		errContains string
	}{
		{"orders no args", func() Result { return OrdersCmd(svc, nil) }, "usage"},
		{"orders unknown alias", func() Result { return OrdersCmd(svc, []string{"nowhere"}) }, "neither an IP"},
		{"complete no args", func() Result { return CompleteCmd(ctx, svc, []string{ref}) }, "usage"},
		{"complete bad ref", func() Result { return CompleteCmd(ctx, svc, []string{"xyz", "1", "A"}) }, "not an order reference"},
		{"complete unknown order", func() Result { return CompleteCmd(ctx, svc, []string{missing, "1", "A"}) }, "not found"},
		{"quick no args", func() Result { return QuickCmd(ctx, svc, []string{ref}) }, "usage"},
		{"quick unknown preset", func() Result { return QuickCmd(ctx, svc, []string{ref, "Nobody"}) }, "no preset"},
		{"status no args", func() Result { return StatusCmd(ctx, svc, nil) }, "usage"},
		{"status bad code", func() Result { return StatusCmd(ctx, svc, []string{ref, "expiredTransaction"}) }, "must be one of"},
		{"status unknown order", func() Result { return StatusCmd(ctx, svc, []string{missing, "userSign"}) }, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.run()
			if result.Error == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(result.Error.Error(), tt.errContains) {
				t.Errorf("expected error containing %q, got %q", tt.errContains, result.Error.Error())
			}
		})
	}
}

func TestQuickCmd_MultiWordLabel(t *testing.T) {
	ctx := context.Background()
	svc := setupCmdTestService(t)
	ref := svc.StartAuth(ctx, officeIP).OrderRef

	result := QuickCmd(ctx, svc, []string{ref, "Test", "user"})
	if result.Error != nil {
		t.Fatalf("QuickCmd() error: %v", result.Error)
	}

	result = StatusCmd(ctx, svc, []string{ref, "userSign"})
	if result.Error == nil || !strings.Contains(result.Error.Error(), "no longer pending") {
		t.Errorf("status on completed order = %+v, want no longer pending", result)
	}
}

func TestOrigins_Empty(t *testing.T) {
	svc := setupCmdTestService(t)

	if msg := OriginsCmd(svc).Message; !strings.Contains(msg, "No pending orders") {
		t.Errorf("OriginsCmd() = %q", msg)
	}
	if msg := OrdersCmd(svc, []string{"10.9.9.9"}).Message; !strings.Contains(msg, "No pending orders for 10.9.9.9") {
		t.Errorf("OrdersCmd() = %q", msg)
	}
}
