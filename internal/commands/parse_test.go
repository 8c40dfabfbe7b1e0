package commands

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantNil  bool
		wantName string
		wantArgs []string
	}{
		{
			name:    "empty string",
			input:   "",
			wantNil: true,
		},
		{
			name:    "whitespace only",
			input:   "   \t\n  ",
			wantNil: true,
		},
		{
			name:     "single command",
			input:    "origins",
			wantName: "origins",
			wantArgs: []string{},
		},
		{
			name:     "command with args",
			input:    "orders office",
			wantName: "orders",
			wantArgs: []string{"office"},
		},
		{
			name:     "command with multiple args",
			input:    "complete 7c40b5c9-fa74-49cf-b98c-bfe651f9a7c6 199001011234 Jane Doe",
			wantName: "complete",
			wantArgs: []string{"7c40b5c9-fa74-49cf-b98c-bfe651f9a7c6", "199001011234", "Jane", "Doe"},
		},
		{
			name:     "uppercase normalized to lowercase",
			input:    "ORIGINS",
			wantName: "origins",
			wantArgs: []string{},
		},
		{
			name:     "args keep their case",
			input:    "Status abc userSign",
			wantName: "status",
			wantArgs: []string{"abc", "userSign"},
		},
		{
			name:     "leading/trailing whitespace trimmed",
			input:    "  help  ",
			wantName: "help",
			wantArgs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Parse(%q) = %+v, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q) = nil", tt.input)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if len(got.Args) != len(tt.wantArgs) {
				t.Fatalf("Args = %v, want %v", got.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if got.Args[i] != tt.wantArgs[i] {
					t.Errorf("Args[%d] = %q, want %q", i, got.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestCommandClassification(t *testing.T) {
	tests := []struct {
		name         string
		wantQuery    bool
		wantMutation bool
	}{
		{CmdHelp, true, false},
		{CmdOrigins, true, false},
		{CmdOrders, true, false},
		{CmdPresets, true, false},
		{CmdIdentity, true, false},
		{CmdComplete, false, true},
		{CmdQuick, false, true},
		{CmdStatus, false, true},
		{"unknown", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &Command{Name: tt.name}
			if cmd.IsQuery() != tt.wantQuery {
				t.Errorf("IsQuery() = %v, want %v", cmd.IsQuery(), tt.wantQuery)
			}
			if cmd.IsMutation() != tt.wantMutation {
				t.Errorf("IsMutation() = %v, want %v", cmd.IsMutation(), tt.wantMutation)
			}
			if cmd.IsValid() != (tt.wantQuery || tt.wantMutation) {
				t.Errorf("IsValid() = %v", cmd.IsValid())
			}
		})
	}
}
