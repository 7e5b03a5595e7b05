package config_test

import (
	"testing"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/config"
)

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []int64
		wantNil bool
	}{
		{
			name:    "empty input allows all",
			input:   "",
			wantNil: true,
		},
		{
			name:    "whitespace only allows all",
			input:   "   ",
			wantNil: true,
		},
		{
			name:  "single id",
			input: "100",
			want:  []int64{100},
		},
		{
			name:  "multiple ids with spaces",
			input: " 100, 200 ,300",
			want:  []int64{100, 200, 300},
		},
		{
			name:  "negative group ids",
			input: "-1001234567890,-42",
			want:  []int64{-1001234567890, -42},
		},
		{
			name:  "trailing comma ignored",
			input: "100,200,",
			want:  []int64{100, 200},
		},
		{
			name:    "malformed entry falls back to allow all",
			input:   "100,abc,300",
			wantNil: true,
		},
		{
			name:    "lone garbage falls back to allow all",
			input:   "not-a-number",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			policy := config.ParsePolicy(tt.input)
			if tt.wantNil {
				if policy != nil {
					t.Fatalf("ParsePolicy(%q) = %v, want nil", tt.input, policy)
				}
				return
			}
			if len(policy) != len(tt.want) {
				t.Fatalf("ParsePolicy(%q) has %d entries, want %d", tt.input, len(policy), len(tt.want))
			}
			for _, id := range tt.want {
				if !policy.Allows(id) {
					t.Errorf("policy should allow %d", id)
				}
			}
		})
	}
}

func TestGroupPolicyAllows(t *testing.T) {
	t.Parallel()

	var open config.GroupPolicy
	if !open.Allows(12345) {
		t.Error("nil policy must allow every chat")
	}

	restricted := config.ParsePolicy("100,200")
	if !restricted.Allows(100) {
		t.Error("restricted policy must allow listed chat 100")
	}
	if restricted.Allows(300) {
		t.Error("restricted policy must reject unlisted chat 300")
	}
}

func TestParsePolicyStrictReportsError(t *testing.T) {
	t.Parallel()

	if _, err := config.ParsePolicyStrict("100,oops"); err == nil {
		t.Fatal("expected parse error for malformed list")
	}
	if policy, err := config.ParsePolicyStrict("100"); err != nil || !policy.Allows(100) {
		t.Fatalf("unexpected result for valid list: %v, %v", policy, err)
	}
}
