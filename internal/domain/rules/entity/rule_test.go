package entity

import "testing"

func TestRuleValidate(t *testing.T) {
	attr := &ChainNode{Code: "spicy", Label: "辣度"}
	perf := &ChainNode{Code: "numbing", Label: "麻辣"}
	use := &ChainNode{Code: "late_night", Label: "夜宵"}
	style := &ChainNode{Code: "sichuan", Label: "川式"}

	cases := []struct {
		name string
		rule Rule
		want error
	}{
		{"attribute only", Rule{Category: "food", Attribute: attr, Status: RuleStatusActive}, nil},
		{"full chain", Rule{Category: "food", Attribute: attr, Performance: perf, Use: use, Style: style, Status: RuleStatusActive}, nil},
		{"missing category", Rule{Attribute: attr, Status: RuleStatusActive}, ErrEmptyCategory},
		{"missing attribute", Rule{Category: "food", Status: RuleStatusActive}, ErrMissingAttribute},
		{"use without performance", Rule{Category: "food", Attribute: attr, Use: use, Status: RuleStatusActive}, ErrBrokenChain},
		{"style without use", Rule{Category: "food", Attribute: attr, Performance: perf, Style: style, Status: RuleStatusActive}, ErrBrokenChain},
		{"bad status", Rule{Category: "food", Attribute: attr, Status: RuleStatus("on")}, ErrInvalidRuleStatus},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.rule.Validate(); got != c.want {
				t.Fatalf("Validate() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestChainDepth(t *testing.T) {
	attr := &ChainNode{Code: "a"}
	perf := &ChainNode{Code: "p"}

	if d := (&Rule{Attribute: attr}).ChainDepth(); d != 1 {
		t.Fatalf("depth = %d, want 1", d)
	}
	if d := (&Rule{Attribute: attr, Performance: perf}).ChainDepth(); d != 2 {
		t.Fatalf("depth = %d, want 2", d)
	}
	if d := (&Rule{}).ChainDepth(); d != 0 {
		t.Fatalf("depth = %d, want 0", d)
	}
}
