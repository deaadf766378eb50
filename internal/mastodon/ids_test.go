package mastodon

import "testing"

func TestInjectedID(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		postID   string
		expected string
	}{
		{"personalized", StrategyPersonalized, "12345", "rec_12345"},
		{"cold start", StrategyColdStart, "12345", "cold_start_12345"},
		{"unknown strategy defaults to rec", "other", "9", "rec_9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InjectedID(tt.strategy, tt.postID); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSyntheticID(t *testing.T) {
	if got := SyntheticID("guest", 3); got != "corgi_synthetic_post_guest_3" {
		t.Errorf("Unexpected synthetic ID: %q", got)
	}
}

func TestIsMintedID(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"rec_123", true},
		{"cold_start_123", true},
		{"corgi_synthetic_post_guest_1", true},
		{"110285940163142865", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsMintedID(tt.id); got != tt.expected {
			t.Errorf("IsMintedID(%q) = %v, expected %v", tt.id, got, tt.expected)
		}
	}
}
