package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/ohakidev/binance-alpha-tool-sub001/internal/notify"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"A.B", "A\\.B"},
		{"50% up!", "50% up\\!"},
		{"a_b*c", "a\\_b\\*c"},
		{"x-y=z", "x\\-y\\=z"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := escapeMarkdownV2(tt.input); got != tt.expected {
			t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	listing := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		msg      notify.Message
		contains []string
	}{
		{
			name: "discovery",
			msg: notify.Message{
				Kind:        notify.KindDiscovery,
				Symbol:      "AAA",
				Name:        "Alpha Token",
				Chain:       "BSC",
				Status:      "UPCOMING",
				ListingTime: listing,
			},
			contains: []string{"New Alpha airdrop", "*AAA*", "BSC", "UPCOMING", "2025\\-06\\-15 14:30"},
		},
		{
			name: "reminder includes minutes",
			msg: notify.Message{
				Kind:         notify.KindReminder,
				Symbol:       "BBB",
				Chain:        "SOL",
				ListingTime:  listing,
				MinutesUntil: 15,
			},
			contains: []string{"Listing reminder", "*BBB*", "15 min"},
		},
		{
			name: "live",
			msg: notify.Message{
				Kind:   notify.KindLive,
				Symbol: "CCC",
				Chain:  "ETH",
			},
			contains: []string{"Now live", "*CCC*", "ETH"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMessage(tt.msg)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("message %q missing %q", got, want)
				}
			}
		})
	}
}

func TestFormatMessageDiscoveryWithoutListingTime(t *testing.T) {
	got := formatMessage(notify.Message{
		Kind:   notify.KindDiscovery,
		Symbol: "AAA",
		Name:   "Alpha Token",
		Chain:  "BSC",
	})
	if strings.Contains(got, "Listing:") {
		t.Errorf("unscheduled discovery should omit the listing line: %q", got)
	}
}
