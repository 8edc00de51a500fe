package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderHeaderShowsStats(t *testing.T) {
	h := RenderHeader("Tundratown", HeaderStats{Currency: 750, Rank: "Officer", FocusMinutes: 90}, 100)
	assert.Contains(t, h, "MetroFocus")
	assert.Contains(t, h, "Tundratown")
	assert.Contains(t, h, "$750")
	assert.Contains(t, h, "Officer")
	assert.Contains(t, h, "90 min")
}

func TestRenderHeaderDropsStatsWhenNarrow(t *testing.T) {
	h := RenderHeader("Sahara Square Hustle", HeaderStats{Currency: 750, Rank: "Detective", FocusMinutes: 90}, MinWidth)
	assert.NotContains(t, h, "90 min")
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", HeaderStats{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.Contains(t, frame, "Quit")
}
