package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the trail status shown under the settings panel.
type HUDData struct {
	Samples    int
	MaxSamples int // 0 = unbounded
	Segments   int
	Dropped    int
	FPS        int32
	Source     string
}

// Fill returns the buffer occupancy against the cap, or 0 when unbounded.
func (d HUDData) Fill() float32 {
	if d.MaxSamples <= 0 {
		return 0
	}
	return float32(d.Samples) / float32(d.MaxSamples)
}

// HUD renders the trail status panel.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a status panel at (x, y).
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	rows := int32(5)
	if data.MaxSamples > 0 {
		rows++
	}
	r.DrawPanel(h.x, h.y, h.width, rows*r.Theme.LineHeight+pad*2)

	x, y := h.x+pad, h.y+pad
	y = r.DrawLabelValue(x, y, "Source", data.Source)
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Samples", fmt.Sprintf("%d", data.Samples))
	y = r.DrawLabelValue(x, y, "Segments", fmt.Sprintf("%d", data.Segments))
	y = r.DrawLabelValue(x, y, "Dropped", fmt.Sprintf("%d", data.Dropped))
	if data.MaxSamples > 0 {
		r.DrawBar(x, y, "Buffer", data.Fill(), 0.9, h.width-pad*2)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
