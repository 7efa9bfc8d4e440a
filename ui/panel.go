package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/afterglow/trail"
)

// Slider ranges for the settings panel.
const (
	MinMaxAgeMS    = 100
	MaxMaxAgeMS    = 3000
	MinLineWidth   = 1
	MaxLineWidth   = 12
	MinStepPx      = 0.5
	MaxStepPx      = 8
	panelWidth     = 260
	panelRowHeight = 38
)

// TrailSettings is the editable subset of trail options.
type TrailSettings struct {
	MaxAgeMS  float32
	LineWidth float32
	StepPx    float32
}

// SettingsFromOptions extracts panel values from renderer options.
func SettingsFromOptions(o trail.Options) TrailSettings {
	return TrailSettings{
		MaxAgeMS:  float32(o.MaxAge.Milliseconds()),
		LineWidth: o.LineWidth,
		StepPx:    float32(o.StepPx),
	}
}

// Apply writes the settings into o, clamped to the slider ranges.
func (s TrailSettings) Apply(o trail.Options) trail.Options {
	o.MaxAge = time.Duration(clamp(s.MaxAgeMS, MinMaxAgeMS, MaxMaxAgeMS)) * time.Millisecond
	o.LineWidth = clamp(s.LineWidth, MinLineWidth, MaxLineWidth)
	o.StepPx = float64(clamp(s.StepPx, MinStepPx, MaxStepPx))
	return o
}

// SettingsPanel is an on-screen editor for the live trail. It is only
// useful when the overlay window receives pointer input.
type SettingsPanel struct {
	renderer *Renderer
	trail    *trail.Renderer
	x, y     int32
	visible  bool
	showFPS  bool
}

// NewSettingsPanel creates a hidden panel editing tr.
func NewSettingsPanel(tr *trail.Renderer, x, y int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		trail:    tr,
		x:        x,
		y:        y,
	}
}

// Toggle switches panel visibility.
func (p *SettingsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *SettingsPanel) IsVisible() bool {
	return p.visible
}

// Draw handles the F1 toggle and renders the panel. Call inside a frame.
func (p *SettingsPanel) Draw() {
	if rl.IsKeyPressed(rl.KeyF1) {
		p.Toggle()
	}
	if p.showFPS {
		rl.DrawFPS(int32(rl.GetScreenWidth())-90, 10)
	}
	if !p.visible {
		return
	}

	r := p.renderer
	pad := float32(r.Theme.Padding)
	x, y := float32(p.x), float32(p.y)
	r.DrawPanel(p.x, p.y, panelWidth, panelRowHeight*5+int32(pad)*2)

	rl.DrawText("Trail", int32(x+pad), int32(y+pad), 16, rl.White)
	y += pad + 24

	cur := SettingsFromOptions(p.trail.Options())
	next := cur
	sliderW := float32(panelWidth) - pad*2 - 60

	next.MaxAgeMS = p.slider(x+pad, &y, sliderW, "Fade", fmt.Sprintf("%.0f ms", cur.MaxAgeMS), cur.MaxAgeMS, MinMaxAgeMS, MaxMaxAgeMS)
	next.LineWidth = p.slider(x+pad, &y, sliderW, "Width", fmt.Sprintf("%.1f", cur.LineWidth), cur.LineWidth, MinLineWidth, MaxLineWidth)
	next.StepPx = p.slider(x+pad, &y, sliderW, "Step", fmt.Sprintf("%.1f px", cur.StepPx), cur.StepPx, MinStepPx, MaxStepPx)

	if next != cur {
		p.trail.SetOptions(next.Apply(p.trail.Options()))
	}

	if gui.Button(rl.Rectangle{X: x + pad, Y: y, Width: 110, Height: 26}, "Clear trail") {
		p.trail.Reset()
	}
	if gui.Button(rl.Rectangle{X: x + pad + 120, Y: y, Width: 110, Height: 26}, toggleText(p.showFPS, "Hide FPS", "Show FPS")) {
		p.showFPS = !p.showFPS
	}
}

func (p *SettingsPanel) slider(x float32, y *float32, w float32, label, value string, cur, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 12, p.renderer.Theme.SectionHeader)
	rl.DrawText(value, int32(x+w+8), int32(*y+14), 12, rl.LightGray)
	v := gui.SliderBar(rl.Rectangle{X: x, Y: *y + 14, Width: w, Height: 16}, "", "", cur, lo, hi)
	*y += panelRowHeight
	return v
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
