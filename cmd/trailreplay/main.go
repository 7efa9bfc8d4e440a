// Package main replays a pointer recording through the trail renderer on a
// simulated clock and reports per-frame buffer and draw statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/pthm-cable/afterglow/config"
	"github.com/pthm-cable/afterglow/input"
	"github.com/pthm-cable/afterglow/loop"
	"github.com/pthm-cable/afterglow/telemetry"
	"github.com/pthm-cable/afterglow/trail"
)

// summary accumulates totals over the whole replay.
type summary struct {
	frames      uint64
	events      int
	segments    int
	evicted     int
	peakSamples int
	peakAt      time.Duration
}

func (s *summary) add(info loop.FrameInfo) {
	s.frames++
	s.events += info.Events
	s.segments += info.Segments
	s.evicted += info.Evicted
	if info.Samples > s.peakSamples {
		s.peakSamples = info.Samples
		s.peakAt = info.Now
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	fps := flag.Int("fps", 60, "Simulated frame rate")
	outputDir := flag.String("out", "", "Output directory for perf CSV (empty = none)")
	maxFrames := flag.Int("max-frames", 100000, "Stop after N frames")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: trailreplay [flags] recording.csv")
	}
	if *fps <= 0 {
		log.Fatalf("fps must be positive, got %d", *fps)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	rows, err := input.LoadRecording(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to load recording: %v", err)
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		log.Printf("failed to write config snapshot: %v", err)
	}

	// Replay and renderer share one simulated clock so runs are repeatable.
	clock := &loop.ManualClock{}
	base := time.Unix(0, 0)
	replay := input.NewReplay(rows, func() time.Time { return base.Add(clock.Now()) })

	surf := trail.NewRecordingSurface(cfg.Screen.Width, cfg.Screen.Height)
	r := trail.NewRenderer(surf, trail.Options{
		MaxAge:     cfg.Derived.MaxAge,
		StepPx:     cfg.Trail.StepPx,
		LineWidth:  float32(cfg.Trail.LineWidth),
		Color:      cfg.Derived.TrailColor,
		MaxSamples: cfg.Trail.MaxSamples,
	})

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	var sum summary

	l := loop.New(r, nil, clock, replay)
	l.OnFrame = func(info loop.FrameInfo) {
		sum.add(info)
		perf.Record(telemetry.FrameSample{
			Interval: time.Second / time.Duration(*fps),
			Poll:     info.Poll,
			Render:   info.Render,
			Events:   info.Events,
			Samples:  info.Samples,
			Segments: info.Segments,
			Evicted:  info.Evicted,
		})
		if perf.Full() {
			if err := output.WritePerf(perf.Stats(), sum.frames); err != nil {
				log.Printf("failed to write perf: %v", err)
			}
			perf.Reset()
		}
	}

	frame := time.Second / time.Duration(*fps)
	start := time.Now()
	for i := 0; i < *maxFrames; i++ {
		if _, ok := l.Step(); !ok {
			break
		}
		if replay.Done() && r.Buffer().Len() == 0 {
			break
		}
		clock.Advance(frame)
	}
	if perf.Frames() > 0 {
		if err := output.WritePerf(perf.Stats(), sum.frames); err != nil {
			log.Printf("failed to write perf: %v", err)
		}
	}

	fmt.Printf("recording:     %s (%d rows, %v)\n", flag.Arg(0), len(rows), replay.Duration())
	fmt.Printf("frames:        %d at %d fps (%v simulated, %v wall)\n",
		sum.frames, *fps, clock.Now(), time.Since(start).Round(time.Millisecond))
	fmt.Printf("events:        %d\n", sum.events)
	fmt.Printf("segments:      %d drawn, %.1f per frame\n", sum.segments, perFrame(sum.segments, sum.frames))
	fmt.Printf("evicted:       %d\n", sum.evicted)
	fmt.Printf("peak buffer:   %d samples at %v\n", sum.peakSamples, sum.peakAt)
	fmt.Printf("cap drops:     %d\n", r.Dropped())
	if dir := output.Dir(); dir != "" {
		fmt.Printf("perf csv:      %s\n", dir)
	}
}

func perFrame(n int, frames uint64) float64 {
	if frames == 0 {
		return 0
	}
	return float64(n) / float64(frames)
}
