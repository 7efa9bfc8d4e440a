package app

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/afterglow/loop"
	"github.com/pthm-cable/afterglow/telemetry"
)

// onFrame records frame metrics, flushes them once per perf window and
// ends the run when a frame budget or a replay is exhausted.
func (a *App) onFrame(info loop.FrameInfo) {
	a.lastFrame = info
	a.perf.Record(telemetry.FrameSample{
		Poll:     info.Poll,
		Render:   info.Render,
		Events:   info.Events,
		Samples:  info.Samples,
		Segments: info.Segments,
		Evicted:  info.Evicted,
	})

	frames := info.Index + 1
	if window := uint64(a.cfg.Telemetry.PerfWindow); window > 0 && frames%window == 0 {
		a.flushPerf(frames)
	}

	if a.opts.MaxFrames > 0 && frames >= uint64(a.opts.MaxFrames) {
		a.stop("frame budget reached")
		return
	}
	if a.replay != nil && a.replay.Done() && info.Samples == 0 {
		a.stop("replay finished")
	}
}

// flushPerf writes the current window to perf.csv and, at most once per
// log interval, to the log.
func (a *App) flushPerf(frames uint64) {
	stats := a.perf.Stats()

	if a.opts.LogStats {
		now := time.Now()
		if now.Sub(a.lastLog) >= a.cfg.Derived.LogInterval {
			stats.LogStats()
			a.lastLog = now
		}
	}

	if a.output != nil {
		if err := a.output.WritePerf(stats, frames); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

func (a *App) stop(reason string) {
	if a.cancel == nil {
		return
	}
	slog.Info("stopping", "reason", reason, "frames", a.lastFrame.Index+1)
	a.cancel()
	a.cancel = nil
}
