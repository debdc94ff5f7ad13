package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// doneSuffix is appended to a stage line once the stage has finished.
const doneSuffix = ", done."

// ProgressTracker manages progress state across stages.
// It is safe for concurrent use.
type ProgressTracker struct {
	mu         sync.RWMutex
	stage      Stage
	current    int
	total      int
	stageStart time.Time
	startTime  time.Time
	now        func() time.Time
}

// ProgressStats contains a snapshot of current progress.
type ProgressStats struct {
	Stage    Stage
	Current  int
	Total    int
	Progress float64
	Elapsed  time.Duration
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return newProgressTrackerWithClock(time.Now)
}

func newProgressTrackerWithClock(now func() time.Time) *ProgressTracker {
	start := now()
	return &ProgressTracker{
		stage:      StageCollecting,
		stageStart: start,
		startTime:  start,
		now:        now,
	}
}

// SetStage transitions to a new stage and restarts its clock.
func (p *ProgressTracker) SetStage(stage Stage, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage = stage
	p.total = total
	p.current = 0
	p.stageStart = p.now()
}

// Update records progress within the current stage. Updates from
// concurrent workers may arrive out of order, so the count never moves
// backwards.
func (p *ProgressTracker) Update(event ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if event.Stage != p.stage {
		p.stage = event.Stage
		p.current = 0
		p.stageStart = p.now()
	}
	if event.Total > 0 {
		p.total = event.Total
	}
	if event.Current > p.current {
		p.current = event.Current
	}
}

// Progress returns current progress (0.0-1.0). A stage with a known total
// of zero is complete by definition.
func (p *ProgressTracker) Progress() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.progressLocked()
}

func (p *ProgressTracker) progressLocked() float64 {
	if p.stage == StageCollecting {
		return 0
	}
	if p.total == 0 {
		return 1
	}
	pct := float64(p.current) / float64(p.total)
	if pct > 1 {
		pct = 1
	}
	return pct
}

// Stats returns a snapshot of the current progress.
func (p *ProgressTracker) Stats() ProgressStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressStats{
		Stage:    p.stage,
		Current:  p.current,
		Total:    p.total,
		Progress: p.progressLocked(),
		Elapsed:  p.now().Sub(p.stageStart),
	}
}

// TotalElapsed returns time since the tracker was created.
func (p *ProgressTracker) TotalElapsed() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.now().Sub(p.startTime)
}

// Line renders the stage's progress line without styling, e.g.
//
//	Collecting documents: 1,204 | elapsed: 00:00:02
//	Indexing documents: 3 (100%) | elapsed: 00:00:00
func (s ProgressStats) Line() string {
	count := humanize.Comma(int64(s.Current))
	if s.Stage == StageCollecting {
		return fmt.Sprintf("%s: %s | elapsed: %s", s.Stage, count, formatElapsed(s.Elapsed))
	}
	return fmt.Sprintf("%s: %s (%d%%) | elapsed: %s",
		s.Stage, count, int(s.Progress*100), formatElapsed(s.Elapsed))
}

// formatElapsed formats a duration as HH:MM:SS.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(100 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	d = d.Round(time.Second)
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}

// summaryLine renders the completion summary shown after a run.
func summaryLine(stats CompletionStats) string {
	noun := "documents"
	if stats.Documents == 1 {
		noun = "document"
	}
	return fmt.Sprintf("Indexed %s %s (%s) into %s in %s",
		humanize.Comma(int64(stats.Documents)), noun,
		humanize.Bytes(stats.Bytes), stats.Output, formatDuration(stats.Duration))
}
