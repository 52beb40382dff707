package marionette

import "time"

// frameStats holds per-frame timing. Only populated in debug mode.
type frameStats struct {
	updateTime   time.Duration
	drawTime     time.Duration
	figures      int
	pendingLoads int
	frames       int
}

// statsInterval is how many drawn frames pass between stats lines.
const statsInterval = 300

// logStats emits a stats line every statsInterval frames at verbose level.
func (s *Stage) logStats() {
	s.stats.frames++
	if s.stats.frames%statsInterval != 0 {
		return
	}
	st := s.stats
	s.fw.Logf(LogLevelVerbose, "update: %v | draw: %v | figures: %d | pending loads: %d",
		st.updateTime, st.drawTime, st.figures, st.pendingLoads)
}
