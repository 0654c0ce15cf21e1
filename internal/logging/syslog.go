package logging

import (
	"fmt"
	"log/syslog"
	"sync"
)

// Emitter sends failure detail to an out-of-band alerting sink. Emission is
// best-effort: implementations must never fail the caller.
type Emitter interface {
	Emit(format string, args ...interface{})
}

// SyslogEmitter writes to the local system log under a fixed tag on the
// LOCAL0 facility. The writer is opened lazily on first use; if the system
// log is unreachable every Emit becomes a no-op, so syslog trouble cannot
// mask the caller's own exit status.
type SyslogEmitter struct {
	tag string

	mu     sync.Mutex
	opened bool
	w      *syslog.Writer
}

func NewSyslogEmitter(tag string) *SyslogEmitter {
	return &SyslogEmitter{tag: tag}
}

func (e *SyslogEmitter) Emit(format string, args ...interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opened {
		e.opened = true
		if w, err := syslog.New(syslog.LOG_ERR|syslog.LOG_LOCAL0, e.tag); err == nil {
			e.w = w
		}
	}
	if e.w == nil {
		return
	}
	_ = e.w.Err(fmt.Sprintf(format, args...))
}

// NopEmitter discards everything.
type NopEmitter struct{}

func (NopEmitter) Emit(string, ...interface{}) {}
