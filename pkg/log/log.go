// Package log provides the categorized, rate-limited diagnostic logger used
// throughout the core. Logging here is always diagnostic: nothing in this
// package ever participates in control flow or returns an error that a
// caller must handle.
package log

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Category tags a log line with the subsystem that produced it, mirroring
// the categorized logging macros of the original sensor/emulator source.
type Category int

const (
	General Category = iota
	Camera
	Memory
	CPU
	PPU
)

func (c Category) prefix() string {
	switch c {
	case Camera:
		return "[Camera]"
	case Memory:
		return "[Memory]"
	case CPU:
		return "[CPU]"
	case PPU:
		return "[PPU]"
	default:
		return "[EMU]"
	}
}

// Logger is the interface every component receives. It is constructed once
// per GameBoy instance and held as an ordinary field. A RateLimiter passed
// to InfofLimited may be a package-level variable of the calling package
// (package cartridge keeps one for camera register writes); its count is
// then shared by every core in the process.
type Logger interface {
	Infof(cat Category, format string, args ...interface{})
	Warnf(cat Category, format string, args ...interface{})
	Errorf(cat Category, format string, args ...interface{})
	Debugf(cat Category, format string, args ...interface{})

	// Limited logs at most once per n calls at this call site's limiter.
	InfofLimited(limiter *RateLimiter, cat Category, format string, args ...interface{})
}

type logrusLogger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus, writing to its default output.
func New() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Infof(cat Category, format string, args ...interface{}) {
	g.l.Infof(cat.prefix()+" "+format, args...)
}

func (g *logrusLogger) Warnf(cat Category, format string, args ...interface{}) {
	g.l.Warnf(cat.prefix()+" "+format, args...)
}

func (g *logrusLogger) Errorf(cat Category, format string, args ...interface{}) {
	g.l.Errorf(cat.prefix()+" "+format, args...)
}

func (g *logrusLogger) Debugf(cat Category, format string, args ...interface{}) {
	g.l.Debugf(cat.prefix()+" "+format, args...)
}

func (g *logrusLogger) InfofLimited(limiter *RateLimiter, cat Category, format string, args ...interface{}) {
	if limiter.shouldLog() {
		g.Infof(cat, format, args...)
	}
}

// RateLimiter throttles a single call site so a misbehaving ROM poking a
// hot register (palette writes, camera register pokes) cannot flood the
// sink. It holds an atomic counter rather than a mutex so it is cheap to
// check from tight per-cycle loops.
type RateLimiter struct {
	count uint64
	every uint64
}

// NewRateLimiter returns a limiter that allows one log line every n calls.
// n <= 1 logs every call.
func NewRateLimiter(every uint64) *RateLimiter {
	if every == 0 {
		every = 1
	}
	return &RateLimiter{every: every}
}

func (r *RateLimiter) shouldLog() bool {
	n := atomic.AddUint64(&r.count, 1)
	return (n-1)%r.every == 0
}
