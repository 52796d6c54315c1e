package wblog

import (
	"fmt"
	"log/syslog"

	"github.com/wishbone-run/wishbone/internal/event"
)

// Style selects where the _logs funnel's drained records end up (spec
// section 4.8's "_logs funnel"): a human-readable logrus sink on stdout, or
// a local syslog daemon.
type Style string

const (
	StyleStdout Style = "STDOUT"
	StyleSyslog Style = "SYSLOG"
)

// Sink writes LogRecord-shaped Events out via the selected Style. It is the
// terminal handler the router's _logs funnel drains into (spec section
// 4.8).
type Sink struct {
	style  Style
	logger *Logger
	writer *syslog.Writer
}

// NewSink builds a Sink. For StyleSyslog it dials the local syslog daemon
// eagerly; dial failures fall back to StyleStdout so a missing syslogd
// never blocks startup.
func NewSink(style Style, logger *Logger) (*Sink, error) {
	s := &Sink{style: style, logger: logger}
	if style == StyleSyslog {
		w, err := syslog.New(syslog.LOG_INFO, "wishbone")
		if err != nil {
			s.style = StyleStdout
		} else {
			s.writer = w
		}
	}
	return s, nil
}

// Handle writes a single LogRecord Event to the configured destination. It
// is the entry point the router's _logs background drainer (router.drainInto)
// calls per event.
func (s *Sink) Handle(e *event.Event) error {
	s.write(e)
	return nil
}

func (s *Sink) write(e *event.Event) {
	data, ok := e.Get("data")
	if !ok {
		return
	}
	rec, ok := data.(map[string]any)
	if !ok {
		return
	}

	level, _ := rec["level"].(int)
	module, _ := rec["module"].(string)
	message, _ := rec["message"].(string)
	message = Redact(message)
	sev := event.Severity(level)

	if s.style == StyleSyslog && s.writer != nil {
		s.writeSyslog(sev, module, message)
		return
	}

	entry := s.logger.Entry().WithField("source_module", module)
	switch {
	case sev <= event.SeverityError:
		entry.Error(message)
	case sev == event.SeverityWarning:
		entry.Warn(message)
	case sev == event.SeverityDebug:
		entry.Debug(message)
	default:
		entry.Info(message)
	}
}

func (s *Sink) writeSyslog(sev event.Severity, module, message string) {
	line := fmt.Sprintf("[%s] %s", module, message)
	switch {
	case sev <= event.SeverityCritical:
		_ = s.writer.Crit(line)
	case sev == event.SeverityError:
		_ = s.writer.Err(line)
	case sev == event.SeverityWarning:
		_ = s.writer.Warning(line)
	case sev == event.SeverityDebug:
		_ = s.writer.Debug(line)
	default:
		_ = s.writer.Info(line)
	}
}
