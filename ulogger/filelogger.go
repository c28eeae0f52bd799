package ulogger

import (
	"fmt"
	"os"
)

// NewFileLogger returns a Logger backed by the zerolog wrapper, writing to
// "<service>.log" in the working directory ("ubsv.log" for an empty service
// name). It reuses ZLoggerWrapper rather than a bespoke encoder
// since file output and console output share the same line format, just a
// different io.Writer.
func NewFileLogger(service string, options ...Option) *ZLoggerWrapper {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	path := fmt.Sprintf("%s.log", service)
	if service == "" {
		path = "ubsv.log"
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// fall back to the configured writer (normally stdout) if the file
		// cannot be opened, rather than failing logger construction.
		f = nil
	}

	o := make([]Option, 0, len(options)+1)
	if f != nil {
		o = append(o, WithWriter(f))
	}
	o = append(o, options...)
	o = append(o, WithLoggerType("zerolog"))

	return NewZeroLogger(service, o...)
}
