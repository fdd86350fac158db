// Copyright 2013 Richard Lehane. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfb

import (
	"fmt"
	"log"
)

// Severity grades a structural deviation from MS-CFB found while parsing
// a container. The three levels are totally ordered: a Fatal defect is
// also an Error is also a Warning.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Defect is the error type raised when a structural deviation's severity
// meets or exceeds a Reporter's configured minimum.
type Defect struct {
	Severity Severity
	Message  string
}

func (d *Defect) Error() string {
	return fmt.Sprintf("cfb: %s: %s", d.Severity, d.Message)
}

// DefectSink receives defects whose severity falls below a Reporter's
// minimum, so they can still be surfaced as diagnostics without aborting
// the parse.
type DefectSink interface {
	Warn(severity Severity, message string)
}

// logDefectSink is the default DefectSink. The example pack's own
// structured-error library (dsoprea/go-logging, wired elsewhere in this
// package for wrapping I/O failures) exposes only assertion-style
// helpers (PanicIf, Panicf) and error-wrapping helpers (Wrap, Errorf) -
// none of them a "log and continue" call, which is what a below-threshold
// defect needs. No repo in the retrieval pack demonstrates a pluggable
// leveled logger for that shape, so the default sink falls back to the
// standard library's log package.
type logDefectSink struct{}

func (logDefectSink) Warn(severity Severity, message string) {
	log.Printf("cfb: %s: %s", severity, message)
}

// DefaultDefectSink emits below-threshold defects via the standard
// library logger.
var DefaultDefectSink DefectSink = logDefectSink{}

// Reporter is the container-wide defect policy: given a severity and a
// message it either returns a *Defect (caller must abort) or forwards
// the message to its sink and returns nil.
type Reporter struct {
	minimum Severity
	sink    DefectSink
}

// NewReporter builds a Reporter with the given minimum raising severity.
// A nil sink falls back to DefaultDefectSink.
func NewReporter(minimum Severity, sink DefectSink) *Reporter {
	if sink == nil {
		sink = DefaultDefectSink
	}
	return &Reporter{minimum: minimum, sink: sink}
}

func (r *Reporter) report(severity Severity, format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	if severity >= r.minimum {
		return &Defect{Severity: severity, Message: message}
	}
	r.sink.Warn(severity, message)
	return nil
}

// Fatal reports a Fatal-grade defect. Since Fatal is the highest
// severity it always raises, regardless of the Reporter's minimum.
func (r *Reporter) Fatal(format string, args ...interface{}) error {
	return r.report(SeverityFatal, format, args...)
}

// Error reports an Error-grade defect.
func (r *Reporter) Error(format string, args ...interface{}) error {
	return r.report(SeverityError, format, args...)
}

// Warning reports a Warning-grade defect.
func (r *Reporter) Warning(format string, args ...interface{}) error {
	return r.report(SeverityWarning, format, args...)
}
