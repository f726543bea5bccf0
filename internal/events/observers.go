package events

import "log"

// LoggingObserver logs every event. Useful in development and as a liveness
// check for the event feed.
type LoggingObserver struct {
	verbose bool
}

// NewLoggingObserver creates a logging observer. With verbose set, payloads
// are logged too.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{verbose: verbose}
}

// OnEvent logs the event.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[LoggingObserver] %s: %+v", event.Type, event.Data)
	} else {
		log.Printf("[LoggingObserver] %s", event.Type)
	}
	return nil
}

// Name returns the observer's name.
func (o *LoggingObserver) Name() string { return "LoggingObserver" }

// ShouldHandle returns true for every event type.
func (o *LoggingObserver) ShouldHandle(string) bool { return true }
