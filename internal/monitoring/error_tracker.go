package monitoring

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrorSeverity represents error severity levels
type ErrorSeverity int

const (
	LOW ErrorSeverity = iota
	MEDIUM
	HIGH
	CRITICAL
)

// String returns string representation of error severity
func (es ErrorSeverity) String() string {
	switch es {
	case LOW:
		return "LOW"
	case MEDIUM:
		return "MEDIUM"
	case HIGH:
		return "HIGH"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorDetails represents one aggregated error, keyed by fingerprint.
type ErrorDetails struct {
	Fingerprint string    `json:"fingerprint"`
	Message     string    `json:"message"`
	Error       string    `json:"error"`
	Severity    string    `json:"severity"`
	Component   string    `json:"component"`
	Operation   string    `json:"operation"`
	Count       int       `json:"count"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
}

// ErrorSummary represents error summary for reporting
type ErrorSummary struct {
	Count       int       `json:"count"`
	LastOccured time.Time `json:"last_occured"`
	Severity    string    `json:"severity"`
	Component   string    `json:"component"`
	Message     string    `json:"message"`
}

// ErrorTracker aggregates render and service errors for the monitoring
// endpoint.
type ErrorTracker struct {
	errors    map[string]*ErrorDetails
	mutex     sync.RWMutex
	maxErrors int
	retention time.Duration
}

// NewErrorTracker creates a new error tracker
func NewErrorTracker(maxErrors int, retention time.Duration) *ErrorTracker {
	tracker := &ErrorTracker{
		errors:    make(map[string]*ErrorDetails),
		maxErrors: maxErrors,
		retention: retention,
	}

	go tracker.cleanupLoop()

	return tracker
}

// TrackError records an error occurrence, merging repeats by fingerprint.
func (et *ErrorTracker) TrackError(component, operation, message string, err error, severity ErrorSeverity) {
	fingerprint := fmt.Sprintf("%s|%s|%s", component, operation, message)
	now := time.Now()

	et.mutex.Lock()
	defer et.mutex.Unlock()

	if existing, ok := et.errors[fingerprint]; ok {
		existing.Count++
		existing.LastSeen = now
		if err != nil {
			existing.Error = err.Error()
		}
		return
	}

	if len(et.errors) >= et.maxErrors {
		et.evictOldestLocked()
	}

	details := &ErrorDetails{
		Fingerprint: fingerprint,
		Message:     message,
		Severity:    severity.String(),
		Component:   component,
		Operation:   operation,
		Count:       1,
		FirstSeen:   now,
		LastSeen:    now,
	}
	if err != nil {
		details.Error = err.Error()
	}
	et.errors[fingerprint] = details
}

// Summaries returns the tracked errors, most recent first.
func (et *ErrorTracker) Summaries() []ErrorSummary {
	et.mutex.RLock()
	defer et.mutex.RUnlock()

	summaries := make([]ErrorSummary, 0, len(et.errors))
	for _, details := range et.errors {
		summaries = append(summaries, ErrorSummary{
			Count:       details.Count,
			LastOccured: details.LastSeen,
			Severity:    details.Severity,
			Component:   details.Component,
			Message:     details.Message,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastOccured.After(summaries[j].LastOccured)
	})
	return summaries
}

// ErrorCount returns the number of distinct tracked errors.
func (et *ErrorTracker) ErrorCount() int {
	et.mutex.RLock()
	defer et.mutex.RUnlock()
	return len(et.errors)
}

func (et *ErrorTracker) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, details := range et.errors {
		if oldestKey == "" || details.LastSeen.Before(oldest) {
			oldestKey = key
			oldest = details.LastSeen
		}
	}
	if oldestKey != "" {
		delete(et.errors, oldestKey)
	}
}

func (et *ErrorTracker) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-et.retention)

		et.mutex.Lock()
		for key, details := range et.errors {
			if details.LastSeen.Before(cutoff) {
				delete(et.errors, key)
			}
		}
		et.mutex.Unlock()
	}
}
