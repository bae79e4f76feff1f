package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData accumulates fields and timings for one operation and emits them
// on a single log entry. Safe for concurrent use.
type LogData struct {
	mu        sync.Mutex
	timeItems map[string]int64
	dataItems map[string]interface{}
	logger    *logrus.Logger
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		timeItems: make(map[string]int64),
		dataItems: make(map[string]interface{}),
		logger:    logger,
	}
}

// AddTiming starts a timer; calling the returned func records the elapsed
// milliseconds under entryName.
func (l *LogData) AddTiming(entryName string) func() {
	startTime := time.Now()

	return func() {
		timeSince := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.timeItems[entryName] = timeSince
	}
}

func (l *LogData) AddData(key string, value interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataItems[key] = value
}

func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := logrus.NewEntry(l.logger)
	for key, value := range l.dataItems {
		entry = entry.WithField(key, value)
	}
	for key, value := range l.timeItems {
		entry = entry.WithField(key, value)
	}
	return entry
}

// Wrap runs fn between Start and Complete/Error log lines named
// "{name}.Start", "{name}.Complete" and "{name}.Error", recording the total
// duration.
func Wrap(name string, log *logrus.Logger, fn func(*LogData) error) error {
	logData := NewLogData(log)
	log.Infof("%v.Start", name)

	endTimer := logData.AddTiming("duration")
	err := fn(logData)
	endTimer()

	if err != nil {
		logData.Log().WithError(err).Errorf("%v.Error", name)
		return err
	}
	logData.Log().Infof("%v.Complete", name)
	return nil
}
