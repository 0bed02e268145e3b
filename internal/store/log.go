package store

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const logTimeLayout = "2006-01-02 15:04"

// StageLogMessage formats the body of a stage transition line.
func StageLogMessage(stage, message string) string {
	msg := "STAGE → " + strings.TrimSpace(stage)
	if m := strings.TrimSpace(message); m != "" {
		msg += " | " + m
	}
	return msg
}

func FormatLogLine(ts time.Time, message string) string {
	// Keep one entry per line.
	message = strings.ReplaceAll(strings.TrimSpace(message), "\n", " ")
	return fmt.Sprintf("[%s] %s\n", ts.Format(logTimeLayout), message)
}

// AppendLog appends a timestamped line to the project's Log.txt.
func (s Store) AppendLog(ref ProjectRef, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("log message is empty")
	}
	f, err := os.OpenFile(ref.LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(FormatLogLine(s.now(), message)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EnsureLog creates an empty Log.txt when missing and returns its path.
func (s Store) EnsureLog(ref ProjectRef) (string, error) {
	f, err := os.OpenFile(ref.LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	return ref.LogPath(), f.Close()
}
