// pkg/logger/paths.go

package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
)

const logFileName = "idpuser.log"

// PlatformLogPaths returns candidate log paths in order of priority.
func PlatformLogPaths() []string {
	var paths []string
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		paths = append(paths, filepath.Join(state, "idpuser", logFileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "state", "idpuser", logFileName))
	}
	return append(paths, filepath.Join(os.TempDir(), "idpuser", logFileName))
}

// GetLogFileWriter opens path for appending, creating the directory with owner-only permissions.
func GetLogFileWriter(path string) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.AddSync(file), nil
}

func openLogFile(override string) (string, zapcore.WriteSyncer, error) {
	candidates := PlatformLogPaths()
	if override != "" {
		candidates = []string{override}
	}
	for _, path := range candidates {
		if w, err := GetLogFileWriter(path); err == nil {
			return path, w, nil
		}
	}
	return "", nil, fmt.Errorf("no writable log path found")
}
