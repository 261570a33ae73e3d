// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Logger configuration
type Config struct {
	LogsDirectory string
	LogFileFormat string // fmt pattern taking the date, e.g. "storefront_%s.log"
	TimeZone      string
	Level         string // DEBUG, INFO, WARN or ERROR
	Console       bool   // also write to stdout
}

// Log levels in increasing severity.
const (
	LevelDebug int32 = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[string]int32{
	"DEBUG": LevelDebug,
	"INFO":  LevelInfo,
	"WARN":  LevelWarn,
	"ERROR": LevelError,
	"FATAL": LevelFatal,
}

var (
	initialized int32 // 0 = not initialized, 1 = initialized
	minLevel    int32 = LevelInfo
	logger      *log.Logger
	logFile     *os.File
	timeZone    = time.Local
	logFilePath string
	mu          sync.Mutex // protect against concurrent initialization
)

// ParseLevel maps a level name to its value. Unknown names fall back to INFO.
func ParseLevel(name string) int32 {
	if lvl, ok := levelNames[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return lvl
	}
	return LevelInfo
}

// SetLevel changes the minimum level that gets written.
func SetLevel(name string) {
	atomic.StoreInt32(&minLevel, ParseLevel(name))
}

// SetupLogger initializes the logger with file and (optionally) console output.
func SetupLogger(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	if atomic.LoadInt32(&initialized) == 1 {
		return fmt.Errorf("logger already initialized")
	}

	if config.TimeZone != "" && config.TimeZone != "Local" {
		loc, err := time.LoadLocation(config.TimeZone)
		if err != nil {
			return fmt.Errorf("failed to load time zone %q: %w", config.TimeZone, err)
		}
		timeZone = loc
	}

	if config.LogFileFormat == "" {
		config.LogFileFormat = "storefront_%s.log"
	}

	if err := os.MkdirAll(config.LogsDirectory, 0775); err != nil {
		return fmt.Errorf("failed to create logs directory %q: %w", config.LogsDirectory, err)
	}

	logFileName := fmt.Sprintf(config.LogFileFormat, time.Now().In(timeZone).Format("2006-01-02"))

	// Respect whether LogFileFormat is an absolute path or not
	if filepath.IsAbs(logFileName) {
		logFilePath = logFileName
	} else {
		logFilePath = filepath.Join(config.LogsDirectory, logFileName)
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0664)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
	}
	logFile = f

	var out io.Writer = f
	if config.Console {
		out = io.MultiWriter(os.Stdout, f)
	}
	logger = log.New(out, "", 0)
	atomic.StoreInt32(&minLevel, ParseLevel(config.Level))

	atomic.StoreInt32(&initialized, 1)
	LogInfo("Logger initialized, writing to %s", logFilePath)
	return nil
}

// Close flushes and closes the log file. The package falls back to std log afterwards.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	atomic.StoreInt32(&initialized, 0)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func GetLogFilePath() string {
	return logFilePath
}

func IsInitialized() bool {
	return atomic.LoadInt32(&initialized) == 1
}

func LogMessage(level string, message string, v ...interface{}) {
	if levelNames[level] < atomic.LoadInt32(&minLevel) {
		return
	}

	formattedMsg := fmt.Sprintf(message, v...)
	if !IsInitialized() {
		log.Printf("[%s] %s", level, formattedMsg)
		return
	}

	_, file, line, _ := runtime.Caller(2)
	timestamp := time.Now().In(timeZone).Format("2006-01-02 15:04:05 MST")
	logger.Printf("[%s] %s %s:%d - %s", level, timestamp, filepath.Base(file), line, formattedMsg)
}

func LogDebug(message string, v ...interface{}) { LogMessage("DEBUG", message, v...) }
func LogInfo(message string, v ...interface{})  { LogMessage("INFO", message, v...) }
func LogWarn(message string, v ...interface{})  { LogMessage("WARN", message, v...) }
func LogError(message string, v ...interface{}) { LogMessage("ERROR", message, v...) }
func LogFatal(message string, v ...interface{}) {
	LogMessage("FATAL", message, v...)
	os.Exit(1)
}

func LogHTTPRequest(r *http.Request) {
	LogInfo("HTTP %s %s from %s", r.Method, r.URL.Path, GetClientIP(r))
}

func LogHTTPError(r *http.Request, status int, err error) {
	LogError("HTTP %d error for %s %s from %s: %v", status, r.Method, r.URL.Path, GetClientIP(r), err)
}

func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
