// Package logger provides a thread-safe, levelled logger built on logrus.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each entry carries a timestamp, level, an optional component field
// (for example "worker-2" or "server"), and the message.
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("", "server started")
//	logger.Info("worker-1", "received job; executing")
//	logger.Error("server", "read failed: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	_ = l.SetFormat("json")
//	l.Debug("worker-0", "debug message")
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// # Thread Safety
//
// Level changes are guarded by a mutex and logrus serialises writes, so a
// Logger is safe for concurrent use.
package logger
