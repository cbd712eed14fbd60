// Package logger provides leveled, colorized logging for yeetfile CLI commands.
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details
//
// Without flags, only critical warnings and errors are shown.
//
// Commands create a Logger in their PersistentPreRun and pass it to
// internal functions:
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Uploading %d chunks", n)
package logger
