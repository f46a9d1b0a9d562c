package logging

import "context"

type nopLogger struct{}

// Nop returns a Logger that discards everything. Handy as a default for
// components whose caller did not supply a logger.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (nopLogger) With(args ...any) Logger                            { return nopLogger{} }
