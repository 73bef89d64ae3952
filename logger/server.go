package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServerLevel is the severity attached to log and exception records emitted by
// the processing service.
type ServerLevel int32

const (
	ServerDebug    ServerLevel = 0
	ServerInfo     ServerLevel = 1
	ServerWarning  ServerLevel = 2
	ServerError    ServerLevel = 3
	ServerCritical ServerLevel = 4
)

func (s ServerLevel) String() string {
	switch s {
	case ServerDebug:
		return "DEBUG"
	case ServerInfo:
		return "INFO"
	case ServerWarning:
		return "WARNING"
	case ServerError:
		return "ERROR"
	case ServerCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int32(s))
	}
}

// ZapLevel maps a service level onto zap. CRITICAL maps to error rather than
// fatal: a failing server request must never terminate the client process.
func (s ServerLevel) ZapLevel() zapcore.Level {
	switch {
	case s <= ServerDebug:
		return zap.DebugLevel
	case s == ServerInfo:
		return zap.InfoLevel
	case s == ServerWarning:
		return zap.WarnLevel
	default:
		return zap.ErrorLevel
	}
}

// Server writes a message received from the service. The entry carries
// origin=server and the original level name.
func (l *LoggerClient) Server(ctx context.Context, level ServerLevel, msg string, fields ...map[string]interface{}) {
	zapFields := l.withContext(ctx, nil, fields)
	zapFields = append(zapFields,
		zap.String("origin", "server"),
		zap.String("server_level", level.String()),
	)
	if ce := l.Zap.Check(level.ZapLevel(), msg); ce != nil {
		ce.Write(zapFields...)
	}
}
