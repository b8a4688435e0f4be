package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger. Unknown levels fall back to info.
// pretty switches to a human-readable console writer.
func Init(level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetOutput redirects logs, keeping the current level.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).Level(log.GetLevel()).With().Timestamp().Logger()
}

// SetLevel changes the minimum level that is written.
func SetLevel(level zerolog.Level) {
	log = log.Level(level)
}

func Info(msg string, keyvals ...interface{}) {
	withFields(log.Info(), keyvals).Msg(msg)
}

func Infof(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

func Warn(msg string, keyvals ...interface{}) {
	withFields(log.Warn(), keyvals).Msg(msg)
}

func Error(msg string, keyvals ...interface{}) {
	withFields(log.Error(), keyvals).Msg(msg)
}

func Errorf(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

func Debug(msg string, keyvals ...interface{}) {
	withFields(log.Debug(), keyvals).Msg(msg)
}

func Debugf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}

// withFields turns alternating key/value pairs into event fields. A trailing
// key without a value is logged under "!BADKEY".
func withFields(e *zerolog.Event, keyvals []interface{}) *zerolog.Event {
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 >= len(keyvals) {
			e = e.Interface("!BADKEY", keyvals[i])
			break
		}
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		switch v := keyvals[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
