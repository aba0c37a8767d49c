package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeInjector
	TypeChain
	TypeGet
	TypePost
)

var logFiles = map[TypeEnum]string{
	TypeApp:      "app.log",
	TypeInjector: "injector.log",
	TypeChain:    "chain.log",
	TypeGet:      "http.log",
	TypePost:     "http.log",
}

func (t TypeEnum) String() string {
	switch t {
	case TypeApp:
		return "app"
	case TypeInjector:
		return "injector"
	case TypeChain:
		return "chain"
	case TypeGet:
		return "get"
	case TypePost:
		return "post"
	}
	return "unknown"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
}

func (l *LogProvider) get(t TypeEnum) *zerolog.Logger {
	logger, ok := l.loggers[t]
	if !ok {
		logger = l.loggers[TypeApp]
	}
	return &logger
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Error().Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Warn().Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Debug().Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Info().Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.get(t).Fatal().Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Close()
	}
	l.files = nil
}

// NewLogProvider opens one log file per category under conf.Logger.Dir.
// Categories sharing a file name share the file handle.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	provider := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger)}
	opened := make(map[string]*os.File)
	for t, name := range logFiles {
		file, ok := opened[name]
		if !ok {
			file, err = os.OpenFile(filepath.Join(conf.Logger.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
			if err != nil {
				provider.Close()
				return nil, err
			}
			opened[name] = file
			provider.files = append(provider.files, file)
		}

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stdout})
		}
		provider.loggers[t] = zerolog.New(out).Level(level).With().
			Timestamp().
			Str("type", t.String()).
			Logger()
	}

	return provider, nil
}
