package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/rs/zerolog"
)

// InitSecretsDB opens the secrets database in dir. An empty dir opens an
// in-memory database whose content is lost when the process exits.
func InitSecretsDB(log zerolog.Logger, dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(newLogger(log))
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(newLogger(log))
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("could not open secrets db (dir=%q): %w", dir, err)
	}
	return db, nil
}

// logger adapts zerolog to badger's logging interface.
type logger struct {
	log zerolog.Logger
}

func newLogger(log zerolog.Logger) *logger {
	return &logger{log: log.With().Str("component", "badger").Logger()}
}

func (l *logger) Errorf(msg string, args ...interface{}) {
	l.log.Error().Msgf(msg, args...)
}

func (l *logger) Warningf(msg string, args ...interface{}) {
	l.log.Warn().Msgf(msg, args...)
}

func (l *logger) Infof(msg string, args ...interface{}) {
	l.log.Debug().Msgf(msg, args...)
}

func (l *logger) Debugf(msg string, args ...interface{}) {
	l.log.Trace().Msgf(msg, args...)
}
