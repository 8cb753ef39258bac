package logging

import (
	"context"
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/terraskye/commerce/eventsourcing"
)

// WithCommandLogging wraps a CommandHandler so every dispatch is logged with
// the command type and aggregate id, the stream version reached on success,
// and the error on failure.
func WithCommandLogging[C eventsourcing.Command](logger *logrus.Entry, next eventsourcing.CommandHandler[C]) eventsourcing.CommandHandler[C] {
	return func(ctx context.Context, command C) (eventsourcing.AppendResult, error) {
		l := logger.WithFields(logrus.Fields{
			"command":      reflect.TypeOf(command).String(),
			"aggregate-id": command.AggregateID(),
		})

		l.Debug("dispatching command")

		result, err := next(ctx, command)
		if err != nil {
			l.WithError(err).Error("command dispatch failed")
			return result, err
		}

		l.WithField("stream-version", result.NextExpectedVersion).Info("command dispatched")
		return result, nil
	}
}
