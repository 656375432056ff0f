// Package mqtt defines how controller steps are published to a broker.
package mqtt

import (
	"context"
	"errors"

	"github.com/kilianp07/adms/core/events"
	"github.com/kilianp07/adms/core/logger"
	"github.com/kilianp07/adms/core/model"
)

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt client not connected")

// Publisher sends action records to external consumers.
type Publisher interface {
	// PublishAction publishes a bare action record.
	PublishAction(rec model.ActionRecord) error
	// PublishStep publishes a step event including its run identifier.
	PublishStep(ev events.StepEvent) error
	Disconnect()
}

// NopPublisher discards everything.
type NopPublisher struct{}

func (NopPublisher) PublishAction(model.ActionRecord) error { return nil }
func (NopPublisher) PublishStep(events.StepEvent) error     { return nil }
func (NopPublisher) Disconnect()                            {}

// Forward publishes every event received on sub until the channel closes or
// ctx is cancelled. Publish errors are logged and skipped.
func Forward(ctx context.Context, sub <-chan events.StepEvent, pub Publisher, log logger.Logger) {
	if log == nil {
		log = logger.NopLogger{}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if err := pub.PublishStep(ev); err != nil {
				log.Warnf("publish step %d of run %s: %v", ev.Seq, ev.RunID, err)
			}
		}
	}
}
