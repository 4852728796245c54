package notify

import (
	"context"

	"go.uber.org/zap"
)

// Emitter forwards a frame to another realtime channel, such as the
// upstream backend's.
type Emitter interface {
	Emit(event string, data interface{}) error
}

// Notifier publishes refresh hints after mutations.
type Notifier struct {
	broker   Broker
	upstream Emitter
	logger   *zap.Logger
}

// NewNotifier builds a Notifier on broker. upstream may be nil.
func NewNotifier(broker Broker, upstream Emitter, logger *zap.Logger) *Notifier {
	return &Notifier{broker: broker, upstream: upstream, logger: logger.Named("notify")}
}

// ConfigChanged tells every session that can see branch to re-fetch its
// configuration list, and mirrors the change upstream as config-updated.
func (n *Notifier) ConfigChanged(ctx context.Context, branch string) error {
	if n.upstream != nil {
		if err := n.upstream.Emit(EventConfigUpdated, BranchHint{Branch: branch}); err != nil && err != ErrNotConnected {
			n.logger.Warn("emit upstream config-updated", zap.String("branch", branch), zap.Error(err))
		}
	}
	return n.publish(ctx, ConfigRefresh(branch))
}

// FeedbackChanged tells sessions that can see branch to re-fetch summaries.
func (n *Notifier) FeedbackChanged(ctx context.Context, branch string) error {
	return n.publish(ctx, FeedbackRefresh(branch))
}

// Relay forwards a payload-free event to every local session.
func (n *Notifier) Relay(ctx context.Context, event string) error {
	return n.publish(ctx, Broadcast(event))
}

func (n *Notifier) publish(ctx context.Context, m Message) error {
	if err := n.broker.Publish(ctx, m); err != nil {
		n.logger.Warn("publish refresh hint", zap.String("event", m.Frame.Event), zap.Error(err))
		return err
	}
	return nil
}
