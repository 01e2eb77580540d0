package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Default NATS configuration constants.
const (
	defaultSubjectPrefix = "crewcast.audit"
	defaultConnectWait   = 10 * time.Second
	reconnectWait        = 1 * time.Second
)

// NATSSink publishes audit records to NATS subjects under a configured
// prefix: <prefix>.edits and <prefix>.sessions.
type NATSSink struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        logger.Logger
}

// NATSOption applies a configuration option to the NATSSink.
type NATSOption func(*NATSSink)

// WithSubjectPrefix overrides the audit subject prefix.
func WithSubjectPrefix(prefix string) NATSOption {
	return func(s *NATSSink) {
		if prefix != "" {
			s.subjectPrefix = prefix
		}
	}
}

// NewNATSSink connects to the NATS server at url and returns a publishing
// sink. Reconnects are unlimited; disconnects are logged, not fatal.
func NewNATSSink(url string, opts ...NATSOption) (*NATSSink, error) {
	s := &NATSSink{
		subjectPrefix: defaultSubjectPrefix,
		logger:        logger.Get().Named("audit"),
	}
	for _, opt := range opts {
		opt(s)
	}

	conn, err := nats.Connect(url,
		nats.Timeout(defaultConnectWait),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn(context.Background(), "audit NATS disconnected", logger.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.logger.Info(context.Background(), "audit NATS reconnected", logger.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting audit sink: %w", err)
	}
	s.conn = conn
	return s, nil
}

// RecordEdit publishes the edit payload plus its resulting prediction.
func (s *NATSSink) RecordEdit(ctx context.Context, cmd model.EditCommand, result model.Prediction) error {
	rec := Record{
		ID:        uuid.NewString(),
		Kind:      KindEdit,
		Timestamp: time.Now().UTC(),
		Edit:      &cmd,
		Result:    &result,
	}
	return s.publish(ctx, s.subjectPrefix+".edits", rec)
}

// RecordSession publishes a connect or disconnect record.
func (s *NATSSink) RecordSession(ctx context.Context, kind, sessionID string) error {
	rec := Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
	return s.publish(ctx, s.subjectPrefix+".sessions", rec)
}

func (s *NATSSink) publish(ctx context.Context, subject string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		metrics.RecordAuditError()
		return fmt.Errorf("encoding audit record: %w", err)
	}
	if err := s.conn.Publish(subject, payload); err != nil {
		metrics.RecordAuditError()
		s.logger.Warn(ctx, "audit publish failed",
			logger.String("subject", subject),
			logger.Error(err),
		)
		return fmt.Errorf("publishing audit record: %w", err)
	}
	metrics.RecordAuditPublished()
	return nil
}

// Close drains and closes the connection.
func (s *NATSSink) Close() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Drain(); err != nil {
		return fmt.Errorf("draining audit connection: %w", err)
	}
	return nil
}
