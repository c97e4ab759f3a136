package notification

import (
	"context"
	"fmt"

	client "github.com/goverland-labs/goverland-platform-events/pkg/natsclient"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal/config"
	"github.com/connecthub-labs/connecthub-storage/internal/events"
)

const (
	groupName                = "notifications"
	maxPendingAckPerConsumer = 10
)

type closable interface {
	Close() error
}

// Consumer turns domain events into notification rows of the counterpart.
// Handler errors are returned to the broker so the event is redelivered.
type Consumer struct {
	conn      *nats.Conn
	service   *Service
	consumers []closable
}

func NewConsumer(nc *nats.Conn, s *Service) *Consumer {
	return &Consumer{
		conn:      nc,
		service:   s,
		consumers: make([]closable, 0),
	}
}

func (c *Consumer) proposalStatusChanged() func(events.ProposalStatusChanged) error {
	return func(payload events.ProposalStatusChanged) error {
		if err := c.service.handleProposalStatusChanged(context.TODO(), payload); err != nil {
			log.Error().Err(err).Str("proposal", payload.ProposalID.String()).Msg("process event")

			return err
		}

		return nil
	}
}

func (c *Consumer) pitchLOISent() func(events.PitchLOISent) error {
	return func(payload events.PitchLOISent) error {
		if err := c.service.handlePitchLOISent(context.TODO(), payload); err != nil {
			log.Error().Err(err).Str("pitch", payload.PitchID.String()).Msg("process event")

			return err
		}

		return nil
	}
}

func (c *Consumer) sponsorshipFunded() func(events.SponsorshipFunded) error {
	return func(payload events.SponsorshipFunded) error {
		if err := c.service.handleSponsorshipFunded(context.TODO(), payload); err != nil {
			log.Error().Err(err).Str("request", payload.RequestID.String()).Msg("process event")

			return err
		}

		return nil
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	group := config.GenerateGroupName(groupName)

	pc, err := client.NewConsumer[events.ProposalStatusChanged](ctx, c.conn, group, events.SubjectProposalStatusChanged, c.proposalStatusChanged(), client.WithMaxAckPending(maxPendingAckPerConsumer))
	if err != nil {
		return fmt.Errorf("consume for %s/%s: %w", group, events.SubjectProposalStatusChanged, err)
	}
	c.consumers = append(c.consumers, pc)

	lc, err := client.NewConsumer[events.PitchLOISent](ctx, c.conn, group, events.SubjectPitchLOISent, c.pitchLOISent(), client.WithMaxAckPending(maxPendingAckPerConsumer))
	if err != nil {
		_ = c.stop()

		return fmt.Errorf("consume for %s/%s: %w", group, events.SubjectPitchLOISent, err)
	}
	c.consumers = append(c.consumers, lc)

	sc, err := client.NewConsumer[events.SponsorshipFunded](ctx, c.conn, group, events.SubjectSponsorshipFunded, c.sponsorshipFunded(), client.WithMaxAckPending(maxPendingAckPerConsumer))
	if err != nil {
		_ = c.stop()

		return fmt.Errorf("consume for %s/%s: %w", group, events.SubjectSponsorshipFunded, err)
	}
	c.consumers = append(c.consumers, sc)

	log.Info().Msg("notification consumers are started")

	<-ctx.Done()
	return c.stop()
}

func (c *Consumer) stop() error {
	for _, cs := range c.consumers {
		if err := cs.Close(); err != nil {
			log.Error().Err(err).Msg("close notification consumer")
		}
	}
	c.consumers = nil

	return nil
}
