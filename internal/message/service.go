package message

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

const (
	maxTextLength     = 4000
	defaultReplyDelay = time.Second
)

var ErrInvalidMessage = errors.New("invalid message")

type DataProvider interface {
	Create(ctx context.Context, m *Message) error
	GetConversation(ctx context.Context, userID, partnerID uuid.UUID, limit, offset int) ([]Message, error)
	GetLastPerPartner(ctx context.Context, userID uuid.UUID) ([]Message, error)
	CountUnreadByPartner(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int64, error)
	MarkRead(ctx context.Context, readerID, partnerID uuid.UUID) (int64, error)
	DeleteConversation(ctx context.Context, userID, partnerID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, subject string, payload any)
}

type Responder interface {
	Reply(text string) string
}

type Service struct {
	repo      DataProvider
	events    Publisher
	responder Responder

	supportID  uuid.UUID
	replyDelay time.Duration
	replies    sync.WaitGroup
}

func NewService(r DataProvider, p Publisher, responder Responder, supportID uuid.UUID, replyDelay time.Duration) *Service {
	if replyDelay < 0 {
		replyDelay = defaultReplyDelay
	}

	return &Service{
		repo:       r,
		events:     p,
		responder:  responder,
		supportID:  supportID,
		replyDelay: replyDelay,
	}
}

// Send stores the message and notifies the receiver channel. Messages to the support
// identity get an automatic answer after the reply delay.
func (s *Service) Send(ctx context.Context, actor session.Actor, receiverID uuid.UUID, text string) (*Message, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxTextLength {
		return nil, fmt.Errorf("text length %d: %w", len(text), ErrInvalidMessage)
	}

	if receiverID == uuid.Nil || receiverID == actor.ID {
		return nil, fmt.Errorf("receiver %s: %w", receiverID, ErrInvalidMessage)
	}

	m, err := s.insert(ctx, actor.ID, receiverID, text)
	if err != nil {
		return nil, err
	}

	if receiverID == s.supportID {
		s.replies.Add(1)
		go s.autoReply(actor.ID, text)
	}

	return m, nil
}

func (s *Service) Conversation(ctx context.Context, actor session.Actor, partnerID uuid.UUID, limit, offset int) ([]Message, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	return s.repo.GetConversation(ctx, actor.ID, partnerID, limit, offset)
}

// Conversations returns one summary per partner, most recent exchange first
func (s *Service) Conversations(ctx context.Context, actor session.Actor) ([]Conversation, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	last, err := s.repo.GetLastPerPartner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnreadByPartner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	result := make([]Conversation, 0, len(last))
	for _, m := range last {
		partner := m.Partner(actor.ID)
		result = append(result, Conversation{
			PartnerID:   partner,
			LastMessage: m,
			UnreadCount: unread[partner],
		})
	}

	slices.SortFunc(result, func(a, b Conversation) int {
		return b.LastMessage.CreatedAt.Compare(a.LastMessage.CreatedAt)
	})

	return result, nil
}

func (s *Service) MarkRead(ctx context.Context, actor session.Actor, partnerID uuid.UUID) (int64, error) {
	if actor.Anonymous() {
		return 0, session.ErrUnauthenticated
	}

	return s.repo.MarkRead(ctx, actor.ID, partnerID)
}

// Clear deletes the conversation for both sides
func (s *Service) Clear(ctx context.Context, actor session.Actor, partnerID uuid.UUID) (int64, error) {
	if actor.Anonymous() {
		return 0, session.ErrUnauthenticated
	}

	removed, err := s.repo.DeleteConversation(ctx, actor.ID, partnerID)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("user", actor.ID.String()).
		Str("partner", partnerID.String()).
		Int64("messages", removed).
		Msg("conversation cleared")

	return removed, nil
}

func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Close waits for pending automatic replies
func (s *Service) Close() {
	s.replies.Wait()
}

func (s *Service) autoReply(userID uuid.UUID, text string) {
	defer s.replies.Done()

	time.Sleep(s.replyDelay)

	answer := s.responder.Reply(text)
	if _, err := s.insert(context.Background(), s.supportID, userID, answer); err != nil {
		log.Error().Err(err).Str("user", userID.String()).Msg("support reply")
	}
}

func (s *Service) insert(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*Message, error) {
	m := &Message{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.events.PublishJSON(ctx, events.MessagesSubject(receiverID), events.MessageInserted{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	})

	return m, nil
}
