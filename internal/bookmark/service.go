package bookmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openbook-edu/openbook-server/internal/db/model"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")
)

type bookmarkStore interface {
	FindCustomerByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, customerID, topicID int64) error
	Delete(ctx context.Context, customerID, topicID int64) (bool, error)
	ListTopicTitles(ctx context.Context, customerID int64) ([]string, error)
}

type topicFinder interface {
	FindTopicByTitle(ctx context.Context, title string) (*model.Topic, error)
}

// Service lets customers pin topics for later review.
type Service struct {
	bookmarks bookmarkStore
	topics    topicFinder
	logger    zerolog.Logger
}

func NewService(bookmarks bookmarkStore, topics topicFinder, logger zerolog.Logger) *Service {
	return &Service{
		bookmarks: bookmarks,
		topics:    topics,
		logger:    logger.With().Str("component", "bookmark").Logger(),
	}
}

func (s *Service) resolve(ctx context.Context, customerID int64, topicTitle string) (int64, error) {
	customer, err := s.bookmarks.FindCustomerByID(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		return 0, fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
	}
	topic, err := s.topics.FindTopicByTitle(ctx, topicTitle)
	if err != nil {
		return 0, fmt.Errorf("find topic: %w", err)
	}
	if topic == nil {
		return 0, fmt.Errorf("%w: %q", ErrTopicNotFound, topicTitle)
	}
	return topic.ID, nil
}

// Add bookmarks a topic for a customer. Re-adding is a no-op.
func (s *Service) Add(ctx context.Context, customerID int64, topicTitle string) error {
	topicID, err := s.resolve(ctx, customerID, topicTitle)
	if err != nil {
		return err
	}
	if err := s.bookmarks.Create(ctx, customerID, topicID); err != nil {
		return err
	}
	s.logger.Debug().Int64("customer_id", customerID).Str("topic", topicTitle).Msg("bookmark added")
	return nil
}

// Remove drops a customer's bookmark on a topic.
func (s *Service) Remove(ctx context.Context, customerID int64, topicTitle string) error {
	topicID, err := s.resolve(ctx, customerID, topicTitle)
	if err != nil {
		return err
	}
	removed, err := s.bookmarks.Delete(ctx, customerID, topicID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: customer %d, topic %q", ErrBookmarkNotFound, customerID, topicTitle)
	}
	return nil
}

// List returns the topic titles a customer has bookmarked.
func (s *Service) List(ctx context.Context, customerID int64) ([]string, error) {
	customer, err := s.bookmarks.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
	}
	return s.bookmarks.ListTopicTitles(ctx, customerID)
}
