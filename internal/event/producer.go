package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	pkgkafka "github.com/Project-Dev-Me/UMKMInfo/pkg/kafka"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/logger"
)

// Kafka topic constants for directory domain events.
const (
	TopicBusinessCreated = "umkm.business.created"
	TopicBusinessUpdated = "umkm.business.updated"
	TopicBusinessDeleted = "umkm.business.deleted"
	TopicReviewCreated   = "umkm.review.created"
)

// Aggregate type constants.
const (
	AggregateTypeBusiness = "business"
	AggregateTypeReview   = "review"
)

// Source identifier for events originating from this service.
const SourceDirectoryService = "umkm-directory"

// BusinessData is the payload for business.created and business.updated events.
type BusinessData struct {
	ID            string  `json:"id"`
	OwnerID       string  `json:"owner_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"review_count"`
	IsPopular     bool    `json:"is_popular"`
	IsNewlyJoined bool    `json:"is_newly_joined"`
}

// BusinessDeletedData is the payload for a business.deleted event.
type BusinessDeletedData struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// ReviewCreatedData is the payload for a review.created event. It carries the
// refreshed aggregate so consumers never need to recompute it.
type ReviewCreatedData struct {
	ID          string  `json:"id"`
	BusinessID  string  `json:"umkm_id"`
	UserID      string  `json:"user_id"`
	Rating      int     `json:"rating"`
	NewRating   float64 `json:"new_rating"`
	ReviewCount int     `json:"review_count"`
}

// Producer publishes directory domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the directory service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishBusinessCreated publishes a business.created event.
func (p *Producer) PublishBusinessCreated(ctx context.Context, b *domain.Business) error {
	event, err := pkgkafka.NewEvent(TopicBusinessCreated, b.ID, AggregateTypeBusiness, SourceDirectoryService, businessData(b))
	if err != nil {
		return fmt.Errorf("create business.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBusinessCreated, correlate(ctx, event)); err != nil {
		return fmt.Errorf("publish business.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published business.created event",
		slog.String("umkm_id", b.ID),
	)

	return nil
}

// PublishBusinessUpdated publishes a business.updated event.
func (p *Producer) PublishBusinessUpdated(ctx context.Context, b *domain.Business) error {
	event, err := pkgkafka.NewEvent(TopicBusinessUpdated, b.ID, AggregateTypeBusiness, SourceDirectoryService, businessData(b))
	if err != nil {
		return fmt.Errorf("create business.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBusinessUpdated, correlate(ctx, event)); err != nil {
		return fmt.Errorf("publish business.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published business.updated event",
		slog.String("umkm_id", b.ID),
	)

	return nil
}

// PublishBusinessDeleted publishes a business.deleted event.
func (p *Producer) PublishBusinessDeleted(ctx context.Context, id, ownerID string) error {
	data := BusinessDeletedData{ID: id, OwnerID: ownerID}

	event, err := pkgkafka.NewEvent(TopicBusinessDeleted, id, AggregateTypeBusiness, SourceDirectoryService, data)
	if err != nil {
		return fmt.Errorf("create business.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicBusinessDeleted, correlate(ctx, event)); err != nil {
		return fmt.Errorf("publish business.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published business.deleted event",
		slog.String("umkm_id", id),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, rv *domain.Review, summary *domain.RatingSummary) error {
	data := ReviewCreatedData{
		ID:          rv.ID,
		BusinessID:  rv.BusinessID,
		UserID:      rv.UserID,
		Rating:      rv.Rating,
		NewRating:   summary.Rating,
		ReviewCount: summary.ReviewCount,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, rv.BusinessID, AggregateTypeReview, SourceDirectoryService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, correlate(ctx, event)); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", rv.ID),
		slog.String("umkm_id", rv.BusinessID),
		slog.Int("rating", rv.Rating),
	)

	return nil
}

// correlate stamps the request correlation ID onto the event when present.
func correlate(ctx context.Context, e *pkgkafka.Event) *pkgkafka.Event {
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		e.WithCorrelationID(cid)
	}
	return e
}

func businessData(b *domain.Business) BusinessData {
	return BusinessData{
		ID:            b.ID,
		OwnerID:       b.OwnerID,
		Name:          b.Name,
		Category:      b.Category,
		Status:        b.Status,
		Rating:        b.Rating,
		ReviewCount:   b.ReviewCount,
		IsPopular:     b.IsPopular,
		IsNewlyJoined: b.IsNewlyJoined,
	}
}
