package produce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	GalleryExchange = "gallery.exchange"

	ImageUploadedQueue      = "gallery.image.uploaded"
	ImageUploadedRoutingKey = "image.uploaded"

	ImageDeletedQueue      = "gallery.image.deleted"
	ImageDeletedRoutingKey = "image.deleted"

	CacheSweptQueue      = "gallery.cache.swept"
	CacheSweptRoutingKey = "cache.swept"
)

// ImagesUploadedMessage is published once per successful upload request.
type ImagesUploadedMessage struct {
	Paths     []string `json:"paths"`
	Timestamp int64    `json:"timestamp"`
}

type ImageDeletedMessage struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

// CacheSweptMessage reports how many stale path cache entries a sweep removed.
type CacheSweptMessage struct {
	Pruned    int   `json:"pruned"`
	Timestamp int64 `json:"timestamp"`
}

type ImageEventService struct {
	channel *amqp.Channel
}

func InitImageEventService(channel *amqp.Channel) (*ImageEventService, error) {
	if err := channel.ExchangeDeclare(
		GalleryExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare gallery exchange: %w", err)
	}

	bindings := []struct{ queue, key string }{
		{ImageUploadedQueue, ImageUploadedRoutingKey},
		{ImageDeletedQueue, ImageDeletedRoutingKey},
		{CacheSweptQueue, CacheSweptRoutingKey},
	}
	for _, b := range bindings {
		if _, err := channel.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := channel.QueueBind(b.queue, b.key, GalleryExchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}
	}

	return &ImageEventService{channel: channel}, nil
}

func (s *ImageEventService) PublishImagesUploaded(ctx context.Context, paths []string) error {
	return s.publish(ctx, ImageUploadedRoutingKey, ImagesUploadedMessage{
		Paths:     paths,
		Timestamp: time.Now().Unix(),
	})
}

func (s *ImageEventService) PublishImageDeleted(ctx context.Context, id, path string) error {
	return s.publish(ctx, ImageDeletedRoutingKey, ImageDeletedMessage{
		ID:        id,
		Path:      path,
		Timestamp: time.Now().Unix(),
	})
}

func (s *ImageEventService) PublishCacheSwept(ctx context.Context, pruned int) error {
	return s.publish(ctx, CacheSweptRoutingKey, CacheSweptMessage{
		Pruned:    pruned,
		Timestamp: time.Now().Unix(),
	})
}

func (s *ImageEventService) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		GalleryExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
