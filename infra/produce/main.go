package produce

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Produce struct {
	ImageService *ImageEventService
}

func InitProduce(channel *amqp.Channel) (*Produce, error) {
	imageService, err := InitImageEventService(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image event service: %w", err)
	}

	return &Produce{
		ImageService: imageService,
	}, nil
}
