package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/apache/pulsar-client-go/pulsar"
)

// PulsarPublisher sends every event to one topic keyed by user id.
type PulsarPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

func NewPulsarPublisher(url, topic, name string) (*PulsarPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: url,
	})
	if err != nil {
		return nil, err
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
		Name:  name,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &PulsarPublisher{
		client:   client,
		producer: producer,
	}, nil
}

func (p *PulsarPublisher) Publish(ctx context.Context, event Event) error {
	if p.producer == nil {
		return errors.New("producer not initialized")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Payload:   payload,
		Key:       event.UserID,
		EventTime: event.OccurredAt,
	})
	return err
}

func (p *PulsarPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	p.client.Close()
	return nil
}
