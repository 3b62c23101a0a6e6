package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Booking lifecycle channels.
const (
	ChannelBookingSubmitted   = "booking.submitted"
	ChannelBookingRescheduled = "booking.rescheduled"
	ChannelBookingCancelled   = "booking.cancelled"
)

// Message is the envelope published on every channel.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
