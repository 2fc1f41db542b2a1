package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"liftlog/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	rabbitConn      *amqp.Connection
	rabbitChannel   *amqp.Channel
	workoutExchange = "workout_events"
)

// WorkoutEvent notifies one follower that an author completed a workout.
type WorkoutEvent struct {
	UserID    int64     `json:"user_id"` // recipient
	WorkoutID int64     `json:"workout_id"`
	AuthorID  int64     `json:"author_id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
}

// InitRabbitMQ opens the connection and declares the topic exchange. The
// broker is optional: when the config has no URL the publisher stays nil
// and callers fall back to direct WebSocket pushes.
func InitRabbitMQ() error {
	if config.AppConfig == nil || config.AppConfig.RabbitMQ.URL == "" {
		return nil
	}
	url := config.AppConfig.RabbitMQ.URL

	var err error
	rabbitConn, err = amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	rabbitChannel, err = rabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := rabbitChannel.ExchangeDeclare(
		workoutExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	log.Printf("RabbitMQ initialized with URL: %s", url)
	return nil
}

func CloseRabbitMQ() {
	if rabbitChannel != nil {
		_ = rabbitChannel.Close()
	}
	if rabbitConn != nil {
		_ = rabbitConn.Close()
	}
}

// PublishWorkoutEvent routes the event to user.{recipient}.
func PublishWorkoutEvent(ctx context.Context, event WorkoutEvent) error {
	if rabbitChannel == nil {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	routingKey := fmt.Sprintf("user.%d", event.UserID)
	return rabbitChannel.PublishWithContext(ctx,
		workoutExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// StartWorkoutEventConsumer binds a queue to user.* and pushes events to
// the recipients' WebSocket connections.
func StartWorkoutEventConsumer(ctx context.Context, queueName string) error {
	if rabbitChannel == nil {
		return fmt.Errorf("RabbitMQ channel not initialized")
	}
	q, err := rabbitChannel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := rabbitChannel.QueueBind(q.Name, "user.*", workoutExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := rabbitChannel.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				var event WorkoutEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Println("failed to unmarshal workout event:", err)
					continue
				}
				sendDirectWorkoutPush(event)
			}
		}
	}()
	return nil
}

// sendDirectWorkoutPush delivers the event straight to the recipient's
// open WebSocket connections.
func sendDirectWorkoutPush(event WorkoutEvent) {
	pushMsg := struct {
		Event     string    `json:"event"`
		UserID    int64     `json:"user_id"`
		WorkoutID int64     `json:"workout_id"`
		AuthorID  int64     `json:"author_id"`
		Name      string    `json:"name"`
		Date      time.Time `json:"date"`
	}{
		Event:     "workout_completed",
		UserID:    event.UserID,
		WorkoutID: event.WorkoutID,
		AuthorID:  event.AuthorID,
		Name:      event.Name,
		Date:      event.Date,
	}
	if data, err := json.Marshal(pushMsg); err == nil {
		GlobalWSConnManager.Send(event.UserID, data)
	}
}
