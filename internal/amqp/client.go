package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	applog "playstats/internal/log"

	"github.com/rabbitmq/amqp091-go"
)

// publisher is the part of *amqp091.Channel used to send messages.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Client publishes monthly install summaries to a durable direct exchange.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	pub          publisher
	exchangeName string
	queueName    string
	logger       *applog.Logger
}

// NewClient dials the broker and declares the exchange, the queue and their
// binding. A nil logger logs through the slog default handler.
func NewClient(url, exchangeName, queueName string, logger *applog.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		pub:          channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	// Declare exchange
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Declare queue
	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Bind queue to exchange
	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishMonthlyInstalls publishes the summary computed for one package
func (c *Client) PublishMonthlyInstalls(ctx context.Context, msg *MonthlyInstallsMessage) error {
	if c.pub == nil {
		return fmt.Errorf("amqp channel not initialized")
	}
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.pub.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent, // make message persistent
			Timestamp:    msg.GeneratedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.log().InfoContext(ctx, "Published monthly installs message",
		applog.FieldPackage, msg.Package,
		applog.FieldMonths, len(msg.Months))

	return nil
}

func (c *Client) log() *applog.Logger {
	l := c.logger
	if l == nil {
		l = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	return l.WithComponent(applog.ComponentAMQP).With(
		applog.FieldExchange, c.exchangeName,
		applog.FieldQueue, c.queueName)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
