package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the fanout exchange used when none is configured.
const DefaultExchange = "studyspot.changes"

// AMQPTransport broadcasts changes through a RabbitMQ fanout exchange. Each
// subscription binds its own exclusive, auto-deleted queue so every process
// sees every change.
type AMQPTransport struct {
	conn     *amqp.Connection
	exchange string
	logger   *slog.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// DialAMQP connects to url and declares the exchange.
func DialAMQP(url, exchange string, logger *slog.Logger) (*AMQPTransport, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, false, true, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare exchange")
	}
	return &AMQPTransport{conn: conn, exchange: exchange, logger: logger, ch: ch}, nil
}

func (t *AMQPTransport) Publish(ctx context.Context, c Change) error {
	body, err := json.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}
	// amqp channels are not safe for concurrent publishing.
	t.mu.Lock()
	defer t.mu.Unlock()
	err = t.ch.PublishWithContext(ctx, t.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
	if err != nil {
		return errors.Wrap(err, "amqp publish")
	}
	return nil
}

func (t *AMQPTransport) Subscribe(_ context.Context, h Handler) (func(), error) {
	ch, err := t.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "queue declare")
	}
	if err := ch.QueueBind(q.Name, "", t.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "queue bind")
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, errors.Wrap(err, "queue consume")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range deliveries {
			var c Change
			if err := json.Unmarshal(d.Body, &c); err != nil {
				t.logger.Error("notify: dropping undecodable amqp message", "exchange", t.exchange, "error", err)
				continue
			}
			h(c)
		}
	}()

	return func() {
		_ = ch.Close()
		<-done
	}, nil
}

// Close closes the publishing channel and the connection.
func (t *AMQPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch != nil {
		_ = t.ch.Close()
	}
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
