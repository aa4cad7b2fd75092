package rabbitmq_common

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

// ConnectionManager держит одно соединение с брокером на процесс.
// Разрыв ловится через NotifyClose, переподключение идет с растущей паузой.
type ConnectionManager struct {
	url    string
	dial   func(url string) (*amqp.Connection, error)
	Logger Logger

	mu   sync.RWMutex
	conn *amqp.Connection

	done      chan struct{}
	closeOnce sync.Once
}

// NewManager подключается сразу: сайт без брокера стартует только если RABBITMQ_URL пуст
func NewManager(url string, logger Logger) (*ConnectionManager, error) {
	m := &ConnectionManager{
		url:    url,
		dial:   amqp.Dial,
		Logger: LoggerOrDiscard(logger),
		done:   make(chan struct{}),
	}

	conn, err := m.dial(url)
	if err != nil {
		m.Logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}
	m.setConnection(conn)
	return m, nil
}

// Channel открывает новый канал поверх текущего соединения
func (m *ConnectionManager) Channel() (*amqp.Channel, error) {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return nil, fmt.Errorf("ConnectionManager: connection is not available")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return ch, nil
}

func (m *ConnectionManager) setConnection(conn *amqp.Connection) {
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go m.watch(closed)
}

// watch ждет закрытия соединения и переподключается, пока менеджер не закрыт
func (m *ConnectionManager) watch(closed <-chan *amqp.Error) {
	select {
	case <-m.done:
		return
	case reason, ok := <-closed:
		if !ok || reason == nil {
			// штатное закрытие через Close
			return
		}
		m.Logger.Warn("ConnectionManager: Connection lost, reconnecting", "reason", reason.Error())
	}

	delay := minReconnectDelay
	for {
		select {
		case <-m.done:
			return
		case <-time.After(delay):
		}

		conn, err := m.dial(m.url)
		if err == nil {
			m.setConnection(conn)
			m.Logger.Info("ConnectionManager: Reconnected")
			return
		}

		m.Logger.Error(err, "ConnectionManager: Reconnect failed", "retry_in", delay.String())
		delay = min(delay*2, maxReconnectDelay)
	}
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	m.Logger.Debug("ConnectionManager: Closing the connection...")
	if err := m.conn.Close(); err != nil {
		m.Logger.Error(err, "ConnectionManager: Failed to close connection properly")
		return err
	}
	return nil
}
