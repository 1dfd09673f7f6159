package feed

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"paper-trader-go/market"
	"paper-trader-go/metrics"
)

// Status 连接状态机：disconnected → connecting → connected → disconnected → …
type Status int32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Conn 是 Manager 依赖的最小连接接口，*websocket.Conn 天然满足。
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer 可注入的拨号函数，测试时替换为假连接。
type Dialer func(url string) (Conn, error)

// GorillaDialer 默认拨号器。
func GorillaDialer(rawURL string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(rawURL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// EventSink 连接级事件回调（记录日志用），与报价数据路径分离。
type EventSink func(event string, fields map[string]interface{})

// Config 行情流配置。
type Config struct {
	Endpoint       string        // 例如 wss://stream.binance.com:9443
	Symbols        []string      // 订阅符号（交易对），大写
	ReconnectDelay time.Duration // 固定重连间隔，默认 5s（刻意不做退避）
}

// Manager 维护每会话唯一的一条多路复用行情流连接。
//
// 连接句柄、重连定时器与状态全部由单个 run 协程持有，外部调用与
// 读协程只通过事件通道进入该协程，避免共享状态竞争；Connect 幂等，
// Teardown 可从任意状态安全地重复调用。
type Manager struct {
	cfg   Config
	dial  Dialer
	store *market.TickStore
	sink  EventSink

	status atomic.Int32
	events chan event
	done   chan struct{}

	dialWg       sync.WaitGroup
	teardownOnce sync.Once
}

type eventKind int

const (
	evConnect eventKind = iota
	evRetry
	evOpened
	evMessage
	evClosed
	evTeardown
)

type event struct {
	kind eventKind
	gen  uint64 // 连接代数，用于丢弃旧连接的迟到事件
	conn Conn
	msg  []byte
	err  error
}

// NewManager 创建管理器并启动事件循环；连接需显式 Connect 触发。
func NewManager(cfg Config, store *market.TickStore, sink EventSink) *Manager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	m := &Manager{
		cfg:    cfg,
		dial:   GorillaDialer,
		store:  store,
		sink:   sink,
		events: make(chan event, 64),
		done:   make(chan struct{}),
	}
	go m.run()
	return m
}

// SetDialer 替换拨号器（测试注入），须在 Connect 之前调用。
func (m *Manager) SetDialer(d Dialer) {
	if d != nil {
		m.dial = d
	}
}

// Status 当前连接状态。
func (m *Manager) Status() Status {
	return Status(m.status.Load())
}

// Connect 请求建立连接；已在连接中或已连接时为无操作（防重复挂载）。
func (m *Manager) Connect() {
	m.send(event{kind: evConnect})
}

// Teardown 取消待定的重连并关闭连接，可重复调用。
func (m *Manager) Teardown() {
	m.teardownOnce.Do(func() {
		select {
		case m.events <- event{kind: evTeardown}:
		case <-m.done:
			return
		}
	})
	<-m.done
}

// Done 在事件循环退出后关闭。
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// send 在事件循环退出后到达的事件不能丢手：迟到拨号成功携带的连接
// 必须就地关闭，否则销毁后的会话会漏一条活连接。
func (m *Manager) send(ev event) {
	select {
	case <-m.done:
		if ev.conn != nil {
			_ = ev.conn.Close()
		}
		return
	default:
	}
	select {
	case m.events <- ev:
	case <-m.done:
		if ev.conn != nil {
			_ = ev.conn.Close()
		}
	}
}

// run 是唯一触碰连接状态的协程。
func (m *Manager) run() {
	var (
		conn         Conn
		gen          uint64
		retryTimer   *time.Timer
		timerPending bool
	)

	startConnect := func() {
		if Status(m.status.Load()) != StatusDisconnected {
			return
		}
		if retryTimer != nil {
			retryTimer.Stop()
			timerPending = false
		}
		m.status.Store(int32(StatusConnecting))
		gen++
		m.dialWg.Add(1)
		go m.dialAndRead(gen)
	}

	for ev := range m.events {
		switch ev.kind {
		case evConnect:
			startConnect()

		case evRetry:
			timerPending = false
			metrics.FeedReconnects.Inc()
			startConnect()

		case evOpened:
			if ev.gen != gen {
				_ = ev.conn.Close()
				continue
			}
			conn = ev.conn
			m.status.Store(int32(StatusConnected))
			metrics.FeedConnected.Set(1)
			m.logEvent("feed_connected", map[string]interface{}{
				"endpoint": m.cfg.Endpoint,
				"symbols":  len(m.cfg.Symbols),
			})

		case evMessage:
			if ev.gen != gen {
				continue
			}
			tick, err := ParseTick(ev.msg, time.Now())
			if err != nil {
				// 单条坏消息只丢弃，绝不断开连接
				metrics.MalformedMessages.Inc()
				m.logEvent("feed_message_dropped", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			m.store.Set(tick)

		case evClosed:
			// 关闭路径是重连的唯一权威入口：读错误与关闭合并为一个
			// evClosed，同代的第二次到达会因状态已是 disconnected 被忽略，
			// 定时器不会被调度两次。
			if ev.gen != gen || Status(m.status.Load()) == StatusDisconnected {
				continue
			}
			if conn != nil {
				_ = conn.Close()
				conn = nil
			}
			m.status.Store(int32(StatusDisconnected))
			metrics.FeedConnected.Set(0)
			m.logEvent("feed_disconnected", map[string]interface{}{
				"error": errString(ev.err),
			})
			if !timerPending {
				timerPending = true
				retryTimer = time.AfterFunc(m.cfg.ReconnectDelay, func() {
					m.send(event{kind: evRetry})
				})
			}

		case evTeardown:
			if retryTimer != nil {
				retryTimer.Stop()
			}
			if conn != nil {
				_ = conn.Close()
			}
			m.status.Store(int32(StatusDisconnected))
			metrics.FeedConnected.Set(0)
			m.store.Clear()
			close(m.done)
			// done 关闭后新的发送方会自行关闭迟到连接；这里等在途拨号
			// 协程退出，再清空退出前已入队的事件，两边都不漏连接。
			m.dialWg.Wait()
			for {
				select {
				case ev := <-m.events:
					if ev.conn != nil {
						_ = ev.conn.Close()
					}
				default:
					m.logEvent("feed_teardown", nil)
					return
				}
			}
		}
	}
}

// dialAndRead 建立连接并阻塞读取，所有结果送回事件循环。
func (m *Manager) dialAndRead(gen uint64) {
	defer m.dialWg.Done()
	conn, err := m.dial(m.streamURL())
	if err != nil {
		// 拨号失败与断开走同一条 evClosed 路径，但此时状态是 connecting，
		// 先回落到 disconnected 再让关闭逻辑调度重连。
		m.send(event{kind: evClosed, gen: gen, err: err, conn: nil})
		return
	}
	m.send(event{kind: evOpened, gen: gen, conn: conn})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			m.send(event{kind: evClosed, gen: gen, err: err})
			return
		}
		m.send(event{kind: evMessage, gen: gen, msg: msg})
	}
}

// streamURL 把全部订阅频道拼到一条 combined stream 上。
func (m *Manager) streamURL() string {
	streams := make([]string, 0, len(m.cfg.Symbols))
	for _, s := range m.cfg.Symbols {
		streams = append(streams, strings.ToLower(s)+"@ticker")
	}
	u, err := url.Parse(m.cfg.Endpoint)
	if err != nil {
		u = &url.URL{Scheme: "wss", Host: m.cfg.Endpoint}
	}
	u.Path = "/stream"
	q := u.Query()
	q.Set("streams", strings.Join(streams, "/"))
	u.RawQuery = q.Encode()
	return u.String()
}

func (m *Manager) logEvent(event string, fields map[string]interface{}) {
	if m.sink == nil {
		return
	}
	m.sink(event, fields)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ErrFeedDown 供健康检查使用。
var ErrFeedDown = errors.New("feed: disconnected")

// Health 已连接或连接中视为健康。
func (m *Manager) Health() error {
	if m.Status() == StatusDisconnected {
		return ErrFeedDown
	}
	return nil
}
