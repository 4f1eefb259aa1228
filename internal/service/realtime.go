package service

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"debate_classroom/internal/models"
)

// Materializer 在訂閱一條還沒有快照的路徑時負責載入（或補建）目前的文件
type Materializer func(path string) (interface{}, error)

// ErrUnknownPath 表示訂閱了一條不屬於任何集合的路徑
var ErrUnknownPath = errors.New("未知的文件路徑")

// subscription 代表一條路徑上的一個訂閱者
// 每個訂閱者有自己的緩衝通道與送出 goroutine，確保單一路徑上的事件依寫入順序送達
type subscription struct {
	path     string
	ch       chan models.DocumentEvent
	onChange func(models.DocumentEvent)
	once     sync.Once
}

func (s *subscription) close() {
	s.once.Do(func() { close(s.ch) })
}

func (s *subscription) pump() {
	for event := range s.ch {
		s.onChange(event)
	}
}

// RealtimeHub 管理所有文件訂閱並在每次寫入後推播變更
// 不同路徑之間不保證送達順序，訂閱者必須把每條路徑當成獨立的事件流
type RealtimeHub struct {
	mu            sync.RWMutex
	subscribers   map[string]map[*subscription]bool
	snapshots     map[string]interface{} // 每條路徑的最新快照，重新訂閱時立即可用
	materializer  Materializer
	subBufferSize int
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{
		subscribers:   make(map[string]map[*subscription]bool),
		snapshots:     make(map[string]interface{}),
		subBufferSize: 256,
	}
}

// SetMaterializer 設定補建文件用的載入函式，由 Services 在組裝時注入
func (h *RealtimeHub) SetMaterializer(m Materializer) {
	h.materializer = m
}

// Subscribe 訂閱一條文件路徑
// onChange 會先立刻收到目前狀態（snapshot），之後每次寫入再各收到一次（update）
// 回傳的函式用來取消訂閱，取消後不會再送達也不會補送
func (h *RealtimeHub) Subscribe(path string, onChange func(models.DocumentEvent)) (func(), error) {
	h.mu.RLock()
	current, known := h.snapshots[path]
	h.mu.RUnlock()

	if !known {
		if h.materializer == nil {
			return nil, ErrUnknownPath
		}
		data, err := h.materializer(path)
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		// 兩個併發的首次訂閱可能同時補建，保留先寫入的快照
		if existing, ok := h.snapshots[path]; ok {
			current = existing
		} else {
			h.snapshots[path] = data
			current = data
		}
		h.mu.Unlock()
	}

	sub := &subscription{
		path:     path,
		ch:       make(chan models.DocumentEvent, h.subBufferSize),
		onChange: onChange,
	}
	go sub.pump()

	h.mu.Lock()
	if h.subscribers[path] == nil {
		h.subscribers[path] = make(map[*subscription]bool)
	}
	h.subscribers[path][sub] = true
	// 登記與首次快照在同一把鎖底下完成
	// 登記前落地的寫入會反映在這裡重讀的快照，登記後的寫入則照常推播，不會有夾在中間漏掉的狀態
	if latest, ok := h.snapshots[path]; ok {
		current = latest
	}
	// 首次送達目前狀態，與後續更新走同一條通道以維持順序
	sub.ch <- models.DocumentEvent{Type: models.EventSnapshot, Path: path, Data: current}
	h.mu.Unlock()

	return func() { h.unsubscribe(sub) }, nil
}

// Publish 在一次成功寫入後更新快照並通知該路徑的所有訂閱者
// 必須在寫入完成後呼叫，同一條路徑的呼叫順序就是訂閱者看到的順序
func (h *RealtimeHub) Publish(path string, data interface{}) {
	h.mu.Lock()
	h.snapshots[path] = data
	event := models.DocumentEvent{Type: models.EventUpdate, Path: path, Data: data}
	for sub := range h.subscribers[path] {
		select {
		case sub.ch <- event:
		default:
			// 訂閱者消化不及，直接斷開，避免拖慢整條路徑
			delete(h.subscribers[path], sub)
			sub.close()
			log.Warn().Str("path", path).Msg("訂閱者事件佇列已滿，移除訂閱")
		}
	}
	h.mu.Unlock()
}

// Forget 在文件被刪除後移走快照，之後的訂閱會重新補建
func (h *RealtimeHub) Forget(path string) {
	h.mu.Lock()
	delete(h.snapshots, path)
	for sub := range h.subscribers[path] {
		delete(h.subscribers[path], sub)
		sub.close()
	}
	delete(h.subscribers, path)
	h.mu.Unlock()
}

// Snapshot 取出一條路徑目前的快照，供重新載入時先畫出最後已知狀態
func (h *RealtimeHub) Snapshot(path string) (interface{}, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, ok := h.snapshots[path]
	return data, ok
}

// subscriberCount 回傳一條路徑目前的訂閱者數量，供測試檢查清理是否完整
func (h *RealtimeHub) subscriberCount(path string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[path])
}

func (h *RealtimeHub) unsubscribe(sub *subscription) {
	h.mu.Lock()
	if subs, ok := h.subscribers[sub.path]; ok {
		if subs[sub] {
			delete(subs, sub)
			sub.close()
		}
		if len(subs) == 0 {
			delete(h.subscribers, sub.path)
		}
	}
	h.mu.Unlock()
}
