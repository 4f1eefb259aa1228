package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"debate_classroom/internal/models"
	"debate_classroom/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 把 WebSocket 連線接上即時推播中樞
// 客戶端送 subscribe/unsubscribe 指令訂閱文件路徑，之後路徑上的每次寫入都會推下來
type WebSocketHandler struct {
	hub *service.RealtimeHub
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(hub *service.RealtimeHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// wsClient 代表一個 WebSocket 客戶端連線
type wsClient struct {
	conn          *websocket.Conn
	classroomID   string
	sendChan      chan models.DocumentEvent // 事件送出通道，維持每條路徑的送達順序
	subscriptions map[string]func()         // path -> 取消訂閱

	mu     sync.Mutex // 保護 closed 與 sendChan 的關閉
	closed bool
}

// deliver 把事件排進送出通道
// 關閉旗標與通道關閉共用同一把鎖，收尾期間殘留的推播不會打在已關閉的通道上
// 通道滿表示連線消化不及，直接丟棄，與推播中樞對慢訂閱者的策略一致
func (c *wsClient) deliver(event models.DocumentEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.sendChan <- event:
	default:
		log.Warn().Str("path", event.Path).Msg("連線送出佇列已滿，丟棄事件")
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	client := &wsClient{
		conn:          conn,
		classroomID:   c.GetString("classroomID"),
		sendChan:      make(chan models.DocumentEvent, 256),
		subscriptions: make(map[string]func()),
	}

	defer func() {
		for _, unsubscribe := range client.subscriptions {
			unsubscribe()
		}
		client.mu.Lock()
		client.closed = true
		close(client.sendChan)
		client.mu.Unlock()
		conn.Close()
	}()

	go h.writePump(client)
	h.readPump(client)
}

// readPump 持續監聽並處理客戶端的訂閱指令
func (h *WebSocketHandler) readPump(client *wsClient) {
	client.conn.SetReadLimit(4096)
	client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var cmd models.ClientCommand
		if err := client.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("websocket unexpected close")
			}
			return
		}

		switch cmd.Action {
		case "subscribe":
			h.subscribe(client, cmd.Path)
		case "unsubscribe":
			if unsubscribe, ok := client.subscriptions[cmd.Path]; ok {
				unsubscribe()
				delete(client.subscriptions, cmd.Path)
			}
		case "snapshot":
			h.snapshot(client, cmd.Path)
		default:
			// 忽略未知指令
		}
	}
}

// subscribe 訂閱一條路徑，只允許這張憑證所屬課堂底下的文件
func (h *WebSocketHandler) subscribe(client *wsClient, path string) {
	if client.subscriptions[path] != nil {
		return // 同一條路徑不重複訂閱
	}
	if !pathBelongsTo(path, client.classroomID) {
		client.deliver(models.DocumentEvent{Type: "error", Path: path, Data: "不能訂閱其他課堂的文件"})
		return
	}

	unsubscribe, err := h.hub.Subscribe(path, func(event models.DocumentEvent) {
		// 推播中樞的每路徑順序在這裡延續到連線的送出通道
		client.deliver(event)
	})
	if err != nil {
		client.deliver(models.DocumentEvent{Type: "error", Path: path, Data: err.Error()})
		return
	}
	client.subscriptions[path] = unsubscribe
}

// snapshot 回送一條路徑最後已知的快照，不建立訂閱
// 給重新載入的客戶端先畫出上次狀態用，拿到的可能是略舊的資料
func (h *WebSocketHandler) snapshot(client *wsClient, path string) {
	if !pathBelongsTo(path, client.classroomID) {
		client.deliver(models.DocumentEvent{Type: "error", Path: path, Data: "不能讀取其他課堂的文件"})
		return
	}
	data, ok := h.hub.Snapshot(path)
	if !ok {
		client.deliver(models.DocumentEvent{Type: "error", Path: path, Data: "這條路徑還沒有快照"})
		return
	}
	client.deliver(models.DocumentEvent{Type: models.EventSnapshot, Path: path, Data: data})
}

// writePump 處理向客戶端發送事件的邏輯
func (h *WebSocketHandler) writePump(client *wsClient) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.sendChan:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pathBelongsTo 檢查文件路徑是否屬於指定課堂
func pathBelongsTo(path, classroomID string) bool {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return false
	}
	switch parts[0] {
	case "teams", "classrooms":
		return parts[1] == classroomID
	default:
		return false
	}
}
