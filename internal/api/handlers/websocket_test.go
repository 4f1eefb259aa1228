package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debate_classroom/internal/models"
	"debate_classroom/internal/service"
)

func setupWSServer(t *testing.T, classroomID string) (*httptest.Server, *service.RealtimeHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := service.NewRealtimeHub()
	hub.SetMaterializer(func(path string) (interface{}, error) {
		return "materialized:" + path, nil
	})
	handler := NewWebSocketHandler(hub)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("classroomID", classroomID)
		handler.HandleWebSocket(c)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, hub
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.DocumentEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event models.DocumentEvent
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHandleWebSocket_SubscribeThenSnapshotCommand(t *testing.T) {
	server, hub := setupWSServer(t, "C1")
	conn := dialWS(t, server)

	require.NoError(t, conn.WriteJSON(models.ClientCommand{Action: "subscribe", Path: "teams/C1"}))
	event := readEvent(t, conn)
	assert.Equal(t, models.EventSnapshot, event.Type)
	assert.Equal(t, "materialized:teams/C1", event.Data)

	hub.Publish("teams/C1", "updated")
	event = readEvent(t, conn)
	assert.Equal(t, models.EventUpdate, event.Type)
	assert.Equal(t, "updated", event.Data)

	// 重新載入用的一次性快照讀取，拿到的是最後已知狀態，不建立新訂閱
	require.NoError(t, conn.WriteJSON(models.ClientCommand{Action: "snapshot", Path: "teams/C1"}))
	event = readEvent(t, conn)
	assert.Equal(t, models.EventSnapshot, event.Type)
	assert.Equal(t, "updated", event.Data)
}

func TestHandleWebSocket_RejectsOtherClassroomPath(t *testing.T) {
	server, _ := setupWSServer(t, "C1")
	conn := dialWS(t, server)

	require.NoError(t, conn.WriteJSON(models.ClientCommand{Action: "subscribe", Path: "teams/C2"}))
	event := readEvent(t, conn)
	assert.Equal(t, "error", event.Type)

	require.NoError(t, conn.WriteJSON(models.ClientCommand{Action: "snapshot", Path: "teams/C2"}))
	event = readEvent(t, conn)
	assert.Equal(t, "error", event.Type)
}

func TestHandleWebSocket_TeardownDuringPublishes(t *testing.T) {
	server, hub := setupWSServer(t, "C1")
	conn := dialWS(t, server)

	require.NoError(t, conn.WriteJSON(models.ClientCommand{Action: "subscribe", Path: "teams/C1"}))
	readEvent(t, conn)

	// 客戶端直接斷線，伺服器收尾期間持續有推播進來也要安然收完
	conn.Close()
	for i := 0; i < 500; i++ {
		hub.Publish("teams/C1", i)
	}
	time.Sleep(50 * time.Millisecond)

	// 新連線照常服務
	conn2 := dialWS(t, server)
	require.NoError(t, conn2.WriteJSON(models.ClientCommand{Action: "subscribe", Path: "teams/C1"}))
	event := readEvent(t, conn2)
	assert.Equal(t, models.EventSnapshot, event.Type)
}
