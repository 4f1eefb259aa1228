package models

// DocumentEvent 代表一則推播給訂閱者的文件變更通知
// Path 是文件路徑（如 teams/{classroomID}），Data 是該文件的最新快照
type DocumentEvent struct {
	Type string      `json:"type"` // snapshot（訂閱後首次）或 update（其後每次寫入）
	Path string      `json:"path"`
	Data interface{} `json:"data"`
}

// ClientCommand 是 WebSocket 客戶端送來的指令
type ClientCommand struct {
	Action string `json:"action"` // subscribe、unsubscribe 或 snapshot（一次性讀最後快照）
	Path   string `json:"path"`
}

const (
	EventSnapshot = "snapshot"
	EventUpdate   = "update"
)

// 文件路徑的組合函式，與儲存層的集合結構一一對應
func ClassroomPath(classroomID string) string {
	return "classrooms/" + classroomID
}

func TeamsPath(classroomID string) string {
	return "teams/" + classroomID
}

func GamesPath(classroomID string) string {
	return "classrooms/" + classroomID + "/games"
}

func GamePath(classroomID, gameID string) string {
	return "classrooms/" + classroomID + "/games/" + gameID
}
