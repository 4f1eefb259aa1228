package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"debate_classroom/internal/models"
	"debate_classroom/internal/service"
)

// RosterHandler 處理兩隊名單與學生登記相關的請求
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler 創建一個新的 RosterHandler 實例
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// RegisterInput 定義學生登記請求的結構
type RegisterInput struct {
	Name            string `json:"name" binding:"required"`
	AdmissionNumber string `json:"admissionNumber" binding:"required"`
}

// GetTeams 取得課堂名單，不存在時回傳補建好的空名單
func (h *RosterHandler) GetTeams(c *gin.Context) {
	roster, err := h.rosterService.GetTeams(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// Register 登記一位參加者並回報分隊結果
// 登記資料同時記進 cookie session，讓同一台裝置重新整理後還記得自己是誰
func (h *RosterHandler) Register(c *gin.Context) {
	classroomID := c.Param("id")

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.rosterService.Register(classroomID, input.Name, input.AdmissionNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	// 裝置端的便利快取，不是權威資料，清掉 cookie 就沒了
	session := sessions.Default(c)
	session.Set("participant_name_"+classroomID, input.Name)
	session.Set("participant_admission_"+classroomID, input.AdmissionNumber)
	_ = session.Save()

	c.JSON(http.StatusCreated, result)
}

// Me 回傳這台裝置上次登記的參加者資料
func (h *RosterHandler) Me(c *gin.Context) {
	classroomID := c.Param("id")
	session := sessions.Default(c)

	name, _ := session.Get("participant_name_" + classroomID).(string)
	admission, _ := session.Get("participant_admission_" + classroomID).(string)
	if name == "" && admission == "" {
		c.JSON(http.StatusNoContent, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "admissionNumber": admission})
}

// UpdateTeams 由管理員整份覆寫名單
func (h *RosterHandler) UpdateTeams(c *gin.Context) {
	var input struct {
		TeamA models.StudentList `json:"teamA"`
		TeamB models.StudentList `json:"teamB"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.rosterService.UpdateTeams(c.Param("id"), input.TeamA, input.TeamB); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "名單已更新"})
}

// ClearTeams 清空課堂的兩隊名單
func (h *RosterHandler) ClearTeams(c *gin.Context) {
	if err := h.rosterService.ClearTeams(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "名單已清空"})
}

// RemoveStudent 將一位學生從名單移除
func (h *RosterHandler) RemoveStudent(c *gin.Context) {
	if err := h.rosterService.RemoveStudent(c.Param("id"), c.Param("admissionNumber")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "學生已移除"})
}

// ListStudents 列出課堂內所有學生
func (h *RosterHandler) ListStudents(c *gin.Context) {
	records, err := h.rosterService.ListStudents(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetStudent 以學號查詢單一學生
func (h *RosterHandler) GetStudent(c *gin.Context) {
	record, err := h.rosterService.GetStudent(c.Param("id"), c.Param("admissionNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
