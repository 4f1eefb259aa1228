package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"debate_classroom/internal/middleware"
	"debate_classroom/internal/service"
	"debate_classroom/internal/utils"
)

// ClassroomHandler 處理課堂的建立、加入與查詢
type ClassroomHandler struct {
	classroomService *service.ClassroomService
	generator        *service.GeneratorService
}

// NewClassroomHandler 創建一個新的 ClassroomHandler 實例
func NewClassroomHandler(classroomService *service.ClassroomService, generator *service.GeneratorService) *ClassroomHandler {
	return &ClassroomHandler{
		classroomService: classroomService,
		generator:        generator,
	}
}

// CreateClassroomInput 定義建立課堂請求的結構
type CreateClassroomInput struct {
	Name      string `json:"name"`
	AdminName string `json:"adminName"`
	Password  string `json:"password" binding:"required"`
}

// JoinInput 定義加入課堂請求的結構
// 管理員與觀眾用同一組密碼，角色決定拿到的權限
type JoinInput struct {
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin spectator"`
}

// CreateClassroom 建立課堂並直接發給管理員憑證
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var input CreateClassroomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.CreateClassroom(input.Name, input.AdminName, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(classroom.ID, middleware.RoleAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "獲取token失敗"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"classroom": classroom, "token": token})
}

// Join 以課堂密碼換取課堂範圍的憑證
func (h *ClassroomHandler) Join(c *gin.Context) {
	var input JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.classroomService.GetByPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "課堂密碼不正確，請向主持人確認"})
		return
	}
	if !classroom.IsActive {
		c.JSON(http.StatusGone, gin.H{"error": "這個課堂已經結束"})
		return
	}

	token, err := utils.GenerateToken(classroom.ID, input.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "獲取token失敗"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"classroom": classroom, "token": token, "role": input.Role})
}

// GetClassroom 取得課堂資訊
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	classroom, err := h.classroomService.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classroom)
}

// UpdateClassroom 更新課堂欄位（如 isActive）
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	var input struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "沒有可更新的欄位"})
		return
	}

	classroom, err := h.classroomService.Update(c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classroom)
}

// ListAdminClassrooms 列出同一位管理員名下的課堂
func (h *ClassroomHandler) ListAdminClassrooms(c *gin.Context) {
	adminName := c.Query("adminName")
	if adminName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 adminName 參數"})
		return
	}

	classrooms, err := h.classroomService.ListByAdmin(adminName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classrooms)
}

// GeneratePassword 產生一組課堂密碼，遠端失敗時自動退回本地產生
func (h *ClassroomHandler) GeneratePassword(c *gin.Context) {
	password := h.generator.GeneratePassword(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"password": password})
}

// GenerateTopic 產生一個辯題，遠端失敗時自動退回本地題庫
func (h *ClassroomHandler) GenerateTopic(c *gin.Context) {
	topic := h.generator.GenerateTopic(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

// JoinQR 產生觀眾加入頁面的 QR code，方便投影給全班掃描
func (h *ClassroomHandler) JoinQR(c *gin.Context) {
	classroomID := c.Param("id")
	if !h.classroomService.Verify(classroomID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "課堂不存在或已結束"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	joinURL := scheme + "://" + c.Request.Host + "/spectator/join?classroom=" + classroomID
	joinURL = strings.TrimSpace(joinURL)

	const qrSize = 320 // 手機好掃的尺寸
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "QR code 產生失敗"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
