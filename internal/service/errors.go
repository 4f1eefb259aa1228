package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// 服務層的錯誤分類，只有 API 層負責把這些錯誤轉成給使用者看的文字
var (
	ErrDuplicateIdentifier = errors.New("這個學號已經登記過了")
	ErrDuplicateName       = errors.New("這個名字已經登記過了")
	ErrInvalidVoteType     = errors.New("無效的投票類型")
	ErrNotFound            = errors.New("資料不存在")
	ErrPasswordTaken       = errors.New("這組密碼已被使用，請重新產生一組")
	ErrInvalidPassword     = errors.New("密碼長度必須在 6 到 20 個字元之間")
	ErrInvalidTransition   = errors.New("不允許的遊戲狀態轉換")
	ErrEmptyInput          = errors.New("姓名與學號不可為空")
	ErrStoreUnavailable    = errors.New("資料庫暫時無法使用，請稍後再試")
)

// wrapStoreErr 把儲存層錯誤翻譯成服務層的分類
// 查無資料轉成 ErrNotFound，其他一律視為可由使用者重試的儲存錯誤，不自動重試
// 驅動程式的錯誤細節只進 log，回給使用者的錯誤裡不夾帶
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	log.Error().Err(err).Msg("儲存層操作失敗")
	return ErrStoreUnavailable
}
