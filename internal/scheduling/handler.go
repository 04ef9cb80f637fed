package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nao1215/scheduling/pkg/event"
)

// 一覧の出力形式。
const (
	// formatJSON はフィールド名付きのJSON配列。
	formatJSON = "json"
	// formatText はフィールド名と値を交互に並べた旧形式のテキスト。
	formatText = "text"
)

// createEventRequest はイベント作成リクエストのJSON構造。
// 空文字列は許可し、フィールドの欠落のみを不正とするためポインタで受け取る。
type createEventRequest struct {
	// Organizer はイベントの主催者。
	Organizer *string `json:"organizer" binding:"required"`
	// Name はイベント名。
	Name *string `json:"name" binding:"required"`
	// Date はイベントの日付。
	Date *string `json:"date" binding:"required"`
}

// toEvent はリクエストをEventに変換する。
func (r createEventRequest) toEvent() event.Event {
	return event.Event{
		Organizer: *r.Organizer,
		Name:      *r.Name,
		Date:      *r.Date,
	}
}

// storeContext はストア操作に使うコンテキストを返す。
// クライアントが切断してもストア操作は中断せず、完了または失敗まで実行する。
func storeContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// bindJSON はリクエストボディ全体を1つのJSON値としてobjへ読み込み、検証する。
// JSON値の後ろに余分なデータが続くボディは不正とする。
func bindJSON(c *gin.Context, obj any) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

// handleCreateEvent はイベント作成を処理するハンドラを返す。
// イベントを最初の空きスロットに保存し、受け取った内容をテキストで返す。
func (s *Server) handleCreateEvent() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createEventRequest
		if err := bindJSON(c, &req); err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("リクエストが不正です: %v", err))
			return
		}

		e := req.toEvent()
		if _, err := s.store.Append(storeContext(c), e); err != nil {
			c.String(http.StatusInternalServerError, "イベントの保存に失敗しました")
			log.Printf("イベント保存エラー: %v", err)
			return
		}

		c.String(http.StatusOK, event.Confirmation(e))
	}
}

// handleListEvents は全イベントの一覧取得を処理するハンドラを返す。
// クエリパラメータformatにtextを指定すると旧形式のテキストで返す。
func (s *Server) handleListEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", formatJSON)
		if format != formatJSON && format != formatText {
			c.String(http.StatusBadRequest, fmt.Sprintf("未対応の出力形式です: %q", format))
			return
		}

		records, err := s.store.ListAll(storeContext(c))
		if err != nil {
			c.String(http.StatusInternalServerError, "イベント一覧の取得に失敗しました")
			log.Printf("イベント一覧取得エラー: %v", err)
			return
		}

		if format == formatText {
			c.String(http.StatusOK, event.RenderDebug(records))
			return
		}
		c.JSON(http.StatusOK, records)
	}
}
