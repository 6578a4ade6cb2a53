package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MarkTaylorTsai/line-bot-president/internal/application/dto"
	"github.com/MarkTaylorTsai/line-bot-president/internal/application/service"
	"github.com/MarkTaylorTsai/line-bot-president/internal/infrastructure/line"
	appErrors "github.com/MarkTaylorTsai/line-bot-president/internal/pkg/errors"
	"github.com/MarkTaylorTsai/line-bot-president/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

const usageText = `📖 使用方式
新增 <應試者> <面試官> <YYYY-MM-DD> <HH:MM> [事由]
查詢(列出自己建立的面試)
修改 <編號> <欄位>=<新值>(欄位:應試者/面試官/日期/時間/事由)
刪除 <編號>
幫助(顯示本說明)`

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	lineClient       *line.Client
	interviewService service.InterviewService
	contactService   service.ContactService
	log              logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(
	lineClient *line.Client,
	interviewService service.InterviewService,
	contactService service.ContactService,
	log logger.Logger,
) *LineHandler {
	return &LineHandler{
		lineClient:       lineClient,
		interviewService: interviewService,
		contactService:   contactService,
		log:              log,
	}
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	events, err := h.lineClient.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.String(http.StatusBadRequest, "Invalid signature")
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.String(http.StatusInternalServerError, "Error parsing request")
	}

	for _, event := range events {
		h.log.Info(fmt.Sprintf("Processing event type: %s", event.Type))
		switch event.Type {
		case linebot.EventTypeMessage:
			h.handleMessageEvent(ctx, event)
		case linebot.EventTypeFollow, linebot.EventTypeJoin:
			h.handleSubscribeEvent(ctx, event)
		case linebot.EventTypeUnfollow, linebot.EventTypeLeave:
			h.handleUnsubscribeEvent(ctx, event)
		default:
			h.log.Info(fmt.Sprintf("Unhandled event type: %s", event.Type))
		}
	}

	return c.String(http.StatusOK, "OK")
}

// sourceID returns the opt-in identifier for an event: the group ID when
// the event comes from a group chat, the user ID otherwise.
func sourceID(event *linebot.Event) string {
	if event.Source.GroupID != "" {
		return event.Source.GroupID
	}
	return event.Source.UserID
}

// handleSubscribeEvent processes follow and join events as opt-ins.
func (h *LineHandler) handleSubscribeEvent(ctx context.Context, event *linebot.Event) {
	id := sourceID(event)
	if err := h.contactService.Subscribe(ctx, id); err != nil {
		// Error already logged by service
		return
	}

	if event.ReplyToken != "" {
		welcome := linebot.NewTextMessage("✅ 已加入面試提醒名單。輸入「幫助」查看指令說明。")
		if err := h.lineClient.SendMessages(event.ReplyToken, welcome); err != nil {
			h.log.Error(fmt.Sprintf("Failed to send welcome reply to %s", id), err)
		}
	}
}

// handleUnsubscribeEvent processes unfollow and leave events as opt-outs.
func (h *LineHandler) handleUnsubscribeEvent(ctx context.Context, event *linebot.Event) {
	id := sourceID(event)
	h.log.Info(fmt.Sprintf("Source %s unfollowed or removed the bot.", id))
	if err := h.contactService.Unsubscribe(ctx, id); err != nil {
		// Error already logged by service; no reply possible
		return
	}
}

// handleMessageEvent dispatches text commands.
func (h *LineHandler) handleMessageEvent(ctx context.Context, event *linebot.Event) {
	message, ok := event.Message.(*linebot.TextMessage)
	if !ok {
		h.log.Debug("Received non-text message, ignoring")
		return
	}

	senderID := event.Source.UserID
	replyToken := event.ReplyToken
	text := strings.TrimSpace(message.Text)
	h.log.Info(fmt.Sprintf("Received text message from %s: %s", senderID, text))

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "新增":
		h.handleAdd(ctx, replyToken, senderID, fields[1:])
	case "查詢":
		h.handleList(ctx, replyToken, senderID)
	case "修改":
		h.handleUpdate(ctx, replyToken, senderID, fields[1:])
	case "刪除":
		h.handleDelete(ctx, replyToken, senderID, fields[1:])
	case "幫助":
		h.replyText(replyToken, usageText)
	default:
		// Group chatter is not addressed to the bot; stay silent.
	}
}

// handleAdd processes 新增 <應試者> <面試官> <日期> <時間> [事由].
func (h *LineHandler) handleAdd(ctx context.Context, replyToken, senderID string, args []string) {
	if len(args) < 4 {
		h.replyWithError(replyToken, "格式錯誤。"+usageText)
		return
	}

	req := dto.CreateInterviewRequest{
		OwnerID:     senderID,
		Interviewee: args[0],
		Interviewer: args[1],
		Date:        args[2],
		Time:        args[3],
		Reason:      strings.Join(args[4:], " "),
	}
	resp, err := h.interviewService.CreateInterview(ctx, req)
	if err != nil {
		h.replyWithError(replyToken, userErrorMessage(err))
		return
	}

	reply := fmt.Sprintf("✅ 已新增面試 #%d\n日期:%s\n時間:%s\n應試者:%s\n面試官:%s",
		resp.ID, resp.Date, resp.Time, resp.Interviewee, resp.Interviewer)
	if resp.Reason != "" {
		reply += "\n事由:" + resp.Reason
	}
	h.replyText(replyToken, reply)
}

// handleList processes 查詢.
func (h *LineHandler) handleList(ctx context.Context, replyToken, senderID string) {
	items, err := h.interviewService.ListInterviews(ctx, senderID)
	if err != nil {
		h.replyWithError(replyToken, userErrorMessage(err))
		return
	}
	if len(items) == 0 {
		h.replyText(replyToken, "目前沒有您建立的面試。")
		return
	}

	var b strings.Builder
	b.WriteString("📋 您建立的面試")
	for _, item := range items {
		fmt.Fprintf(&b, "\n#%d %s %s %s/%s", item.ID, item.Date, item.Time, item.Interviewee, item.Interviewer)
	}
	h.replyText(replyToken, b.String())
}

// handleUpdate processes 修改 <編號> <欄位>=<新值>...
func (h *LineHandler) handleUpdate(ctx context.Context, replyToken, senderID string, args []string) {
	if len(args) < 2 {
		h.replyWithError(replyToken, "格式錯誤。"+usageText)
		return
	}
	id, err := parseInterviewID(args[0])
	if err != nil {
		h.replyWithError(replyToken, "無效的編號:"+args[0])
		return
	}

	req := dto.UpdateInterviewRequest{OwnerID: senderID, ID: id}
	for _, pair := range args[1:] {
		key, value, found := strings.Cut(pair, "=")
		if !found || value == "" {
			h.replyWithError(replyToken, "格式錯誤:"+pair)
			return
		}
		v := value
		switch key {
		case "應試者":
			req.Interviewee = &v
		case "面試官":
			req.Interviewer = &v
		case "日期":
			req.Date = &v
		case "時間":
			req.Time = &v
		case "事由":
			req.Reason = &v
		default:
			h.replyWithError(replyToken, "無效的欄位:"+key)
			return
		}
	}

	resp, err := h.interviewService.UpdateInterview(ctx, req)
	if err != nil {
		h.replyWithError(replyToken, userErrorMessage(err))
		return
	}
	h.replyText(replyToken, fmt.Sprintf("✅ 已更新面試 #%d\n日期:%s\n時間:%s\n應試者:%s\n面試官:%s",
		resp.ID, resp.Date, resp.Time, resp.Interviewee, resp.Interviewer))
}

// handleDelete processes 刪除 <編號>.
func (h *LineHandler) handleDelete(ctx context.Context, replyToken, senderID string, args []string) {
	if len(args) != 1 {
		h.replyWithError(replyToken, "格式錯誤。"+usageText)
		return
	}
	id, err := parseInterviewID(args[0])
	if err != nil {
		h.replyWithError(replyToken, "無效的編號:"+args[0])
		return
	}

	if err := h.interviewService.DeleteInterview(ctx, senderID, id); err != nil {
		h.replyWithError(replyToken, userErrorMessage(err))
		return
	}
	h.replyText(replyToken, fmt.Sprintf("🗑️ 已刪除面試 #%d", id))
}

func parseInterviewID(s string) (uint, error) {
	s = strings.TrimPrefix(s, "#")
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// userErrorMessage maps application errors onto user-facing reply text.
func userErrorMessage(err error) string {
	for _, sentinel := range []error{
		appErrors.ErrInterviewNotFound,
		appErrors.ErrInvalidDateTime,
		appErrors.ErrInvalidField,
		appErrors.ErrPastDateTime,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return appErrors.ErrInternalServer.Error()
}

func (h *LineHandler) replyText(replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := h.lineClient.SendMessages(replyToken, linebot.NewTextMessage(text)); err != nil {
		h.log.Error("Failed to send reply message", err)
	}
}

func (h *LineHandler) replyWithError(replyToken, msg string) {
	h.replyText(replyToken, "❌ "+msg)
}
