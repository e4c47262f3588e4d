package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"auvora-crm/database"
	"auvora-crm/internal/api/httpx"
	"auvora-crm/internal/domain/messaging"
	"auvora-crm/internal/domain/studio"
	"auvora-crm/internal/infra/logger"
	"auvora-crm/internal/infra/mailer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// deliver hands the message to the channel's sender. Only email has a real
// transport; sms and in-app are logged.
func deliver(ctx context.Context, m messaging.Message) error {
	mail := mailer.Mail{To: m.Recipient, Subject: m.Subject, Text: m.Body}
	switch m.Channel {
	case messaging.ChannelEmail:
		return mailer.Default.Send(ctx, mail)
	default:
		mail.Subject = fmt.Sprintf("[%s] %s", m.Channel, m.Subject)
		return mailer.LogSender{}.Send(ctx, mail)
	}
}

// recipientFor picks the member's address on channel.
func recipientFor(channel string, m studio.Member) string {
	switch channel {
	case messaging.ChannelEmail:
		return m.Email
	case messaging.ChannelSMS:
		return m.Phone
	default:
		return fmt.Sprintf("member:%d", m.ID)
	}
}

// sendAndStore delivers msg and saves it with the outcome.
func sendAndStore(ctx context.Context, msg *messaging.Message) error {
	msg.MarkResult(deliver(ctx, *msg), time.Now())
	return database.DB.Create(msg).Error
}

type sendInput struct {
	MemberID  *uint  `json:"member_id"`
	Recipient string `json:"recipient"`
	Channel   string `json:"channel" binding:"required"`
	Subject   string `json:"subject"`
	Body      string `json:"body" binding:"required"`
}

// POST /api/messages
func SendMessage(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input sendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := messaging.Message{
		TenantID:  tenantID,
		Channel:   input.Channel,
		Recipient: strings.TrimSpace(input.Recipient),
		Subject:   input.Subject,
		Body:      strings.TrimSpace(input.Body),
		Status:    messaging.StatusQueued,
	}
	if uid := c.GetUint("user_id"); uid != 0 {
		msg.SenderID = &uid
	}

	if input.MemberID != nil {
		var m studio.Member
		if err := database.DB.Scopes(httpx.ForTenant(tenantID)).First(&m, *input.MemberID).Error; err != nil {
			httpx.NotFoundOr500(c, err, "Member")
			return
		}
		msg.MemberID = &m.ID
		if msg.Recipient == "" {
			msg.Recipient = recipientFor(msg.Channel, m)
		}
	}

	if err := msg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sendAndStore(c.Request.Context(), &msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}
	if msg.Status == messaging.StatusFailed {
		logger.FromContext(c).Warn("message delivery failed", zap.Uint("message_id", msg.ID), zap.String("error", msg.Error))
	}

	c.JSON(http.StatusCreated, msg)
}

type broadcastInput struct {
	Channel      string `json:"channel" binding:"required"`
	MemberStatus string `json:"member_status"`
	Subject      string `json:"subject"`
	Body         string `json:"body" binding:"required"`
}

// POST /api/messages/broadcast sends to every member with the given status
// (active by default). Members without an address on the channel are
// skipped.
func Broadcast(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	var input broadcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !messaging.ValidChannel(input.Channel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": messaging.ErrInvalidChannel.Error()})
		return
	}
	status := input.MemberStatus
	if status == "" {
		status = studio.MemberActive
	}
	if !studio.ValidMemberStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": studio.ErrInvalidMemberStatus.Error()})
		return
	}

	var members []studio.Member
	if err := database.DB.Scopes(httpx.ForTenant(tenantID)).Where("status = ?", status).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}

	var senderID *uint
	if uid := c.GetUint("user_id"); uid != 0 {
		senderID = &uid
	}

	sent, failed, skipped := 0, 0, 0
	var errs []error
	for i := range members {
		m := members[i]
		msg := messaging.Message{
			TenantID:  tenantID,
			MemberID:  &m.ID,
			SenderID:  senderID,
			Channel:   input.Channel,
			Recipient: recipientFor(input.Channel, m),
			Subject:   input.Subject,
			Body:      strings.TrimSpace(input.Body),
		}
		if err := msg.Validate(); err != nil {
			if errors.Is(err, messaging.ErrNoRecipient) {
				skipped++
				continue
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := sendAndStore(c.Request.Context(), &msg); err != nil {
			errs = append(errs, err)
			continue
		}
		if msg.Status == messaging.StatusSent {
			sent++
		} else {
			failed++
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.FromContext(c).Error("broadcast partially failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save some messages", "sent": sent})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipients": len(members),
		"sent":       sent,
		"failed":     failed,
		"skipped":    skipped,
	})
}

// GET /api/messages?member_id=&channel=
func ListMessages(c *gin.Context) {
	tenantID, ok := httpx.MustTenantID(c)
	if !ok {
		return
	}

	q := database.DB.Scopes(httpx.ForTenant(tenantID))
	if v := c.Query("member_id"); v != "" {
		q = q.Where("member_id = ?", v)
	}
	if v := c.Query("channel"); v != "" {
		q = q.Where("channel = ?", v)
	}

	list := []messaging.Message{}
	if err := q.Order("created_at DESC").Limit(500).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, list)
}
