package controllers

import (
	"net/http"
	"strconv"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"

	"github.com/gin-gonic/gin"
)

// SendMessage delivers an internal message to another active user. Setting
// parent_message_id makes it a reply in that thread.
func SendMessage(c *gin.Context) {
	userID, _ := c.Get("userID")

	type MessageRequest struct {
		RecipientID     int    `json:"recipient_id" binding:"required"`
		Subject         string `json:"subject" binding:"required"`
		Body            string `json:"body" binding:"required"`
		ParentMessageID *int   `json:"parent_message_id"`
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RecipientID == userID.(int) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a message to yourself"})
		return
	}

	var recipient models.User
	if err := config.DB.Where("user_id = ? AND is_active = ? AND delete_at IS NULL",
		req.RecipientID, true).First(&recipient).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient not found"})
		return
	}

	if req.ParentMessageID != nil {
		var parent models.Message
		if err := config.DB.Where("message_id = ? AND (sender_id = ? OR recipient_id = ?) AND delete_at IS NULL",
			*req.ParentMessageID, userID, userID).First(&parent).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent message not found"})
			return
		}
	}

	message := models.Message{
		SenderID:        userID.(int),
		RecipientID:     req.RecipientID,
		Subject:         req.Subject,
		Body:            req.Body,
		ParentMessageID: req.ParentMessageID,
		CreateAt:        time.Now(),
	}

	if err := config.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent",
		"data":    message,
	})
}

// GetInbox lists messages received by the caller, newest first.
func GetInbox(c *gin.Context) {
	userID, _ := c.Get("userID")

	var messages []models.Message
	query := config.DB.Preload("Sender").
		Where("recipient_id = ? AND delete_at IS NULL", userID)

	if unread := c.Query("unread"); unread == "true" {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Order("create_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// GetSentMessages lists messages the caller sent.
func GetSentMessages(c *gin.Context) {
	userID, _ := c.Get("userID")

	var messages []models.Message
	if err := config.DB.Preload("Recipient").
		Where("sender_id = ? AND delete_at IS NULL", userID).
		Order("create_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// GetThread returns a message and all replies chained to it, oldest first.
// Only participants can read a thread.
func GetThread(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}
	userID, _ := c.Get("userID")

	var root models.Message
	if err := config.DB.Where("message_id = ? AND delete_at IS NULL", id).
		First(&root).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	// Walk up to the thread root if a reply id was passed.
	for root.ParentMessageID != nil {
		var parent models.Message
		if err := config.DB.Where("message_id = ? AND delete_at IS NULL",
			*root.ParentMessageID).First(&parent).Error; err != nil {
			break
		}
		root = parent
	}

	if root.SenderID != userID.(int) && root.RecipientID != userID.(int) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this conversation"})
		return
	}

	var replies []models.Message
	config.DB.Preload("Sender").Preload("Recipient").
		Where("parent_message_id = ? AND delete_at IS NULL", root.MessageID).
		Order("create_at ASC").Find(&replies)

	var rootFull models.Message
	config.DB.Preload("Sender").Preload("Recipient").
		Where("message_id = ?", root.MessageID).First(&rootFull)

	c.JSON(http.StatusOK, gin.H{
		"root":    rootFull,
		"replies": replies,
	})
}

// MarkMessageRead marks a received message as read.
func MarkMessageRead(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var message models.Message
	if err := config.DB.Where("message_id = ? AND recipient_id = ? AND delete_at IS NULL",
		id, userID).First(&message).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if !message.IsRead {
		now := time.Now()
		if err := config.DB.Model(&models.Message{}).
			Where("message_id = ?", message.MessageID).
			Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}

// GetUnreadMessageCount returns the caller's unread badge count.
func GetUnreadMessageCount(c *gin.Context) {
	userID, _ := c.Get("userID")

	var count int64
	if err := config.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ? AND delete_at IS NULL", userID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// DeleteMessage soft-deletes a message from the caller's view.
func DeleteMessage(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var message models.Message
	if err := config.DB.Where("message_id = ? AND (sender_id = ? OR recipient_id = ?) AND delete_at IS NULL",
		id, userID, userID).First(&message).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Message{}).
		Where("message_id = ?", message.MessageID).
		Update("delete_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
