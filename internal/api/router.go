package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pitchforge/internal/deck"
	"pitchforge/internal/model"
	"pitchforge/internal/service"
	"pitchforge/internal/storage"
	"pitchforge/internal/tools"
)

// DeckGenerator 生成完整演示文稿
type DeckGenerator interface {
	GenerateDeck(ctx context.Context, idea string, useCase model.UseCase, theme model.Theme) (*model.Deck, error)
}

// Handler HTTP处理器
type Handler struct {
	generator DeckGenerator
	store     storage.Store
	slideTool einotool.InvokableTool
	now       func() time.Time
}

// NewHandler 创建处理器
func NewHandler(generator DeckGenerator, store storage.Store, slideTool einotool.InvokableTool) *Handler {
	return &Handler{generator: generator, store: store, slideTool: slideTool, now: time.Now}
}

// NewRouter 注册全部路由
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api")
	api.GET("/options", h.handleOptions)
	api.POST("/decks", h.handleGenerate)
	api.GET("/decks/:session", h.handleGetDeck)
	api.GET("/decks/:session/export", h.handleExport)
	api.GET("/decks/:session/share", h.handleShare)

	router.POST("/tools/slide-generate", h.handleSlideTool)
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

// generateSessionID 生成会话ID
func generateSessionID() string {
	return uuid.NewString()
}

type generateRequest struct {
	SessionID string `json:"session_id"`
	Idea      string `json:"idea"`
	UseCase   string `json:"use_case"`
	Theme     string `json:"theme"`
}

type deckResponse struct {
	SessionID     string      `json:"session_id"`
	Deck          *model.Deck `json:"deck"`
	Degraded      bool        `json:"degraded"`
	FallbackCount int         `json:"fallback_count"`
	Keywords      []string    `json:"keywords"`
	BusinessType  string      `json:"business_type"`
}

func newDeckResponse(sessionID string, d *model.Deck) deckResponse {
	return deckResponse{
		SessionID:     sessionID,
		Deck:          d,
		Degraded:      d.Degraded(),
		FallbackCount: d.FallbackCount(),
		Keywords:      deck.ExtractKeywords(d.Idea),
		BusinessType:  deck.DetectBusinessType(d.Idea),
	}
}

// handleOptions 返回可选的使用场景和主题
func (h *Handler) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"use_cases":   model.UseCases,
		"themes":      model.Themes,
		"slide_types": model.SlideTypes,
	})
}

// handleGenerate 校验输入，生成并保存演示文稿
func (h *Handler) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := deck.ValidateIdea(req.Idea); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	useCase, err := model.ParseUseCase(req.UseCase)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	theme, err := model.ParseTheme(req.Theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	d, err := h.generator.GenerateDeck(c.Request.Context(), req.Idea, useCase, theme)
	if err != nil {
		if errors.Is(err, service.ErrMissingCredential) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to generate pitch deck: %v", err)})
		return
	}

	if err := storage.SaveDeck(c.Request.Context(), h.store, req.SessionID, d); err != nil {
		logrus.WithError(err).WithField("session", req.SessionID).Error("save deck")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save pitch deck"})
		return
	}

	c.JSON(http.StatusOK, newDeckResponse(req.SessionID, d))
}

func (h *Handler) loadDeck(c *gin.Context) (*model.Deck, bool) {
	session := c.Param("session")
	d, err := storage.LoadDeck(c.Request.Context(), h.store, session)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pitch deck for this session"})
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("session", session).Error("load deck")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pitch deck"})
		return nil, false
	}
	return d, true
}

// handleGetDeck 读取已保存的演示文稿
func (h *Handler) handleGetDeck(c *gin.Context) {
	d, ok := h.loadDeck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newDeckResponse(c.Param("session"), d))
}

// handleExport 以附件形式返回纯文本导出
func (h *Handler) handleExport(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")
	name, err := deck.ExportFilename(format, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, ok := h.loadDeck(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(deck.ExportText(d)))
}

// handleShare 返回分享链接
func (h *Handler) handleShare(c *gin.Context) {
	d, ok := h.loadDeck(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, deck.BuildShareLinks(d.Idea))
}

// handleSlideTool 直接调用单张幻灯片生成工具
func (h *Handler) handleSlideTool(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.slideTool.InvokableRun(c.Request.Context(), string(body))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, tools.ErrMissingCredential) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": fmt.Sprintf("failed to generate slide: %v", err)})
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(result))
}
