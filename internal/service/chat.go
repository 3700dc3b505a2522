package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"MindTrack/internal/model"
	"MindTrack/internal/repository"
	pkgerrors "MindTrack/pkg/errors"
	"MindTrack/pkg/llm"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/storage/database"
)

const (
	maxChatMessageRunes = 2000
	chatHistoryTurns    = 10
	localSourceNote     = "Using local replies - configure LLM_API_KEY for AI-generated responses"
)

var (
	chatService *ChatService
	chatOnce    sync.Once
)

// Chat 返回全局对话服务
func Chat() *ChatService {
	chatOnce.Do(func() {
		db := database.DB()
		chatService = NewChatService(
			repository.NewChatRepository(db),
			repository.NewWellnessRepository(db),
			llm.GetGenerator(),
		)
	})
	return chatService
}

type ChatService struct {
	chats     repository.ChatRepository
	entries   repository.WellnessRepository
	generator llm.Generator
}

func NewChatService(chats repository.ChatRepository, entries repository.WellnessRepository, generator llm.Generator) *ChatService {
	return &ChatService{chats: chats, entries: entries, generator: generator}
}

// Send 生成一条回复并记录这轮对话。生成失败时返回固定的兜底回复，对话依旧落库。
func (s *ChatService) Send(ctx context.Context, userID int64, req *model.ChatRequest) (*model.ChatReplyData, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, pkgerrors.ChatMessageRequired
	}
	if utf8.RuneCountInString(message) > maxChatMessageRunes {
		return nil, pkgerrors.ChatMessageTooLong
	}

	latest, err := s.entries.Latest(ctx, userID)
	if err != nil {
		logger.Ctx(ctx).Warn("Failed to load latest entry for chat context", zap.Int64("user_id", userID), zap.Error(err))
		latest = nil
	}

	prompt := llm.PromptContext{UserID: userID, Message: message}
	var moodContext *string
	if latest != nil {
		prompt.Recent = snapshotOf(latest)
		mood := latest.PredictedMood
		moodContext = &mood
	}

	history, err := s.chats.Recent(ctx, userID, chatHistoryTurns)
	if err != nil {
		logger.Ctx(ctx).Warn("Failed to load chat history", zap.Int64("user_id", userID), zap.Error(err))
	}
	for _, m := range history {
		prompt.History = append(prompt.History, llm.Turn{Role: string(m.Role), Content: m.Content})
	}

	start := time.Now()
	source := s.generator.Source()
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		logger.Ctx(ctx).Warn("Chat generation failed, using fallback reply",
			zap.Int64("user_id", userID),
			zap.String("source", string(source)),
			zap.Error(err),
		)
		reply = llm.FallbackReply
		source = llm.SourceFallback
	}
	metrics.RecordChatReply(ctx, string(source), time.Since(start).Seconds())

	if err := s.chats.Append(ctx,
		&model.ChatMessage{UserID: userID, Role: model.ChatRoleUser, Content: message},
		&model.ChatMessage{UserID: userID, Role: model.ChatRoleAssistant, Content: reply, MoodContext: moodContext},
	); err != nil {
		logger.Ctx(ctx).Error("Failed to save chat exchange", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.PersistenceFailed
	}

	data := &model.ChatReplyData{Message: reply, Source: string(source)}
	if source == llm.SourceLocal {
		data.Note = localSourceNote
	}
	return data, nil
}

// History 返回完整对话记录，按时间升序
func (s *ChatService) History(ctx context.Context, userID int64) ([]model.ChatMessageData, error) {
	msgs, err := s.chats.List(ctx, userID)
	if err != nil {
		logger.Ctx(ctx).Error("Failed to list chat history", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.QueryFailed
	}

	out := make([]model.ChatMessageData, 0, len(msgs))
	for i := range msgs {
		out = append(out, model.NewChatMessageData(&msgs[i]))
	}
	return out, nil
}

// Clear 删除该用户的对话记录，返回删除条数
func (s *ChatService) Clear(ctx context.Context, userID int64) (int64, error) {
	n, err := s.chats.Clear(ctx, userID)
	if err != nil {
		logger.Ctx(ctx).Error("Failed to clear chat history", zap.Int64("user_id", userID), zap.Error(err))
		return 0, pkgerrors.PersistenceFailed
	}
	return n, nil
}

func snapshotOf(e *model.WellnessEntry) *llm.Snapshot {
	return &llm.Snapshot{
		MoodToday:                e.MoodToday,
		SleepHours:               e.SleepHours,
		SleepQuality:             e.SleepQuality,
		StressLevel:              e.StressLevel,
		AnxietyLevel:             e.AnxietyLevel,
		ExerciseMinutes:          e.ExerciseMinutes,
		SocialInteractionMinutes: e.SocialInteractionMinutes,
		ScreenTime:               e.ScreenTime,
		PredictedMood:            e.PredictedMood,
	}
}
