package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"MindTrack/config"
	"MindTrack/pkg/logger"
)

// Source 标记回复的来源
type Source string

const (
	SourceLLM      Source = "llm"
	SourceLocal    Source = "local"
	SourceFallback Source = "fallback"
)

// FallbackReply 在生成失败时返回给用户，对话依旧会被记录
const FallbackReply = "I'm experiencing a technical issue, but I want you to know that your wellbeing is important. " +
	"Please take care of yourself today. Consider what helps you feel better and do that."

// Snapshot 是最近一次打卡的数据，用于给助手提供上下文
type Snapshot struct {
	MoodToday                float64
	SleepHours               float64
	SleepQuality             float64
	StressLevel              float64
	AnxietyLevel             float64
	ExerciseMinutes          float64
	SocialInteractionMinutes float64
	ScreenTime               float64
	PredictedMood            string
}

// Turn 是一条历史消息
type Turn struct {
	Role    string
	Content string
}

// PromptContext 是一次生成的全部输入
type PromptContext struct {
	UserID  int64
	Message string
	Recent  *Snapshot
	History []Turn
}

// Generator 对话生成接口，调用方不感知具体实现
type Generator interface {
	Generate(ctx context.Context, p PromptContext) (string, error)
	Source() Source
}

var (
	generator Generator
	genOnce   sync.Once
)

// Init 按配置选择生成器：配置了 LLM_API_KEY 时使用 OpenAI 兼容接口，否则使用本地生成器
func Init() Generator {
	genOnce.Do(func() {
		cfg := config.Cfg
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			generator = NewLocalGenerator()
			logger.Logger.Info("LLM generator initialized", zap.String("source", string(SourceLocal)))
			return
		}

		generator = NewOpenAIGenerator(OpenAIConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout(),
		})
		logger.Logger.Info("LLM generator initialized",
			zap.String("source", string(SourceLLM)),
			zap.String("model", cfg.LLMModel),
		)
	})

	return generator
}

// GetGenerator 返回全局生成器，首次调用时按配置初始化
func GetGenerator() Generator {
	return Init()
}

// ContextText 把最近一次打卡整理成提示词里的上下文
func ContextText(s *Snapshot) string {
	if s == nil {
		return "No recent wellness data available."
	}

	var sb strings.Builder
	sb.WriteString("User's recent wellness data:\n")
	fmt.Fprintf(&sb, "- Mood today: %g/10\n", s.MoodToday)
	fmt.Fprintf(&sb, "- Sleep: %g hours (Quality: %g/5)\n", s.SleepHours, s.SleepQuality)
	fmt.Fprintf(&sb, "- Stress level: %g/10\n", s.StressLevel)
	fmt.Fprintf(&sb, "- Anxiety level: %g/10\n", s.AnxietyLevel)
	fmt.Fprintf(&sb, "- Exercise: %g minutes\n", s.ExerciseMinutes)
	fmt.Fprintf(&sb, "- Social interaction: %g minutes\n", s.SocialInteractionMinutes)
	fmt.Fprintf(&sb, "- Predicted mood: %s\n", s.PredictedMood)
	fmt.Fprintf(&sb, "- Screen time: %g hours", s.ScreenTime)
	return sb.String()
}

// SystemPrompt 构造系统提示词
func SystemPrompt(p PromptContext) string {
	return `You are a compassionate mental health support chatbot named "MindTrack Assistant".
Based on the user's wellness data and conversation history, provide personalized, supportive mental health suggestions.
Be empathetic, non-judgmental, and encourage healthy habits.
If the user mentions suicidal thoughts or severe mental health crisis, encourage them to contact professional help.

User Context:
` + ContextText(p.Recent) + `

Provide a helpful, supportive response (1-2 paragraphs).`
}
