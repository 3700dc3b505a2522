package llm

import (
	"context"
	"hash/fnv"
)

var localReplies = []string{
	"I appreciate you sharing that with me. That sounds challenging. Remember, it's okay to take things one step at a time. What small step could you take today to help yourself feel better?",
	"Thank you for opening up. Your wellness matters. Based on your data, I notice you might benefit from some self-care. Have you considered taking a short walk or connecting with someone today?",
	"I'm here to support you. It's great that you're tracking your wellness - that shows you care about yourself. Keep up the positive steps!",
	"That's valuable information to share. Mental health is a journey, and every small effort counts. What's one thing that usually helps you feel better?",
}

var moodReplies = map[string]string{
	"stressed": "It sounds like things have been heavy lately. Your recent check-in shows high stress or anxiety. A few slow breaths, a short break away from screens, or a quick walk can take the edge off. What is weighing on you most right now?",
	"sad":      "I'm sorry you're feeling low. Your recent check-in suggests a tough stretch. Reaching out to someone you trust, even briefly, can help. If these feelings get overwhelming, please consider talking to a professional.",
}

// LocalGenerator 不依赖外部服务的确定性生成器，相同输入总是得到相同回复
type LocalGenerator struct{}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

func (g *LocalGenerator) Source() Source {
	return SourceLocal
}

func (g *LocalGenerator) Generate(_ context.Context, p PromptContext) (string, error) {
	if p.Recent != nil {
		if reply, ok := moodReplies[p.Recent.PredictedMood]; ok {
			return reply, nil
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(p.Message))
	return localReplies[int(h.Sum32()%uint32(len(localReplies)))], nil
}
