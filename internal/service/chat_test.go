package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"

	"MindTrack/internal/model"
	pkgerrors "MindTrack/pkg/errors"
	"MindTrack/pkg/llm"
)

func TestChatSendValidation(t *testing.T) {
	svc := NewChatService(&fakeChats{}, &fakeEntries{}, &fakeGenerator{reply: "hi", source: llm.SourceLLM})

	_, err := svc.Send(context.Background(), 1, &model.ChatRequest{Message: "   "})
	assert.Assert(t, errors.Is(err, pkgerrors.ChatMessageRequired))

	_, err = svc.Send(context.Background(), 1, &model.ChatRequest{Message: strings.Repeat("好", maxChatMessageRunes+1)})
	assert.Assert(t, errors.Is(err, pkgerrors.ChatMessageTooLong))

	_, err = svc.Send(context.Background(), 1, &model.ChatRequest{Message: strings.Repeat("好", maxChatMessageRunes)})
	assert.Nil(t, err)
}

func TestChatSendUsesRecentEntryAndHistory(t *testing.T) {
	chats := &fakeChats{}
	entries := &fakeEntries{entries: []model.WellnessEntry{
		{UserID: 1, RecordedAt: time.Now().Add(-time.Hour), MoodToday: 3, PredictedMood: "sad"},
	}}
	gen := &fakeGenerator{reply: "That sounds hard.", source: llm.SourceLLM}
	svc := NewChatService(chats, entries, gen)

	_, err := svc.Send(context.Background(), 1, &model.ChatRequest{Message: "hello"})
	assert.Nil(t, err)
	reply, err := svc.Send(context.Background(), 1, &model.ChatRequest{Message: " rough day "})
	assert.Nil(t, err)

	assert.DeepEqual(t, "That sounds hard.", reply.Message)
	assert.DeepEqual(t, "llm", reply.Source)
	assert.DeepEqual(t, "", reply.Note)
	assert.DeepEqual(t, "rough day", gen.last.Message)
	assert.DeepEqual(t, 3.0, gen.last.Recent.MoodToday)
	assert.DeepEqual(t, 2, len(gen.last.History))

	history, err := svc.History(context.Background(), 1)
	assert.Nil(t, err)
	assert.DeepEqual(t, 4, len(history))
	assert.DeepEqual(t, "user", history[2].Role)
	assert.DeepEqual(t, "sad", *history[3].MoodContext)
}

func TestChatFallbackReplyIsRecorded(t *testing.T) {
	chats := &fakeChats{}
	svc := NewChatService(chats, &fakeEntries{}, &fakeGenerator{err: errors.New("upstream 503"), source: llm.SourceLLM})

	reply, err := svc.Send(context.Background(), 1, &model.ChatRequest{Message: "hi"})
	assert.Nil(t, err)
	assert.DeepEqual(t, llm.FallbackReply, reply.Message)
	assert.DeepEqual(t, "fallback", reply.Source)
	assert.DeepEqual(t, 2, len(chats.msgs))
	assert.Assert(t, chats.msgs[1].MoodContext == nil)
}

func TestChatLocalSourceAddsNote(t *testing.T) {
	svc := NewChatService(&fakeChats{}, &fakeEntries{}, llm.NewLocalGenerator())

	reply, err := svc.Send(context.Background(), 1, &model.ChatRequest{Message: "hi"})
	assert.Nil(t, err)
	assert.DeepEqual(t, "local", reply.Source)
	assert.DeepEqual(t, localSourceNote, reply.Note)
}

func TestChatClear(t *testing.T) {
	chats := &fakeChats{}
	svc := NewChatService(chats, &fakeEntries{}, &fakeGenerator{reply: "ok", source: llm.SourceLLM})
	ctx := context.Background()

	_, err := svc.Send(ctx, 1, &model.ChatRequest{Message: "a"})
	assert.Nil(t, err)
	_, err = svc.Send(ctx, 2, &model.ChatRequest{Message: "b"})
	assert.Nil(t, err)

	n, err := svc.Clear(ctx, 1)
	assert.Nil(t, err)
	assert.DeepEqual(t, int64(2), n)

	history, err := svc.History(ctx, 1)
	assert.Nil(t, err)
	assert.DeepEqual(t, 0, len(history))
	assert.DeepEqual(t, 2, len(chats.msgs))
}

func TestChatPersistenceFailure(t *testing.T) {
	svc := NewChatService(&fakeChats{appendErr: errors.New("disk full")}, &fakeEntries{}, &fakeGenerator{reply: "ok", source: llm.SourceLLM})
	_, err := svc.Send(context.Background(), 1, &model.ChatRequest{Message: "hi"})
	assert.Assert(t, errors.Is(err, pkgerrors.PersistenceFailed))
}
