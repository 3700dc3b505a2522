package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"MindTrack/internal/model"
	"MindTrack/internal/repository"
	"MindTrack/internal/wellness"
	"MindTrack/pkg/llm"
)

type fakeUsers struct {
	users map[int64]*model.User
	// conflicts 次 CAS 失败，模拟并发写入者先一步推进了状态
	conflicts int
	// stale 时 CAS 永远不命中
	stale     bool
	casErr    error
	saveErr   error
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[int64]*model.User{}}
	for _, u := range users {
		f.users[u.PublicID] = u
	}
	return f
}

func (f *fakeUsers) FindByPublicID(_ context.Context, publicID int64) (*model.User, error) {
	u, ok := f.users[publicID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SaveProfile(_ context.Context, u *model.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for id, other := range f.users {
		if id != u.PublicID && (other.Username == u.Username || other.Email == u.Email) {
			return repository.ErrDuplicate
		}
	}
	if existing, ok := f.users[u.PublicID]; ok {
		existing.Username, existing.Email, existing.FullName = u.Username, u.Email, u.FullName
		*u = *existing
		return nil
	}
	cp := *u
	f.users[u.PublicID] = &cp
	return nil
}

func (f *fakeUsers) CompareAndSetStreak(_ context.Context, publicID int64, expectedLast *string, next wellness.StreakState) (bool, error) {
	if f.casErr != nil {
		return false, f.casErr
	}
	u, ok := f.users[publicID]
	if !ok {
		return false, nil
	}
	if f.stale {
		return false, nil
	}
	if f.conflicts > 0 {
		f.conflicts--
		day := next.LastCheckinDay
		u.Streak = next.Streak
		u.LastCheckinDate = &day
		return false, nil
	}
	if (expectedLast == nil) != (u.LastCheckinDate == nil) {
		return false, nil
	}
	if expectedLast != nil && *expectedLast != *u.LastCheckinDate {
		return false, nil
	}
	day := next.LastCheckinDay
	u.Streak = next.Streak
	u.LastCheckinDate = &day
	return true, nil
}

type fakeEntries struct {
	entries   []model.WellnessEntry
	createErr error
	queryErr  error
}

func (f *fakeEntries) Create(_ context.Context, e *model.WellnessEntry) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeEntries) MoodsSince(_ context.Context, userID int64, since time.Time) ([]float64, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []float64
	for _, e := range f.entries {
		if e.UserID == userID && !e.RecordedAt.Before(since) {
			out = append(out, e.MoodToday)
		}
	}
	return out, nil
}

func (f *fakeEntries) ListSince(_ context.Context, userID int64, since time.Time) ([]model.WellnessEntry, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []model.WellnessEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.RecordedAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out, nil
}

func (f *fakeEntries) ListRange(_ context.Context, userID int64, r wellness.DateRange) ([]model.WellnessEntry, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []model.WellnessEntry
	for _, e := range f.entries {
		if e.UserID == userID && r.Contains(e.RecordedAt) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (f *fakeEntries) Latest(ctx context.Context, userID int64) (*model.WellnessEntry, error) {
	list, err := f.ListSince(ctx, userID, time.Time{})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

type fakeChats struct {
	msgs      []model.ChatMessage
	appendErr error
}

func (f *fakeChats) Append(_ context.Context, msgs ...*model.ChatMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	for _, m := range msgs {
		m.ID = int64(len(f.msgs) + 1)
		f.msgs = append(f.msgs, *m)
	}
	return nil
}

func (f *fakeChats) Recent(_ context.Context, userID int64, limit int) ([]model.ChatMessage, error) {
	all, _ := f.List(context.Background(), userID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeChats) List(_ context.Context, userID int64) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range f.msgs {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChats) Clear(_ context.Context, userID int64) (int64, error) {
	kept := f.msgs[:0]
	var n int64
	for _, m := range f.msgs {
		if m.UserID == userID {
			n++
			continue
		}
		kept = append(kept, m)
	}
	f.msgs = kept
	return n, nil
}

type fakeGenerator struct {
	reply  string
	err    error
	source llm.Source
	last   llm.PromptContext
}

func (g *fakeGenerator) Generate(_ context.Context, p llm.PromptContext) (string, error) {
	g.last = p
	return g.reply, g.err
}

func (g *fakeGenerator) Source() llm.Source {
	return g.source
}

type fakeAnalytics struct {
	data        map[string][]byte
	invalidated []int64
	getErr      error
}

func newFakeAnalytics() *fakeAnalytics {
	return &fakeAnalytics{data: map[string][]byte{}}
}

func (f *fakeAnalytics) Get(_ context.Context, userID int64, kind, rangeKey string, dest interface{}) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	b, ok := f.data[kind+rangeKey]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (f *fakeAnalytics) Set(_ context.Context, userID int64, kind, rangeKey string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[kind+rangeKey] = b
	return nil
}

func (f *fakeAnalytics) Invalidate(_ context.Context, userID int64) error {
	f.invalidated = append(f.invalidated, userID)
	f.data = map[string][]byte{}
	return nil
}

type fakeIdempotency struct {
	keys map[string]bool
}

func (f *fakeIdempotency) Claim(_ context.Context, userID int64, key string) (bool, error) {
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotency) Release(_ context.Context, userID int64, key string) error {
	delete(f.keys, key)
	return nil
}

type fakeEvents struct {
	published []model.EntryCreatedMessage
	err       error
}

func (f *fakeEvents) PublishEntryCreated(_ context.Context, msg model.EntryCreatedMessage) error {
	f.published = append(f.published, msg)
	return f.err
}

type failingPredictor struct{}

func (failingPredictor) Predict(wellness.Features) (wellness.Label, error) {
	return "", &wellness.PredictionError{Field: "mood_today"}
}

func f64(v float64) *float64 { return &v }

func validMetrics(mood, stress, anxiety float64) wellness.Metrics {
	return wellness.Metrics{
		MoodToday:                f64(mood),
		SleepHours:               f64(7),
		SleepQuality:             f64(4),
		ExerciseMinutes:          f64(30),
		StressLevel:              f64(stress),
		ScreenTime:               f64(3),
		SocialInteractionMinutes: f64(60),
		WaterIntakeLiters:        f64(2),
		ProductivityLevel:        f64(6),
		AnxietyLevel:             f64(anxiety),
	}
}
