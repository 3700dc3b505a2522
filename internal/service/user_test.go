package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/test/assert"

	"MindTrack/internal/model"
	pkgerrors "MindTrack/pkg/errors"
)

func TestGetProfile(t *testing.T) {
	day := "2026-03-09"
	users := newFakeUsers(&model.User{PublicID: 7, Username: "bob", Email: "bob@example.com", FullName: "Bob", Streak: 3, LastCheckinDate: &day})
	svc := NewUserService(users)

	data, err := svc.GetProfile(context.Background(), 7)
	assert.Nil(t, err)
	assert.DeepEqual(t, "7", data.ID)
	assert.DeepEqual(t, 3, data.Streak)
	assert.DeepEqual(t, "2026-03-09", *data.LastCheckinDate)

	_, err = svc.GetProfile(context.Background(), 8)
	assert.Assert(t, errors.Is(err, pkgerrors.UserNotFound))
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUsers(&model.User{PublicID: 1, Username: "taken", Email: "taken@example.com", FullName: "T"})
	svc := NewUserService(users)
	ctx := context.Background()

	data, err := svc.UpdateProfile(ctx, 2, &model.UpdateProfileRequest{Username: " Carol ", Email: "carol@example.com", FullName: "Carol C"})
	assert.Nil(t, err)
	assert.DeepEqual(t, "carol", data.Username)
	assert.DeepEqual(t, "Carol C", users.users[2].FullName)

	_, err = svc.UpdateProfile(ctx, 2, &model.UpdateProfileRequest{Username: "taken", Email: "carol@example.com", FullName: "Carol"})
	assert.Assert(t, errors.Is(err, pkgerrors.UserAlreadyExists))

	_, err = svc.UpdateProfile(ctx, 2, &model.UpdateProfileRequest{Username: "ab", Email: "carol@example.com", FullName: "Carol"})
	assert.Assert(t, errors.Is(err, pkgerrors.UserProfileInvalid))

	_, err = svc.UpdateProfile(ctx, 2, &model.UpdateProfileRequest{Username: "carol", Email: "not-an-email", FullName: "Carol"})
	assert.Assert(t, errors.Is(err, pkgerrors.UserProfileInvalid))

	_, err = svc.UpdateProfile(ctx, 2, &model.UpdateProfileRequest{Username: "carol", Email: "carol@example.com", FullName: "  "})
	assert.DeepEqual(t, "fullName is required", err.Error())

	users.saveErr = errors.New("connection reset")
	_, err = svc.UpdateProfile(ctx, 2, &model.UpdateProfileRequest{Username: "carol", Email: "carol@example.com", FullName: "Carol"})
	assert.Assert(t, errors.Is(err, pkgerrors.PersistenceFailed))
}
