package moderation

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"streamchat/domain"
	"streamchat/mocks"
)

func TestDisplayFilter_MasksBeforeDisplay(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	moderator, err := NewModerator([]string{"idiot"}, '*', log)
	req.NoError(err)

	next := mocks.NewMockDisplaySink(ctrl)
	// The sink only ever sees the masked text
	next.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "you ***** !")).Return(nil).Times(1)

	filter := NewDisplayFilter(NewHolder(moderator), next, log)
	req.NoError(filter.Display(context.Background(), domain.NewMessage("tim", "you idiot !")))
}

func TestDisplayFilter_CleanLinesPassThroughUntouched(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	moderator, err := NewModerator([]string{"idiot"}, '*', log)
	req.NoError(err)

	next := mocks.NewMockDisplaySink(ctrl)
	next.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "shall we play a game?")).Return(nil).Times(1)

	filter := NewDisplayFilter(NewHolder(moderator), next, log)
	req.NoError(filter.Display(context.Background(), domain.NewMessage("tim", "shall we play a game?")))
}

func TestDisplayFilter_SwappedModeratorTakesEffect(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	before, err := NewModerator([]string{"idiot"}, '*', log)
	req.NoError(err)
	after, err := NewModerator([]string{"plonker"}, '*', log)
	req.NoError(err)

	holder := NewHolder(before)
	next := mocks.NewMockDisplaySink(ctrl)
	next.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "what a plonker")).Return(nil).Times(1)
	next.EXPECT().Display(gomock.Any(), domain.NewMessage("tim", "what a *******")).Return(nil).Times(1)

	filter := NewDisplayFilter(holder, next, log)
	req.NoError(filter.Display(context.Background(), domain.NewMessage("tim", "what a plonker")))

	holder.Swap(after)
	req.NoError(filter.Display(context.Background(), domain.NewMessage("tim", "what a plonker")))
}
