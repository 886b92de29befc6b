package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/models"
	"github.com/syntherra/PooDough/internal/service"
)

type fakeNotificationStore struct {
	created []models.Notification
}

func (f *fakeNotificationStore) Create(_ context.Context, n models.Notification) error {
	f.created = append(f.created, n)
	return nil
}

func TestRankOvertaken_TopFiveOnly(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := service.NewNotificationService(store, nil, "notify:events", zerolog.Nop())

	if err := svc.RankOvertaken(context.Background(), "u1", "Rival", 7, 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("ranks below the top five must not notify, got %d rows", len(store.created))
	}

	if err := svc.RankOvertaken(context.Background(), "u1", "Rival", 2, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.created))
	}

	n := store.created[0]
	if n.Status != models.NotificationPending {
		t.Fatalf("new notifications must be pending, got %q", n.Status)
	}
	if n.Data["lostTitle"] != "Porcelain Emperor 👑" {
		t.Fatalf("rank 1 must lose the emperor title, got %q", n.Data["lostTitle"])
	}
	if n.Data["type"] != models.NotificationTypeRankOvertaken {
		t.Fatalf("unexpected type %q", n.Data["type"])
	}
}

func TestFriendNotificationTexts(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := service.NewNotificationService(store, nil, "notify:events", zerolog.Nop())

	if err := svc.FriendRequest(context.Background(), "u2", "Alex"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.FriendAccepted(context.Background(), "u1", "Sam"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(store.created))
	}
	if store.created[0].Body != "Alex wants to be your poop buddy!" {
		t.Fatalf("unexpected request body: %q", store.created[0].Body)
	}
	if store.created[1].Body != "Sam accepted your friend request!" {
		t.Fatalf("unexpected accepted body: %q", store.created[1].Body)
	}
	if store.created[0].ToUserID != "u2" || store.created[1].ToUserID != "u1" {
		t.Fatalf("notifications addressed to the wrong users")
	}
}
