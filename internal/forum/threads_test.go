package forum

import (
	"context"
	"testing"

	"github.com/eduflow/campus/internal/models"
	"github.com/eduflow/campus/internal/realtime"
	"github.com/eduflow/campus/internal/storage"
)

func TestCreateThread(t *testing.T) {
	fx := newFixture()

	view, err := fx.svc.CreateThread(context.Background(), author(), fx.topic.ID, ThreadInput{
		Title: "  Question about forms  ",
		Body:  "how do I submit one",
	})
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if view.ID == 0 {
		t.Fatal("expected assigned thread id")
	}
	if view.Title != "Question about forms" {
		t.Errorf("title = %q, want trimmed", view.Title)
	}
	if view.AuthorID != author().UserID {
		t.Errorf("author = %d, want %d", view.AuthorID, author().UserID)
	}

	events := fx.pub.byName(realtime.EventThreadCreated)
	if len(events) != 1 {
		t.Fatalf("got %d threadCreated events, want 1", len(events))
	}
	if events[0].Channel != realtime.TopicChannel(fx.topic.ID) {
		t.Errorf("event channel = %q, want topic channel", events[0].Channel)
	}
}

func TestCreateThreadValidation(t *testing.T) {
	fx := newFixture()

	tests := []struct {
		name    string
		topicID int64
		input   ThreadInput
		want    Kind
	}{
		{"empty submission", 1, ThreadInput{Title: "  ", Body: ""}, KindValidation},
		{"missing topic", 404, ThreadInput{Title: "hi"}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.CreateThread(context.Background(), author(), tt.topicID, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := KindOf(err); got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateThreadAttachmentOnly(t *testing.T) {
	fx := newFixture()

	view, err := fx.svc.CreateThread(context.Background(), author(), fx.topic.ID, ThreadInput{
		Attachment: &storage.Upload{TempPath: "/tmp/up", OriginalName: "notes.pdf"},
	})
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if view.Attachment == nil {
		t.Fatal("expected attachment on view")
	}
	if view.Attachment.Name != "notes.pdf" {
		t.Errorf("attachment name = %q", view.Attachment.Name)
	}
	if fx.placer.calls != 1 {
		t.Errorf("placer calls = %d, want 1", fx.placer.calls)
	}
	if len(fx.placer.lastOwner) != 2 || fx.placer.lastOwner[0] != "Programacao Web" {
		t.Errorf("placer owner = %v, want category and topic names", fx.placer.lastOwner)
	}
}

func TestCreateThreadStorageFailure(t *testing.T) {
	fx := newFixture()
	fx.placer.err = storage.ErrUnavailable

	_, err := fx.svc.CreateThread(context.Background(), author(), fx.topic.ID, ThreadInput{
		Title:      "with file",
		Attachment: &storage.Upload{TempPath: "/tmp/up", OriginalName: "a.png"},
	})
	if KindOf(err) != KindStorage {
		t.Fatalf("kind = %v, want storage", KindOf(err))
	}
	if _, err := fx.threads.GetByID(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	if len(fx.pub.events) != 0 {
		t.Errorf("no events expected on failed create, got %d", len(fx.pub.events))
	}
}

func TestEditThread(t *testing.T) {
	fx := newFixture()

	view, err := fx.svc.EditThread(context.Background(), author(), fx.thread.ID, "new title", "new body")
	if err != nil {
		t.Fatalf("EditThread: %v", err)
	}
	if view.Title != "new title" || view.Body != "new body" {
		t.Errorf("view = %q/%q", view.Title, view.Body)
	}

	events := fx.pub.byName(realtime.EventThreadUpdated)
	if len(events) != 1 || events[0].Channel != realtime.TopicChannel(fx.topic.ID) {
		t.Fatalf("expected one threadUpdated on the topic channel, got %v", events)
	}
}

func TestEditThreadAuthorization(t *testing.T) {
	fx := newFixture()

	if _, err := fx.svc.EditThread(context.Background(), stranger(), fx.thread.ID, "x", "y"); KindOf(err) != KindForbidden {
		t.Errorf("stranger edit kind = %v, want forbidden", KindOf(err))
	}
	if _, err := fx.svc.EditThread(context.Background(), moderator(), fx.thread.ID, "x", "y"); err != nil {
		t.Errorf("moderator edit: %v", err)
	}
}

func TestEditThreadCannotEmpty(t *testing.T) {
	fx := newFixture()

	if _, err := fx.svc.EditThread(context.Background(), author(), fx.thread.ID, "", "  "); KindOf(err) != KindValidation {
		t.Fatalf("kind = %v, want validation", KindOf(err))
	}

	// With an attachment in place the same edit is legal.
	fx.threads.mu.Lock()
	fx.threads.threads[fx.thread.ID].AttachmentURL = nullString("uploads/chat/x/y/conteudos/f.pdf")
	fx.threads.mu.Unlock()
	if _, err := fx.svc.EditThread(context.Background(), author(), fx.thread.ID, "", ""); err != nil {
		t.Fatalf("edit with attachment remaining: %v", err)
	}
}

func TestHideThread(t *testing.T) {
	fx := newFixture()

	if err := fx.svc.HideThread(context.Background(), author(), fx.thread.ID); err != nil {
		t.Fatalf("HideThread: %v", err)
	}

	if _, err := fx.svc.GetThread(context.Background(), fx.thread.ID); KindOf(err) != KindNotFound {
		t.Errorf("hidden thread should read as missing, kind = %v", KindOf(err))
	}

	events := fx.pub.byName(realtime.EventThreadHidden)
	if len(events) != 1 || events[0].Channel != realtime.TopicChannel(fx.topic.ID) {
		t.Fatalf("expected one threadHidden on the topic channel, got %v", events)
	}

	// A second hide finds nothing to hide.
	if err := fx.svc.HideThread(context.Background(), author(), fx.thread.ID); KindOf(err) != KindNotFound {
		t.Errorf("second hide kind = %v, want not found", KindOf(err))
	}
}

func TestHideThreadForbidden(t *testing.T) {
	fx := newFixture()

	if err := fx.svc.HideThread(context.Background(), stranger(), fx.thread.ID); KindOf(err) != KindForbidden {
		t.Fatalf("kind = %v, want forbidden", KindOf(err))
	}
	if _, err := fx.svc.GetThread(context.Background(), fx.thread.ID); err != nil {
		t.Errorf("thread should remain visible: %v", err)
	}
}

func TestListThreads(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := fx.svc.CreateThread(ctx, author(), fx.topic.ID, ThreadInput{Title: "t", Body: "b"}); err != nil {
			t.Fatal(err)
		}
	}

	views, pg, err := fx.svc.ListThreads(ctx, fx.topic.ID, models.SortRecent, Page{Number: 1, Size: 4})
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(views) != 4 {
		t.Errorf("page size = %d, want 4", len(views))
	}
	if pg.Total != 6 || pg.TotalPages != 2 || pg.CurrentPage != 1 || pg.PerPage != 4 {
		t.Errorf("pagination = %+v", pg)
	}

	views, _, err = fx.svc.ListThreads(ctx, fx.topic.ID, models.SortRecent, Page{Number: 2, Size: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Errorf("second page = %d items, want 2", len(views))
	}
}

func TestListThreadsExcludesHidden(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	if err := fx.svc.HideThread(ctx, author(), fx.thread.ID); err != nil {
		t.Fatal(err)
	}
	views, pg, err := fx.svc.ListThreads(ctx, fx.topic.ID, models.SortRecent, Page{})
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 || pg.Total != 0 {
		t.Errorf("hidden thread leaked into listing: %d items, total %d", len(views), pg.Total)
	}
}

func TestListThreadsUnknownTopic(t *testing.T) {
	fx := newFixture()

	_, _, err := fx.svc.ListThreads(context.Background(), 404, models.SortRecent, Page{})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind = %v, want not found", KindOf(err))
	}
}
