package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	matchrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/match"
	notificationrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/notification"
	pushrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/push"
	"github.com/yungbote/skillmatch-backend/internal/data/repos/testutil"
	userrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/user"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/platform/sendgrid"
	"github.com/yungbote/skillmatch-backend/internal/platform/webpush"
)

type fakeEmail struct {
	sent []sendgrid.SendEmailRequest
}

func (f *fakeEmail) Send(ctx context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.sent = append(f.sent, req)
	return &sendgrid.SendEmailResult{StatusCode: 202}, nil
}

type fakePush struct {
	sent []webpush.Payload
	gone map[string]bool
}

func (f *fakePush) Send(ctx context.Context, sub *types.PushSubscription, payload webpush.Payload) error {
	if f.gone[sub.Endpoint] {
		return webpush.ErrSubscriptionGone
	}
	f.sent = append(f.sent, payload)
	return nil
}

func TestDispatchCreatesBothNotificationRows(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	bob := testutil.SeedUser(t, ctx, gdb, "bob@example.com")
	ea := testutil.SeedEmbeddedEntry(t, ctx, gdb, alice.ID, "suche tennispartner", []float32{1})
	eb := testutil.SeedEmbeddedEntry(t, ctx, gdb, bob.ID, "biete tennistraining", []float32{1})

	matches := matchrepo.NewMatchRepo(gdb, log)
	m := &types.Match{EntryAID: ea.ID, EntryBID: eb.ID, Score: 0.91}
	if _, err := matches.InsertIfAbsent(ctx, nil, m); err != nil {
		t.Fatalf("insert match: %v", err)
	}

	notifs := notificationrepo.NewNotificationRepo(gdb, log)
	email := &fakeEmail{}
	push := &fakePush{}
	d := NewNotificationDispatcher(gdb, log, matches,
		notifs,
		pushrepo.NewPushSubscriptionRepo(gdb, log),
		userrepo.NewUserRepo(gdb, log),
		email, push,
	)

	n, err := d.Dispatch(ctx, []uuid.UUID{m.ID})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if n != 1 {
		t.Fatalf("dispatched = %d, want 1", n)
	}

	rows, err := notifs.ListByReferenceID(ctx, nil, m.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 notification rows, got %d", len(rows))
	}
	seen := map[uuid.UUID]string{}
	for _, r := range rows {
		seen[r.UserID] = r.Body
	}
	// Each participant sees the other side's text.
	if !strings.Contains(seen[alice.ID], "tennistraining") {
		t.Fatalf("alice body = %q, want bob's entry text", seen[alice.ID])
	}
	if !strings.Contains(seen[bob.ID], "tennispartner") {
		t.Fatalf("bob body = %q, want alice's entry text", seen[bob.ID])
	}

	if len(email.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(email.sent))
	}
	if email.sent[0].Subject != "Du hast einen neuen Match!" {
		t.Fatalf("unexpected subject %q", email.sent[0].Subject)
	}

	// Re-dispatch is a no-op: the match was marked notified.
	pending, err := matches.ListUnnotifiedIDs(ctx, nil)
	if err != nil {
		t.Fatalf("list unnotified: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("match should be marked notified, pending = %v", pending)
	}
}

func TestDispatchEscapesEmailHTML(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	bob := testutil.SeedUser(t, ctx, gdb, "bob@example.com")
	ea := testutil.SeedEmbeddedEntry(t, ctx, gdb, alice.ID, "suche co-founder", []float32{1})
	eb := testutil.SeedEmbeddedEntry(t, ctx, gdb, bob.ID, `<script>alert("x")</script> C++ & Go`, []float32{1})

	matches := matchrepo.NewMatchRepo(gdb, log)
	m := &types.Match{EntryAID: ea.ID, EntryBID: eb.ID, Score: 0.9}
	if _, err := matches.InsertIfAbsent(ctx, nil, m); err != nil {
		t.Fatalf("insert match: %v", err)
	}

	email := &fakeEmail{}
	d := NewNotificationDispatcher(gdb, log, matches,
		notificationrepo.NewNotificationRepo(gdb, log),
		pushrepo.NewPushSubscriptionRepo(gdb, log),
		userrepo.NewUserRepo(gdb, log),
		email, nil,
	)
	if _, err := d.Dispatch(ctx, []uuid.UUID{m.ID}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	var body string
	for _, req := range email.sent {
		if len(req.To) == 1 && req.To[0].Email == alice.Email {
			body = req.HTML
		}
	}
	if body == "" {
		t.Fatal("no email captured for alice")
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("entry markup must not reach the email as HTML: %q", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") || !strings.Contains(body, "C++ &amp; Go") {
		t.Fatalf("entry text should render escaped, got %q", body)
	}
}

func TestDispatchRetryNeverDuplicatesRows(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	bob := testutil.SeedUser(t, ctx, gdb, "bob@example.com")
	ea := testutil.SeedEmbeddedEntry(t, ctx, gdb, alice.ID, "suche lesekreis", []float32{1})
	eb := testutil.SeedEmbeddedEntry(t, ctx, gdb, bob.ID, "gruende einen lesekreis", []float32{1})

	matches := matchrepo.NewMatchRepo(gdb, log)
	m := &types.Match{EntryAID: ea.ID, EntryBID: eb.ID, Score: 0.88}
	if _, err := matches.InsertIfAbsent(ctx, nil, m); err != nil {
		t.Fatalf("insert match: %v", err)
	}

	notifs := notificationrepo.NewNotificationRepo(gdb, log)
	d := NewNotificationDispatcher(gdb, log, matches, notifs,
		pushrepo.NewPushSubscriptionRepo(gdb, log),
		userrepo.NewUserRepo(gdb, log),
		nil, nil,
	)

	for i := 0; i < 3; i++ {
		if _, err := d.Dispatch(ctx, []uuid.UUID{m.ID}); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}

	rows, err := notifs.ListByReferenceID(ctx, nil, m.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected exactly 2 rows after repeated dispatch, got %d", len(rows))
	}
}

func TestDispatchPrunesGoneSubscriptions(t *testing.T) {
	gdb := testutil.SQLiteDB(t)
	log := testLogger(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, ctx, gdb, "alice@example.com")
	bob := testutil.SeedUser(t, ctx, gdb, "bob@example.com")
	ea := testutil.SeedEmbeddedEntry(t, ctx, gdb, alice.ID, "suche bandmitglieder", []float32{1})
	eb := testutil.SeedEmbeddedEntry(t, ctx, gdb, bob.ID, "spiele schlagzeug", []float32{1})

	testutil.SeedPushSubscription(t, ctx, gdb, alice.ID, "https://push.example/alive")
	testutil.SeedPushSubscription(t, ctx, gdb, alice.ID, "https://push.example/dead")

	matches := matchrepo.NewMatchRepo(gdb, log)
	m := &types.Match{EntryAID: ea.ID, EntryBID: eb.ID, Score: 0.82}
	if _, err := matches.InsertIfAbsent(ctx, nil, m); err != nil {
		t.Fatalf("insert match: %v", err)
	}

	pushSubs := pushrepo.NewPushSubscriptionRepo(gdb, log)
	push := &fakePush{gone: map[string]bool{"https://push.example/dead": true}}
	d := NewNotificationDispatcher(gdb, log, matches,
		notificationrepo.NewNotificationRepo(gdb, log),
		pushSubs,
		userrepo.NewUserRepo(gdb, log),
		nil, push,
	)

	if _, err := d.Dispatch(ctx, []uuid.UUID{m.ID}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(push.sent) != 1 {
		t.Fatalf("expected 1 delivered push, got %d", len(push.sent))
	}
	if push.sent[0].Title != "Neuer Match!" || push.sent[0].URL != "/dashboard" {
		t.Fatalf("unexpected push payload %+v", push.sent[0])
	}

	remaining, err := pushSubs.ListByUserID(ctx, nil, alice.ID)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Endpoint != "https://push.example/alive" {
		t.Fatalf("dead subscription should be pruned, remaining = %+v", remaining)
	}
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("ä", 200)
	got := truncateRunes(long, 80)
	if utf8.RuneCountInString(got) != 80 {
		t.Fatalf("truncated length = %d runes, want 80", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated string should end with ellipsis, got %q", got[len(got)-4:])
	}
	short := "kurz"
	if truncateRunes(short, 80) != short {
		t.Fatal("short strings must pass through unchanged")
	}
}
