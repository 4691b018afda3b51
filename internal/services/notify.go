package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	matchrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/match"
	notificationrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/notification"
	pushrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/push"
	userrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/user"
	types "github.com/yungbote/skillmatch-backend/internal/domain"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
	"github.com/yungbote/skillmatch-backend/internal/platform/sendgrid"
	"github.com/yungbote/skillmatch-backend/internal/platform/webpush"
)

const (
	emailPreviewRunes = 120
	pushBodyRunes     = 80
)

// NotificationDispatcher fans a recorded match out to both participants:
// an in-app notification row (durable, deduplicated), then best-effort email
// and push. Channel failures never fail the match; only a failure to write
// the notification rows leaves the match unnotified for a later retry.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, matchIDs []uuid.UUID) (int, error)
}

type notificationDispatcher struct {
	db               *gorm.DB
	log              *logger.Logger
	matchRepo        matchrepo.MatchRepo
	notificationRepo notificationrepo.NotificationRepo
	pushRepo         pushrepo.PushSubscriptionRepo
	userRepo         userrepo.UserRepo
	email            sendgrid.Client
	push             webpush.Client
	siteURL          string
}

func NewNotificationDispatcher(
	db *gorm.DB,
	baseLog *logger.Logger,
	matchRepo matchrepo.MatchRepo,
	notificationRepo notificationrepo.NotificationRepo,
	pushRepo pushrepo.PushSubscriptionRepo,
	userRepo userrepo.UserRepo,
	email sendgrid.Client,
	push webpush.Client,
) NotificationDispatcher {
	return &notificationDispatcher{
		db:               db,
		log:              baseLog.With("service", "NotificationDispatcher"),
		matchRepo:        matchRepo,
		notificationRepo: notificationRepo,
		pushRepo:         pushRepo,
		userRepo:         userRepo,
		email:            email,
		push:             push,
		siteURL:          envutil.Str("SITE_URL", "https://skillmatch.de"),
	}
}

// Dispatch processes each match independently; one bad match never blocks the
// rest of the batch. Returns how many matches completed their fan-out.
func (d *notificationDispatcher) Dispatch(ctx context.Context, matchIDs []uuid.UUID) (int, error) {
	dispatched := 0
	for _, id := range matchIDs {
		if ctx.Err() != nil {
			return dispatched, ctx.Err()
		}
		if err := d.dispatchOne(ctx, id); err != nil {
			d.log.Error("Match dispatch failed, left unnotified for retry",
				"match_id", id,
				"error", err,
			)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (d *notificationDispatcher) dispatchOne(ctx context.Context, matchID uuid.UUID) error {
	m, err := d.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return fmt.Errorf("load match: %w", err)
	}
	if m == nil || m.EntryA == nil || m.EntryB == nil {
		return fmt.Errorf("match %s incomplete", matchID)
	}

	users, err := d.userRepo.GetByIDs(ctx, nil, []uuid.UUID{m.EntryA.UserID, m.EntryB.UserID})
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	byID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	// Each participant sees the OTHER side's entry text.
	targets := []struct {
		user  *types.User
		other *types.Entry
	}{
		{byID[m.EntryA.UserID], m.EntryB},
		{byID[m.EntryB.UserID], m.EntryA},
	}

	// Durable step first: both rows must land (or already exist) before the
	// match is marked notified.
	for _, t := range targets {
		if t.user == nil {
			return fmt.Errorf("match %s references missing user", matchID)
		}
		_, err := d.notificationRepo.CreateIgnoreDuplicates(ctx, nil, &types.Notification{
			UserID:      t.user.ID,
			Type:        types.NotificationTypeMatch,
			ReferenceID: m.ID,
			Title:       "Neuer Match!",
			Body:        truncateRunes(t.other.RawText, pushBodyRunes),
		})
		if err != nil {
			return fmt.Errorf("create notification row: %w", err)
		}
	}

	if err := d.matchRepo.MarkNotified(ctx, nil, m.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}

	// Best-effort channels after the durable commit. At-most-once: a retry of
	// an interrupted match may re-send these, the rows above never duplicate.
	for _, t := range targets {
		d.sendEmail(ctx, t.user, t.other, m.Score)
		d.sendPush(ctx, t.user, t.other)
	}
	return nil
}

func (d *notificationDispatcher) sendEmail(ctx context.Context, to *types.User, other *types.Entry, score float64) {
	if d.email == nil || to.Email == "" {
		return
	}
	preview := html.EscapeString(truncateRunes(other.RawText, emailPreviewRunes))
	percent := int(math.Round(score * 100))

	htmlBody := fmt.Sprintf(
		`<p>Hallo %s,</p>
<p>wir haben einen neuen Match f&uuml;r dich gefunden (&Uuml;bereinstimmung: %d%%):</p>
<blockquote>%s</blockquote>
<p><a href="%s/dashboard">Jetzt ansehen</a></p>`,
		html.EscapeString(to.DisplayName), percent, preview, d.siteURL,
	)
	textBody := fmt.Sprintf(
		"Hallo %s,\n\nwir haben einen neuen Match für dich gefunden (Übereinstimmung: %d%%):\n\n%s\n\nJetzt ansehen: %s/dashboard\n",
		to.DisplayName, percent, truncateRunes(other.RawText, emailPreviewRunes), d.siteURL,
	)

	if _, err := d.email.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: to.Email, Name: to.DisplayName}},
		Subject: "Du hast einen neuen Match!",
		Text:    textBody,
		HTML:    htmlBody,
	}); err != nil {
		d.log.Warn("Match email failed", "user_id", to.ID, "error", err)
	}
}

func (d *notificationDispatcher) sendPush(ctx context.Context, to *types.User, other *types.Entry) {
	if d.push == nil {
		return
	}
	subs, err := d.pushRepo.ListByUserID(ctx, nil, to.ID)
	if err != nil {
		d.log.Warn("Push subscription lookup failed", "user_id", to.ID, "error", err)
		return
	}
	payload := webpush.Payload{
		Title: "Neuer Match!",
		Body:  truncateRunes(other.RawText, pushBodyRunes),
		URL:   "/dashboard",
	}
	for _, sub := range subs {
		if err := d.push.Send(ctx, sub, payload); err != nil {
			if errors.Is(err, webpush.ErrSubscriptionGone) {
				if delErr := d.pushRepo.DeleteByID(ctx, nil, sub.ID); delErr != nil {
					d.log.Warn("Stale push subscription prune failed", "subscription_id", sub.ID, "error", delErr)
				}
				continue
			}
			d.log.Warn("Match push failed", "user_id", to.ID, "subscription_id", sub.ID, "error", err)
		}
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
