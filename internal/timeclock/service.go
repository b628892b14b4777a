// Package timeclock implements the punch workflow: start and end of
// service, and the role-gated payment confirmation on the payroll summary.
// It holds no state of its own — the sheet webhook is the system of record,
// and the paid/unpaid state of a summary lives in the Discord message itself.
package timeclock

import (
	"context"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/maelvns/pointeuse/internal/sheet"
)

// Custom IDs of the bot's buttons. Components whose ID carries another
// prefix belong to someone else and are never touched.
const (
	CustomIDPrefix = "pointeuse:"
	ActionStart    = "pointeuse:start"
	ActionEnd      = "pointeuse:end"
	ActionPay      = "pointeuse:paie"
)

const deleteDelay = 30 * time.Second

// PunchStore submits punches to the system of record.
type PunchStore interface {
	SubmitStart(ctx context.Context, userID, name string, at time.Time, roles []string) (*sheet.Result, error)
	SubmitEnd(ctx context.Context, userID, name string, at time.Time) (*sheet.Result, error)
}

// Messenger is the slice of the Discord session the workflow needs to post,
// inspect, edit and delete channel messages.
type Messenger interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Responder finalizes the ephemeral acknowledgment the dispatcher already
// opened for the interaction. Exactly one Finalize per interaction.
type Responder interface {
	Finalize(content string) error
}

// Member is the acting user as seen by the workflow. RoleNames excludes the
// guild's everyone role; RoleIDs is the raw set used for the pay gate.
type Member struct {
	UserID      string
	DisplayName string
	RoleIDs     []string
	RoleNames   []string
}

type Service struct {
	store      PunchStore
	messenger  Messenger
	scheduler  *Scheduler
	payerRoles map[string]struct{}
	delay      time.Duration
	now        func() time.Time
}

func NewService(store PunchStore, messenger Messenger, payerRoleIDs []string) *Service {
	payers := make(map[string]struct{}, len(payerRoleIDs))
	for _, id := range payerRoleIDs {
		payers[id] = struct{}{}
	}
	return &Service{
		store:      store,
		messenger:  messenger,
		scheduler:  NewScheduler(),
		payerRoles: payers,
		delay:      deleteDelay,
		now:        time.Now,
	}
}

// Stop cancels any pending summary deletions.
func (s *Service) Stop() {
	s.scheduler.Stop()
}

// OnStart submits a start punch for the member. Whether a service is
// already open is the sheet's call, not ours.
func (s *Service) OnStart(ctx context.Context, m Member, r Responder) {
	now := s.now()
	log.Printf("[START CLICK] %s à %s", m.DisplayName, now.Format(time.RFC3339))

	res, err := s.store.SubmitStart(ctx, m.UserID, m.DisplayName, now, m.RoleNames)
	if err != nil {
		log.Printf("[START ERROR] %s: %v", m.DisplayName, err)
		s.reply(r, "❌ Erreur lors de l'enregistrement")
		return
	}
	if res.Error {
		s.reply(r, "⛔ Déjà en service")
		return
	}

	log.Printf("[START] %s a commencé le service", m.DisplayName)
	s.reply(r, "✅ Service commencé")
}

// OnEnd submits an end punch. On success the member gets a private
// confirmation and the channel gets the payroll summary with its pay button.
func (s *Service) OnEnd(ctx context.Context, m Member, channelID string, r Responder) {
	now := s.now()
	log.Printf("[END CLICK] %s à %s", m.DisplayName, now.Format(time.RFC3339))

	res, err := s.store.SubmitEnd(ctx, m.UserID, m.DisplayName, now)
	if err != nil {
		log.Printf("[END ERROR] %s: %v", m.DisplayName, err)
		s.reply(r, "❌ Erreur lors de la clôture")
		return
	}
	if res.Error {
		s.reply(r, "⛔ Aucun service actif")
		return
	}

	summary := s.summaryMessage(m.DisplayName, res.Hours, res.Salary)
	if _, err := s.messenger.ChannelMessageSendComplex(channelID, summary, discordgo.WithContext(ctx)); err != nil {
		log.Printf("[END ERROR] %s: failed to post summary: %v", m.DisplayName, err)
		s.reply(r, "❌ Erreur lors de la clôture")
		return
	}

	log.Printf("[END] %s a terminé le service", m.DisplayName)
	s.reply(r, "✅ Service clôturé")
}

// OnPayConfirm marks a payroll summary as paid: gate on the payer roles,
// disable the button, recolor the embed, then delete the message after a
// delay. The summary is re-fetched first so that two authorized actors
// racing on the same button result in a single confirmation — the loser
// observes the already-disabled control and backs off.
func (s *Service) OnPayConfirm(ctx context.Context, actor Member, channelID, messageID string, r Responder) {
	if !s.isAuthorized(actor) {
		s.reply(r, "❌ Vous n'avez pas la permission d'utiliser ce bouton.")
		return
	}
	log.Printf("[PAIE CLICK] %s", actor.DisplayName)

	msg, err := s.messenger.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("[PAIE ERROR] %s: failed to fetch summary message: %v", actor.DisplayName, err)
		s.reply(r, "❌ Impossible de traiter le paiement")
		return
	}

	btn, ok := payButton(msg)
	if !ok {
		s.reply(r, "❌ Impossible de traiter le paiement")
		return
	}
	if btn.Disabled {
		s.reply(r, "⛔ Paiement déjà traité")
		return
	}

	if _, err := s.messenger.ChannelMessageEditComplex(paidEdit(msg, *btn), discordgo.WithContext(ctx)); err != nil {
		log.Printf("[PAIE ERROR] %s: failed to update summary message: %v", actor.DisplayName, err)
		s.reply(r, "❌ Impossible de traiter le paiement")
		return
	}

	s.reply(r, "✅ Paiement confirmé !")
	s.scheduleDeletion(msg.ChannelID, msg.ID)
}

func (s *Service) isAuthorized(m Member) bool {
	for _, id := range m.RoleIDs {
		if _, ok := s.payerRoles[id]; ok {
			return true
		}
	}
	return false
}

// scheduleDeletion removes the confirmed summary after the delay. The
// message may have been deleted by a moderator in the meantime; that
// failure is logged and swallowed, the actor already got their confirmation.
func (s *Service) scheduleDeletion(channelID, messageID string) {
	s.scheduler.After(messageID, s.delay, func() {
		if err := s.messenger.ChannelMessageDelete(channelID, messageID); err != nil {
			log.Printf("[PAIE ERROR] Impossible de supprimer le message %s: %v", messageID, err)
			return
		}
		log.Println("[PAIE] Message supprimé automatiquement après 30 secondes")
	})
}

func (s *Service) reply(r Responder, content string) {
	if err := r.Finalize(content); err != nil {
		log.Printf("Failed to finalize interaction reply: %v", err)
	}
}
