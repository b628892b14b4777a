package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/maelvns/pointeuse/internal/config"
	"github.com/maelvns/pointeuse/internal/timeclock"
)

type Bot struct {
	session *discordgo.Session
	cfg     *config.Config
	clock   *timeclock.Service
}

func New(cfg *config.Config, store timeclock.PunchStore) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session: session,
		cfg:     cfg,
		clock:   timeclock.NewService(store, session, cfg.PayerRoleIDs),
	}

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMembers

	return bot, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Println("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	b.clock.Stop()
	return b.session.Close()
}

// registerCommands deploys the single /creatp command: guild-scoped first
// when a guild is configured, then always globally.
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "creatp",
			Description: "Créer la pointeuse",
		},
	}

	if b.cfg.GuildID != "" {
		log.Printf("[DEPLOY] Déploiement des commandes sur le serveur %s...", b.cfg.GuildID)
		if _, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.ClientID, b.cfg.GuildID, commands); err != nil {
			return fmt.Errorf("failed to register guild commands: %w", err)
		}
	}

	log.Println("[DEPLOY] Déploiement des commandes globales...")
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.cfg.ClientID, "", commands); err != nil {
		return fmt.Errorf("failed to register global commands: %w", err)
	}

	return nil
}
