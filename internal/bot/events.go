package bot

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/maelvns/pointeuse/internal/timeclock"
)

const promptColor = 0xFFA500

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("✅ Bot connecté en tant que %s", event.User.Username)

	if err := b.registerCommands(); err != nil {
		log.Printf("[DEPLOY ERROR] %v", err)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == "creatp" {
			b.handleCreatp(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

// handleCreatp posts the time-clock prompt with its start and end buttons.
func (b *Bot) handleCreatp(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log.Printf("[ACTION] %s a utilisé /creatp", invokerName(i))

	embed := &discordgo.MessageEmbed{
		Title:       "🕒 Gestion des Pointages",
		Description: "Utilisez les réactions pour enregistrer votre présence :\n\n🟢 **Commencer le service**\n🔴 **Terminer le service**",
		Color:       promptColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "Pointage automatique",
			IconURL: "https://files.catbox.moe/rfaerg.png",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: timeclock.ActionStart,
				Label:    "🟢 Début de service",
				Style:    discordgo.SuccessButton,
			},
			discordgo.Button{
				CustomID: timeclock.ActionEnd,
				Label:    "🔴 Fin de service",
				Style:    discordgo.DangerButton,
			},
		},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{row},
		},
	})
	if err != nil {
		log.Printf("Failed to post time-clock prompt: %v", err)
	}
}

// handleComponent routes button presses to the workflow. Custom IDs outside
// the pointeuse namespace — or unknown actions inside it, left over from
// older versions — are ignored without any acknowledgment.
func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, timeclock.CustomIDPrefix) {
		return
	}
	switch customID {
	case timeclock.ActionStart, timeclock.ActionEnd, timeclock.ActionPay:
	default:
		return
	}

	// The sheet call can outlast Discord's response window, so acknowledge
	// provisionally before doing any work.
	r := &interactionResponder{session: s, interaction: i.Interaction}
	if err := r.Ack(); err != nil {
		log.Printf("Failed to acknowledge %s interaction: %v", customID, err)
		return
	}

	member := b.memberOf(s, i)
	ctx := context.Background()

	switch customID {
	case timeclock.ActionStart:
		b.clock.OnStart(ctx, member, r)
	case timeclock.ActionEnd:
		b.clock.OnEnd(ctx, member, i.ChannelID, r)
	case timeclock.ActionPay:
		b.clock.OnPayConfirm(ctx, member, i.ChannelID, i.Message.ID, r)
	}
}

// memberOf builds the workflow's view of the acting member: nickname over
// username, and role names resolved through the guild.
func (b *Bot) memberOf(s *discordgo.Session, i *discordgo.InteractionCreate) timeclock.Member {
	m := i.Member
	if m == nil || m.User == nil {
		return timeclock.Member{DisplayName: "Unknown"}
	}

	return timeclock.Member{
		UserID:      m.User.ID,
		DisplayName: displayNameOf(m),
		RoleIDs:     m.Roles,
		RoleNames:   filterRoleNames(b.guildRoles(s, i.GuildID), m.Roles),
	}
}

func (b *Bot) guildRoles(s *discordgo.Session, guildID string) []*discordgo.Role {
	if guildID == "" {
		return nil
	}
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		return guild.Roles
	}
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		log.Printf("Failed to fetch roles for guild %s: %v", guildID, err)
		return nil
	}
	return roles
}

func displayNameOf(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

// filterRoleNames maps the member's role IDs to names, dropping the
// guild-wide everyone role.
func filterRoleNames(roles []*discordgo.Role, roleIDs []string) []string {
	byID := make(map[string]string, len(roles))
	for _, r := range roles {
		byID[r.ID] = r.Name
	}

	names := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		name, ok := byID[id]
		if !ok || name == "@everyone" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func invokerName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return "Unknown"
}
