package timeclock

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	summaryColor = 0xFF5555
	paidColor    = 0x57F287

	paidNotice = "💶 Paiement validé ! Ce message sera supprimé dans 30 secondes."
)

// summaryMessage renders the payroll summary posted to the channel when a
// service period closes. Hours and salary are printed exactly as the sheet
// returned them.
func (s *Service) summaryMessage(name string, hours, salary float64) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title: "🧾 Récapitulatif de Fin de Service",
		Color: summaryColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Employé", Value: fmt.Sprintf("**%s**", name), Inline: true},
			{Name: "⏱ Heures travaillées", Value: fmt.Sprintf("**%s h**", formatNumber(hours)), Inline: true},
			{Name: "💶 Salaire", Value: fmt.Sprintf("**%s €**", formatNumber(salary)), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Fin de service enregistrée"},
		Timestamp: s.now().Format(time.RFC3339),
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						CustomID: ActionPay,
						Label:    "💶 Payer",
						Style:    discordgo.SuccessButton,
					},
				},
			},
		},
	}
}

// payButton finds the pay control on a summary message. Components decoded
// from the API come back as pointers, ones built locally as values; both
// shapes are accepted.
func payButton(msg *discordgo.Message) (*discordgo.Button, bool) {
	for _, row := range msg.Components {
		var ar *discordgo.ActionsRow
		switch v := row.(type) {
		case *discordgo.ActionsRow:
			ar = v
		case discordgo.ActionsRow:
			ar = &v
		default:
			continue
		}
		for _, c := range ar.Components {
			switch b := c.(type) {
			case *discordgo.Button:
				if b.CustomID == ActionPay {
					return b, true
				}
			case discordgo.Button:
				if b.CustomID == ActionPay {
					btn := b
					return &btn, true
				}
			}
		}
	}
	return nil, false
}

// paidEdit rewrites the summary as confirmed: green, a deletion notice in
// place of the description, and the pay button disabled.
func paidEdit(msg *discordgo.Message, btn discordgo.Button) *discordgo.MessageEdit {
	embed := &discordgo.MessageEmbed{}
	if len(msg.Embeds) > 0 {
		clone := *msg.Embeds[0]
		embed = &clone
	}
	embed.Color = paidColor
	embed.Description = paidNotice

	btn.Disabled = true

	edit := discordgo.NewMessageEdit(msg.ChannelID, msg.ID)
	edit.Embeds = []*discordgo.MessageEmbed{embed}
	edit.Components = []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{btn},
		},
	}
	return edit
}

// formatNumber prints the sheet's numbers without trailing zeros, the way
// they show up in the webhook's own reply.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
