package bot

import (
	"github.com/bwmarrin/discordgo"
)

// interactionResponder implements Discord's deferred-then-edited reply
// protocol for one interaction: Ack sends the provisional ephemeral
// response within the response window, Finalize edits the real content in
// once the work is done. Ack is idempotent so the acknowledgment is never
// sent twice.
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	acked       bool
}

func (r *interactionResponder) Ack() error {
	if r.acked {
		return nil
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err == nil {
		r.acked = true
	}
	return err
}

func (r *interactionResponder) Finalize(content string) error {
	_, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}
