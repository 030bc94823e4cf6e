// Package handle_message
package handle_message

import (
	"context"

	"radioBot/internal/app/events"
	"radioBot/internal/domain"
	"radioBot/internal/usecase/commands"
)

type Interactor struct {
	router *commands.Router
	out    domain.OutgoingMessagePort
	events events.Publisher
}

// NewInteractor wires inbound messages to the router. When pub is non-nil
// every inbound message and every reply is also published on the bus.
func NewInteractor(out domain.OutgoingMessagePort, router *commands.Router, pub events.Publisher) *Interactor {
	if pub != nil {
		out = &publishingPort{next: out, events: pub}
	}
	return &Interactor{
		router: router,
		out:    out,
		events: pub,
	}
}

func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) error {
	if uc.events != nil {
		uc.events.Publish(events.TopicChatMessage, events.NewChatMessageDTO(msg))
	}
	return uc.router.Handle(ctx, msg, uc.out)
}

// Out is the port replies go through, including bus publication.
func (uc *Interactor) Out() domain.OutgoingMessagePort {
	return uc.out
}

type publishingPort struct {
	next   domain.OutgoingMessagePort
	events events.Publisher
}

func (p *publishingPort) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if err := p.next.SendMessage(ctx, platform, channelID, text); err != nil {
		return err
	}
	p.events.Publish(events.TopicBotReply, events.NewBotReplyDTO(platform, channelID, text))
	return nil
}
