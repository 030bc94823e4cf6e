// Package nowplaying announces track changes reported by the radio server.
package nowplaying

import (
	"context"
	"time"

	"go.uber.org/zap"

	"radioBot/internal/app/events"
	"radioBot/internal/domain"
	"radioBot/internal/usecase/commands"
)

const DefaultInterval = 10 * time.Second

// SongTracker remembers the last announced song.
type SongTracker interface {
	LastSong() (domain.Song, bool)
	ObserveSong(song domain.Song) bool
}

type Config struct {
	Radio    domain.RadioService
	State    SongTracker
	Out      domain.OutgoingMessagePort
	Targets  []domain.Target
	Messages *commands.Messages
	Events   events.Publisher
	Logger   *zap.Logger
	Interval time.Duration
}

type Poller struct {
	radio    domain.RadioService
	state    SongTracker
	out      domain.OutgoingMessagePort
	targets  []domain.Target
	msgs     *commands.Messages
	events   events.Publisher
	log      *zap.Logger
	interval time.Duration
}

func NewPoller(cfg Config) *Poller {
	if cfg.Messages == nil {
		cfg.Messages = commands.DefaultMessages()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Poller{
		radio:    cfg.Radio,
		state:    cfg.State,
		out:      cfg.Out,
		targets:  append([]domain.Target(nil), cfg.Targets...),
		msgs:     cfg.Messages,
		events:   cfg.Events,
		log:      cfg.Logger.Named("nowplaying"),
		interval: cfg.Interval,
	}
}

// Run polls until ctx is cancelled. The first poll happens one interval
// after start.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info("poller started", zap.Duration("interval", p.interval), zap.Int("targets", len(p.targets)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick fetches the current song once and announces it if it changed. Fetch
// failures are logged and produce no chat output. A change is only recorded
// once at least one target accepted the announcement.
func (p *Poller) Tick(ctx context.Context) {
	song, err := p.radio.CurrentSong(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn("fetch current song", zap.Error(err))
		}
		return
	}

	song = song.Normalized()
	if last, ok := p.state.LastSong(); ok && last == song {
		return
	}

	p.log.Info("song changed", zap.String("title", song.Title), zap.String("artist", song.Artist))
	text := commands.NowPlayingText(p.msgs, song)
	delivered := 0
	for _, t := range p.targets {
		if err := p.out.SendMessage(ctx, t.Platform, t.ChannelID, text); err != nil {
			p.log.Warn("announce failed",
				zap.String("platform", string(t.Platform)),
				zap.String("channel", t.ChannelID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	// Nobody heard it: keep the previous song so the next tick retries.
	if len(p.targets) > 0 && delivered == 0 {
		return
	}
	if !p.state.ObserveSong(song) {
		return
	}
	if p.events != nil {
		p.events.Publish(events.TopicNowPlaying, events.NewNowPlayingDTO(song))
	}
}
