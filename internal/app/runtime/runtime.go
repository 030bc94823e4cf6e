package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"radioBot/internal/app/events"
	"radioBot/internal/domain"
	"radioBot/internal/infrastructure/config"
	sqlitestorage "radioBot/internal/infrastructure/persistence/sqlite"
	"radioBot/internal/infrastructure/radioapi"
	"radioBot/internal/interface/adapters/highrise"
	ws "radioBot/internal/interface/api/ws"
	"radioBot/internal/interface/outs"
	"radioBot/internal/usecase/commands"
	"radioBot/internal/usecase/handle_message"
	"radioBot/internal/usecase/notifications"
	"radioBot/internal/usecase/nowplaying"
	"radioBot/internal/usecase/session"
)

// Runtime owns every long-lived component of the bot.
type Runtime struct {
	cfg *config.Config
	log *zap.Logger

	store    *sqlitestorage.Store
	bus      *events.Bus
	session  *session.State
	msgs     *commands.Messages
	router   *commands.Router
	uc       *handle_message.Interactor
	multiOut *outs.MultiSender
	recorder *notifications.Recorder

	highrise *highrise.Adapter
	console  *ws.Server
	poller   *nowplaying.Poller

	welcomeOnce sync.Once
}

// New builds the component graph from cfg. Nothing runs until Run.
func New(cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("runtime: nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	msgs, err := commands.NewMessages(cfg.Messages)
	if err != nil {
		return nil, fmt.Errorf("runtime: messages: %w", err)
	}

	radio, err := radioapi.NewClient(radioapi.Config{
		BaseURL: cfg.RadioAPIURL,
		Timeout: cfg.RadioTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("runtime: radio client: %w", err)
	}

	store, err := sqlitestorage.NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}

	r := &Runtime{
		cfg:      cfg,
		log:      logger,
		store:    store,
		bus:      events.NewBus(logger),
		session:  session.NewState(cfg.DefaultAdmins),
		msgs:     msgs,
		multiOut: outs.NewMultiSender(),
	}

	r.router = commands.NewRouter(cfg.Prefix, r.session, msgs, logger)
	commands.RegisterBuiltins(r.router, commands.Deps{
		Radio:           radio,
		Admins:          r.session,
		Messages:        msgs,
		StreamURL:       cfg.RadioStreamURL,
		MaxQueueDisplay: cfg.MaxQueueDisplay,
	})
	r.router.SetActionHook(func(ctx context.Context, msg domain.Message, command string) {
		r.bus.Publish(events.TopicAdminAction, events.NewAdminActionDTO(msg, command))
	})

	r.uc = handle_message.NewInteractor(r.multiOut, r.router, r.bus)
	r.recorder = notifications.NewRecorder(store, r.bus, logger)

	var targets []domain.Target
	if cfg.HighriseEnabled() {
		r.highrise = highrise.NewAdapter(highrise.Config{
			URL:         cfg.HighriseURL,
			RoomID:      cfg.HighriseRoom,
			Token:       cfg.HighriseToken,
			OnConnected: r.sendWelcome,
			Logger:      logger,
		})
		r.highrise.SetHandler(r.uc.Handle)
		r.multiOut.Register(domain.PlatformHighrise, r.highrise)
		targets = append(targets, domain.Target{Platform: domain.PlatformHighrise, ChannelID: cfg.HighriseRoom})
	}

	if cfg.ConsoleAddr != "" {
		r.console = ws.NewServer(ws.Config{
			Addr:       cfg.ConsoleAddr,
			OperatorID: cfg.ConsoleOperator,
			Status:     r.session,
			History:    store,
			Commands:   commands.NewService(cfg.Prefix),
			Logger:     logger,
		})
		r.console.SetHandler(r.uc.Handle)
		r.multiOut.Register(domain.PlatformConsole, r.console)
		targets = append(targets, domain.Target{Platform: domain.PlatformConsole, ChannelID: ws.DefaultChannelID})
	}

	if cfg.Features.AutoAnnounce {
		r.poller = nowplaying.NewPoller(nowplaying.Config{
			Radio:    radio,
			State:    r.session,
			Out:      r.uc.Out(),
			Targets:  targets,
			Messages: msgs,
			Events:   r.bus,
			Logger:   logger,
			Interval: cfg.PollInterval,
		})
	}

	return r, nil
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails. The store is closed on return.
func (r *Runtime) Run(ctx context.Context) error {
	defer func() {
		r.bus.Close()
		if err := r.store.Close(); err != nil {
			r.log.Warn("closing store", zap.Error(err))
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.recorder.Run(ctx) })

	if r.console != nil {
		g.Go(func() error { return r.console.Start(ctx) })
		g.Go(func() error {
			return r.console.Forward(ctx, r.bus,
				events.TopicChatMessage,
				events.TopicBotReply,
				events.TopicNowPlaying,
				events.TopicAdminAction,
			)
		})
	}
	if r.highrise != nil {
		g.Go(func() error { return r.highrise.Start(ctx) })
	}
	if r.poller != nil {
		g.Go(func() error { return r.poller.Run(ctx) })
	}

	r.log.Info("bot started",
		zap.String("radio_api", r.cfg.RadioAPIURL),
		zap.String("room", r.cfg.HighriseRoom),
		zap.String("console", r.cfg.ConsoleAddr),
		zap.Int("admins", len(r.session.Admins())),
		zap.Bool("auto_announce", r.poller != nil),
	)

	err := g.Wait()
	r.log.Info("bot stopped")
	return err
}

// Dispatch feeds a message through the same path transports use.
func (r *Runtime) Dispatch(ctx context.Context, msg domain.Message) error {
	return r.uc.Handle(ctx, msg)
}

func (r *Runtime) Session() *session.State {
	return r.session
}

func (r *Runtime) Bus() *events.Bus {
	return r.bus
}

func (r *Runtime) NotificationRepo() domain.NotificationRepository {
	return r.store
}

// sendWelcome greets the room the first time a Highrise session comes up.
func (r *Runtime) sendWelcome(ctx context.Context) {
	if !r.cfg.Features.Welcome {
		return
	}
	r.welcomeOnce.Do(func() {
		text := r.msgs.Render(commands.MsgWelcome, "prefix", r.cfg.Prefix)
		if err := r.uc.Out().SendMessage(ctx, domain.PlatformHighrise, r.cfg.HighriseRoom, text); err != nil {
			r.log.Warn("welcome message", zap.Error(err))
		}
	})
}
