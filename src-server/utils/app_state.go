package utils

import (
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config    *Config
	RawDB     *sql.DB
	BunDB     *bun.DB
	DgSession *discordgo.Session
	When      *when.Parser

	MetricChans *Metric

	// will be sent to Discord on startup
	appCmdInfo map[string]*discordgo.ApplicationCommand
	// handlers for commands coming back from the Discord WSAPI
	appCmdHandler map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) error
	appCmdMutex   sync.RWMutex

	AppCloseSignalChan chan os.Signal

	gracefulShutdownChans []*chan struct{}
	gracefulShutdownMutex sync.Mutex
}

func NewAppState() *AppState {
	as := &AppState{
		appCmdInfo:         make(map[string]*discordgo.ApplicationCommand),
		appCmdHandler:      make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) error),
		AppCloseSignalChan: make(chan os.Signal, 1),
		MetricChans:        NewMetric(),
	}

	// date parser for slash command inputs
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, err = sql.Open(sqliteshim.ShimName, as.Config.GetDatabasePath()+"?mode=rwc")
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.FromEnv("BUNDEBUG"),
	))

	// discord session; opened by main once handlers are registered
	as.DgSession, err = discordgo.New("Bot " + as.Config.GetDiscordAppToken())
	if err != nil {
		slog.Error("cannot create discord session", "error", err)
		os.Exit(1)
	}

	return as
}

func (as *AppState) AddAppCmdInfo(id string, info *discordgo.ApplicationCommand) {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	as.appCmdInfo[id] = info
}

func (as *AppState) AddAppCmdHandler(id string, handler func(s *discordgo.Session, i *discordgo.InteractionCreate) error) {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	as.appCmdHandler[id] = handler
}

func (as *AppState) RemoveAppCmdHandler(id string) {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	delete(as.appCmdHandler, id)
}

func (as *AppState) GetAppCmdHandler(id string) (func(s *discordgo.Session, i *discordgo.InteractionCreate) error, bool) {
	as.appCmdMutex.RLock()
	defer as.appCmdMutex.RUnlock()
	handler, ok := as.appCmdHandler[id]
	return handler, ok
}

func (as *AppState) IterateAppCmdInfo(fn func(k string, v *discordgo.ApplicationCommand)) {
	as.appCmdMutex.RLock()
	defer as.appCmdMutex.RUnlock()
	for k, v := range as.appCmdInfo {
		fn(k, v)
	}
}

// the command info map is only needed until the bulk overwrite on startup
func (as *AppState) NukeAppCmdInfo() {
	as.appCmdMutex.Lock()
	defer as.appCmdMutex.Unlock()
	as.appCmdInfo = make(map[string]*discordgo.ApplicationCommand)
}

// CreateGracefulShutdownChan hands out a channel that closes when the app is
// shutting down; long-running goroutines select on it.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownMutex.Lock()
	defer as.gracefulShutdownMutex.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, &ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMutex.Lock()
	defer as.gracefulShutdownMutex.Unlock()
	for _, ch := range as.gracefulShutdownChans {
		close(*ch)
	}
	as.gracefulShutdownChans = nil
}
