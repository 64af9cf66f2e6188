package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"bookd/src-server/handler"
	"bookd/src-server/metric"
	"bookd/src-server/model"
	"bookd/src-server/route"
	"bookd/src-server/scheduler"
	"bookd/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// injecting the slash command handlers into the AppState maps
	handler.CreateEvent(as)
	handler.DeleteEvent(as)
	handler.Events(as)
	handler.Ping(as)

	// tell discordgo how to dispatch interactions (w/ the handler map)
	as.DgSession.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		execute := func(id string) {
			if cmdHandler, ok := as.GetAppCmdHandler(id); ok {
				if err := cmdHandler(s, i); err != nil {
					slog.Error("handler error", "command", id, "error", err.Error())
				}
				return
			}
			if i == nil || i.Interaction == nil {
				return
			}
			if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Flags:   discordgo.MessageFlagsEphemeral,
					Content: "Expired interaction",
				},
			}); err != nil {
				slog.Warn("can't respond", "error", err.Error())
			}
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			execute(i.ApplicationCommandData().Name)
		case discordgo.InteractionMessageComponent:
			execute(i.MessageComponentData().CustomID)
		case discordgo.InteractionModalSubmit:
			execute(i.ModalSubmitData().CustomID)
		default:
			slog.Error("unknown interaction type", "type", i.Type)
		}
	})

	// open a connection to Discord
	if err := as.DgSession.Open(); err != nil {
		slog.Error("error opening connection", "error", err)
		os.Exit(1)
	}
	defer as.DgSession.Close()

	// tell Discord what commands we have (w/ the info map)
	if _, err := as.DgSession.ApplicationCommandBulkOverwrite(
		as.Config.GetDiscordClientID(),
		as.Config.GetDiscordGuildID(),
		func() []*discordgo.ApplicationCommand {
			var cmds []*discordgo.ApplicationCommand
			as.IterateAppCmdInfo(func(k string, v *discordgo.ApplicationCommand) {
				cmds = append(cmds, v)
			})
			return cmds
		}()); err != nil {
		slog.Error("can't create slash commands", "error", err.Error())
	}

	// cleanup the command info from memory
	as.NukeAppCmdInfo()
	runtime.GC()

	go metric.Init(as)

	if err := scheduler.Start(as); err != nil {
		slog.Error("can't start scheduler", "error", err)
		os.Exit(1)
	}

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Calendar(muxer, as)
		route.Ical(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), route.LoggingMiddleware(muxer)); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}
