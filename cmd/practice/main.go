package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	backendimpl "github.com/hanspeak/hanspeak/external/backend"
	captureimpl "github.com/hanspeak/hanspeak/external/capture"
	configloader "github.com/hanspeak/hanspeak/external/config"
	notifyimpl "github.com/hanspeak/hanspeak/external/notify"
	playbackimpl "github.com/hanspeak/hanspeak/external/playback"
	"github.com/hanspeak/hanspeak/internal/backend"
	"github.com/hanspeak/hanspeak/internal/config"
	"github.com/hanspeak/hanspeak/internal/conversation"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	runPractice(injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	backendimpl.RegisterDI(injector)
	captureimpl.RegisterDI(injector)
	playbackimpl.RegisterDI(injector)
	notifyimpl.RegisterDI(injector)
	conversation.RegisterDI(injector)

	return injector
}

func runPractice(injector do.Injector) {
	manager, err := do.Invoke[*conversation.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve conversation manager", "error", err)
		os.Exit(1)
	}
	defer manager.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		manager.Close()
		os.Exit(0)
	}()

	in := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	input := promptSessionSetup(in)
	if err := manager.Begin(ctx, input); err != nil {
		os.Exit(1)
	}
	printMessages(manager)
	printHelp()

	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "record":
			if err := manager.StartRecording(ctx); err == nil {
				fmt.Println("녹음 중... (stop 입력으로 종료)")
			}
		case "stop":
			if err := manager.StopRecording(ctx); err != nil {
				if errors.Is(err, conversation.ErrNotRecording) {
					fmt.Println("녹음 중이 아니에요.")
				}
				continue
			}
			waitForIdle(manager)
			printMessages(manager)
		case "translate":
			if len(fields) < 2 {
				fmt.Println("사용법: translate <메시지 번호>")
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Println("사용법: translate <메시지 번호>")
				continue
			}
			translation, err := manager.Translate(ctx, id)
			if err != nil {
				fmt.Println("번역을 가져오지 못했어요.")
				continue
			}
			fmt.Printf("번역: %s\n", translation)
		case "mute":
			manager.SetMuted(true)
			fmt.Println("음소거했어요.")
		case "unmute":
			manager.SetMuted(false)
			fmt.Println("음소거를 해제했어요.")
		case "status":
			fmt.Printf("경과 %d초, %d턴\n", manager.ElapsedSeconds(), manager.TurnCount())
		case "end":
			summary, err := manager.End(ctx)
			if err != nil {
				continue
			}
			printSummary(summary)
			return
		case "quit":
			return
		default:
			printHelp()
		}
	}
}

func promptSessionSetup(in *bufio.Scanner) backend.StartSessionInput {
	read := func(label string) string {
		fmt.Printf("%s: ", label)
		if !in.Scan() {
			return ""
		}
		return strings.TrimSpace(in.Text())
	}
	return backend.StartSessionInput{
		Topic:     read("주제"),
		UserRole:  read("내 역할"),
		AIRole:    read("상대 역할"),
		Situation: read("상황 (선택)"),
	}
}

func waitForIdle(manager *conversation.Manager) {
	for manager.IsTranscribing() || manager.IsAwaitingReply() {
		time.Sleep(50 * time.Millisecond)
	}
}

func printMessages(manager *conversation.Manager) {
	for _, msg := range manager.Messages() {
		label := "나"
		if msg.Speaker == conversation.SpeakerAI {
			label = "AI"
		}
		fmt.Printf("[%d] %s %s: %s\n", msg.ID, msg.Timestamp, label, msg.Text)
	}
}

func printSummary(summary *backend.Summary) {
	fmt.Printf("\n연습 결과: %d점, %d초, %d턴 (%s)\n",
		summary.Score, summary.TotalSeconds, summary.TurnCount, summary.CompletionStatus)
	for _, fb := range summary.Feedback {
		fmt.Printf("  %d턴: %s\n", fb.Turn, fb.Comment)
	}
}

func printHelp() {
	fmt.Println("명령어: record | stop | translate <번호> | mute | unmute | status | end | quit")
}
