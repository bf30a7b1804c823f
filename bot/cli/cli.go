package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
)

type DialogEngine interface {
	HandleMessage(ctx context.Context, sessionID, text string) (string, entity.Reply)
}

// Bot is a terminal front end for the dialog engine. One process, one
// session. Meant for local smoke testing without any messaging platform.
type Bot struct {
	engine DialogEngine
	in     io.Reader
	out    io.Writer
	log    *slog.Logger
}

func New(engine DialogEngine, in io.Reader, out io.Writer, log *slog.Logger) *Bot {
	return &Bot{
		engine: engine,
		in:     in,
		out:    out,
		log:    log.With(sl.Module("bot.cli")),
	}
}

// Run reads lines until EOF or an exit command. The first turn sends an
// empty greeting so the language chooser is shown before any input.
func (b *Bot) Run(ctx context.Context) error {
	fmt.Fprintln(b.out, "Afyabot terminal. Type 'exit' to quit.")
	fmt.Fprintln(b.out)

	sessionID, reply := b.engine.HandleMessage(ctx, "", "hi")
	fmt.Fprintln(b.out, reply.Text)

	scanner := bufio.NewScanner(b.in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		_, reply = b.engine.HandleMessage(ctx, sessionID, line)
		fmt.Fprintln(b.out, reply.Text)
		fmt.Fprintln(b.out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	b.log.Info("terminal session closed", slog.String("session_id", sessionID))
	return nil
}
