package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comigor/advisor-go/internal/advisor"
	"github.com/comigor/advisor-go/internal/logger"
)

// maxLineBytes bounds a single chat line.
const maxLineBytes = 1 << 20

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the advisor on the terminal",
	Long: `Reads one message per line from stdin and streams each reply to stdout.
Type /reset to clear the conversation. Ctrl-D or Ctrl-C ends the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		runChat(ctx, a.advisor, cmd.InOrStdin(), cmd.OutOrStdout())
		return a.teardown()
	},
}

func runChat(ctx context.Context, a *advisor.Advisor, in io.Reader, out io.Writer) {
	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				if scanErr != nil {
					logger.L.Error("failed to read input", "error", scanErr)
					fmt.Fprintf(out, "input error: %v\n", scanErr)
				}
				return
			}
			line = l
		}

		// Messages are sent as typed; only commands and blank lines are trimmed.
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "/reset":
			a.Session().Reset()
			fmt.Fprintln(out, "(conversation cleared)")
			continue
		}

		res := a.Send(ctx, line, func(fragment string) { fmt.Fprint(out, fragment) })
		if res.Failed() {
			fmt.Fprintf(out, "\n%s", res.Reply.Text())
		}
		fmt.Fprintln(out)
	}
}
