// スケジューリングサービスのコマンドラインクライアント。
//
//	schedulectl [-url URL] add -organizer NAME -name EVENT -date DATE
//	schedulectl [-url URL] list [-text]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/scheduling/pkg/event"
	"github.com/nao1215/scheduling/pkg/httpclient"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "schedulectl:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("使い方: schedulectl [-url URL] add|list [options]")

// run はサブコマンドを解釈して実行する。
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("schedulectl", flag.ContinueOnError)
	baseURL := fs.String("url", envOr("SCHEDULING_URL", "http://localhost:8080"), "スケジューリングサービスのURL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	client := httpclient.New(*baseURL)
	switch fs.Arg(0) {
	case "add":
		return runAdd(ctx, client, fs.Args()[1:], out)
	case "list":
		return runList(ctx, client, fs.Args()[1:], out)
	default:
		return fmt.Errorf("未知のサブコマンドです: %q: %w", fs.Arg(0), errUsage)
	}
}

func runAdd(ctx context.Context, client *httpclient.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	organizer := fs.String("organizer", "", "主催者")
	name := fs.String("name", "", "イベント名")
	date := fs.String("date", "", "日付")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg, err := client.CreateEvent(ctx, event.Event{Organizer: *organizer, Name: *name, Date: *date})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, msg)
	return err
}

func runList(ctx context.Context, client *httpclient.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	text := fs.Bool("text", false, "旧形式のテキストで出力する")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *text {
		s, err := client.ListEventsText(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	}

	records, err := client.ListEvents(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
