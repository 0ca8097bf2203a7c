package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"

	"streamchat/commands"
	"streamchat/contract"
	"streamchat/moderation"
	"streamchat/session"
	"streamchat/streamlog/remote"
	"streamchat/ui"
)

var (
	verbose     bool
	scope       string
	stream      string
	jokeURL     string
	censoredDir string
	searchLimit int
)

var rootCmd = &cobra.Command{
	Use:   "streamchat <url> <id>",
	Short: "Two-party chat over a durable append-log",
	Long: `streamchat joins a shared stream served by a log daemon and runs one
chat participant: everything you type is appended to the log, everything
other participants append is displayed. Reserved keywords (greet, joke)
trigger locally computed replies instead of being relayed verbatim.

Examples:
  streamchat ws://127.0.0.1:9090/ws tim --verbose
  streamchat ws://127.0.0.1:9090/ws alex`,
	Args: cobra.ExactArgs(2),
	RunE: runChat,
}

var searchCmd = &cobra.Command{
	Use:   "search <url> <term>",
	Short: "Search past messages through the daemon's full text index",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearch,
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&scope, "scope", "chat", "log scope to join")
	rootCmd.Flags().StringVar(&stream, "stream", "lobby", "stream inside the scope")
	rootCmd.Flags().StringVar(&jokeURL, "joke-url", "https://official-joke-api.appspot.com", "joke provider base URL")
	rootCmd.Flags().StringVar(&censoredDir, "censored-dir", "", "directory of extra censored word lists, watched for changes")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of hits")
	rootCmd.AddCommand(searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func logger() *slog.Logger {
	if verbose {
		return logs.GetLoggerFromLevel(slog.LevelDebug)
	}
	return logs.GetLoggerFromLevel(slog.LevelInfo)
}

func runChat(cmd *cobra.Command, args []string) error {
	url, identity := args[0], args[1]
	log := logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := remote.Dial(ctx, url, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	reader, writer, err := session.Attach(ctx, client, session.Coordinates{Scope: scope, Stream: stream}, identity)
	if err != nil {
		return err
	}

	console := ui.NewConsole(os.Stdout, identity)
	sink, err := displaySink(ctx, console, log)
	if err != nil {
		return err
	}

	registry := commands.NewRegistry(log).
		Register("greet", commands.Greet()).
		Register("joke", commands.NewJokeClient(jokeURL, 0).Handler())

	input := session.Lines(os.Stdin, console.Prompt)
	sess := session.New(log, session.Config{Identity: identity}, reader, writer, registry, sink, input)

	log.Info("Joining chat", "scope", scope, "stream", stream, "identity", identity)
	return sess.Run(ctx)
}

// displaySink stacks the censor filter in front of the console, with
// the embedded word lists as baseline and an optional watched override
// directory.
func displaySink(ctx context.Context, console *ui.Console, log *slog.Logger) (contract.DisplaySink, error) {
	lists, err := moderation.DefaultLists()
	if err != nil {
		return nil, fmt.Errorf("loading censored lists: %w", err)
	}
	moderator, err := moderation.NewModerator(lists.Words, '*', log)
	if err != nil {
		return nil, fmt.Errorf("building moderator: %w", err)
	}
	holder := moderation.NewHolder(moderator)

	if censoredDir != "" {
		reloader := moderation.NewReloader(holder, censoredDir, '*', log)
		go func() {
			if err := reloader.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warn("Dictionary watcher stopped", "error", err)
			}
		}()
	}
	return moderation.NewDisplayFilter(holder, console, log), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	url, term := args[0], args[1]
	log := logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := remote.Dial(ctx, url, log)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	hits, err := client.Search(ctx, term, searchLimit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No messages matched.")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("%s/%s #%s  %s: %s\n", hit.Scope, hit.Stream, strconv.FormatUint(hit.Seq, 10), hit.Sender, hit.Text)
	}
	return nil
}
