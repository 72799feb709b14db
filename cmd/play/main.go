// Package main provides the terminal game client.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/19guess/internal/api/connect"
)

var (
	app        = kingpin.New("19guess-play", "Play the 19guess playlist guessing game in the terminal")
	server     = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	sourceName = app.Flag("source", "Playlist source display name (default: ask)").String()
	rounds     = app.Flag("rounds", `Number of rounds, or "all" (default: ask)`).String()
	seed       = app.Flag("seed", "Random seed for a reproducible game").Uint64()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	client := apiconnect.NewGameClient(http.DefaultClient, *server)
	in := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	if err := play(ctx, client, in); err != nil {
		fmt.Printf("Error: %v\n", message(err))
		os.Exit(1)
	}
}

func play(ctx context.Context, client *apiconnect.GameClient, in *bufio.Scanner) error {
	src := *sourceName
	if src == "" {
		sources, err := client.ListSources(ctx)
		if err != nil {
			return err
		}
		src, err = pickSource(in, sources)
		if err != nil {
			return err
		}
	}

	info, err := createSession(ctx, client, in, src)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s ===\n", info.PlaylistName)
	fmt.Printf("Songs: %d  Players: %s\n", info.Progress.TotalSongs, strings.Join(info.Players, ", "))
	if info.Rejected > 0 {
		fmt.Printf("(%d tracks were left out of the game)\n", info.Rejected)
	}

	// End the game on the server when interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nEnding game...")
		if sum, err := client.EndSession(context.Background(), info.SessionID); err == nil {
			printSummary(sum)
		}
		os.Exit(0)
	}()

	for {
		r, err := client.NextRound(ctx, info.SessionID)
		if connect.CodeOf(err) == connect.CodeFailedPrecondition {
			break
		}
		if err != nil {
			return err
		}

		printRound(r)
		guess, err := pickPlayer(in, r.Options)
		if err != nil {
			return err
		}

		res, err := client.SubmitGuess(ctx, info.SessionID, guess)
		if err != nil {
			return err
		}
		fmt.Printf("%s\nScore: %d\n", res.Message, res.Score)
		if res.SessionOver {
			break
		}
	}

	sum, err := client.GetSummary(ctx, info.SessionID)
	if err != nil {
		return err
	}
	printSummary(sum)
	return nil
}

// createSession asks for a round limit until the server accepts one.
func createSession(ctx context.Context, client *apiconnect.GameClient, in *bufio.Scanner, src string) (apiconnect.SessionInfo, error) {
	limit := *rounds
	for {
		if limit == "" {
			limits, err := client.ListRoundLimits(ctx, src)
			if err != nil {
				return apiconnect.SessionInfo{}, err
			}
			fmt.Printf("\nHow many rounds? (%d songs)\n", limits.Available)
			for _, o := range limits.Options {
				fmt.Printf("  - %s\n", o.Label)
			}
			limit, err = prompt(in, `Rounds (number or "all"): `)
			if err != nil {
				return apiconnect.SessionInfo{}, err
			}
		}

		info, err := client.CreateSession(ctx, &apiconnect.CreateSessionRequest{
			Source:     src,
			RoundLimit: limit,
			Seed:       *seed,
		})
		if connect.CodeOf(err) == connect.CodeInvalidArgument {
			fmt.Println(message(err))
			limit = ""
			continue
		}
		return info, err
	}
}

func pickSource(in *bufio.Scanner, sources []string) (string, error) {
	if len(sources) <= 1 {
		return "", nil
	}
	fmt.Println("Playlist sources:")
	for i, s := range sources {
		fmt.Printf("  %d. %s\n", i+1, s)
	}
	for {
		answer, err := prompt(in, "Source (Enter for the first available): ")
		if err != nil {
			return "", err
		}
		if answer == "" {
			return "", nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(sources) {
			return sources[n-1], nil
		}
		fmt.Println("Pick a number from the list.")
	}
}

func pickPlayer(in *bufio.Scanner, options []string) (string, error) {
	for {
		answer, err := prompt(in, "Who added it? ")
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		for _, o := range options {
			if strings.EqualFold(o, answer) {
				return o, nil
			}
		}
		fmt.Println("Pick a number or type a name from the list.")
	}
}

func prompt(in *bufio.Scanner, label string) (string, error) {
	fmt.Print(label)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", errors.Wrap(err, "failed to read input")
		}
		return "", errors.New("input closed")
	}
	return strings.TrimSpace(in.Text()), nil
}

func printRound(r apiconnect.RoundInfo) {
	fmt.Printf("\n--- Round %d ---\n", r.Number)
	if r.IsRepeat {
		fmt.Println("Second chance! (5 points)")
	}
	fmt.Printf("%s / %s\n", r.Title, strings.Join(r.Artists, ", "))
	if r.Album != "" {
		fmt.Printf("Album: %s\n", r.Album)
	}
	if len(r.Hints) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(r.Hints, ", "))
	}
	if r.PreviewURL != "" {
		fmt.Printf("Preview: %s\n", r.PreviewURL)
	} else if r.URL != "" {
		fmt.Printf("Listen: %s\n", r.URL)
	}
	for i, o := range r.Options {
		fmt.Printf("  %d. %s\n", i+1, o)
	}
}

func printSummary(s apiconnect.SummaryInfo) {
	fmt.Println("\n=== GAME OVER ===")
	fmt.Printf("Final score: %d\n", s.FinalScore)
	fmt.Printf("Rounds: %d (correct %d, missed %d)\n", s.Rounds, s.Correct, s.Missed)
	fmt.Printf("Ended: %s\n", formatEndReason(s.EndReason))
	for _, h := range s.History {
		mark := "o"
		if h.GuessedName != h.CorrectName {
			mark = "x"
		}
		fmt.Printf("  %s %2d. %s / %s: guessed %s, added by %s (+%d)\n",
			mark, h.Round, h.Title, h.Artists, h.GuessedName, h.CorrectName, h.Points)
	}
}

func formatEndReason(reason string) string {
	switch reason {
	case "exhausted":
		return "every song was played"
	case "round_limit":
		return "round limit reached"
	case "abandoned":
		return "ended early"
	default:
		return reason
	}
}

// message returns the server's user-facing message for connect errors.
func message(err error) string {
	var cerr *connect.Error
	if errors.As(err, &cerr) && cerr.Message() != "" {
		return cerr.Message()
	}
	return err.Error()
}
