// Package main provides the admin CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/19guess/internal/api/connect"
)

var (
	app    = kingpin.New("19guess-admincli", "19guess admin client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Admin token (or set ADMIN_TOKEN env)").Envar("ADMIN_TOKEN").String()

	// list command
	listCmd = app.Command("list", "List live games").Alias("ls")

	// end command
	endCmd     = app.Command("end", "End a game early")
	endSession = endCmd.Arg("session-id", "Session ID (UUID)").Required().String()

	// remove command
	removeCmd     = app.Command("remove", "End a game and forget it").Alias("rm")
	removeSession = removeCmd.Arg("session-id", "Session ID (UUID)").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *token == "" {
		fmt.Println("Error: admin token is required (use --token or ADMIN_TOKEN env)")
		os.Exit(1)
	}

	client := apiconnect.NewAdminClient(http.DefaultClient, *server, *token)
	ctx := context.Background()

	switch command {
	case listCmd.FullCommand():
		list(ctx, client)
	case endCmd.FullCommand():
		end(ctx, client, *endSession)
	case removeCmd.FullCommand():
		remove(ctx, client, *removeSession)
	}
}

func list(ctx context.Context, client *apiconnect.AdminClient) {
	sessions, err := client.ListSessions(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Games (%d):\n", len(sessions))
	for _, s := range sessions {
		limit := "all"
		if s.RoundLimit > 0 {
			limit = fmt.Sprintf("%d", s.RoundLimit)
		}
		state := s.Phase
		if s.EndReason != "none" {
			state += " (" + s.EndReason + ")"
		}
		fmt.Printf("  %s: %s [%s] score=%d rounds=%d/%s songs=%d remaining=%d created=%s\n",
			s.SessionID, s.PlaylistName, state, s.Progress.Score, s.Progress.CompletedRounds, limit,
			s.Progress.TotalSongs, s.Progress.Remaining, s.CreatedAt)
	}
}

func end(ctx context.Context, client *apiconnect.AdminClient, sessionID string) {
	sum, err := client.EndSession(ctx, sessionID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Game ended: score=%d rounds=%d reason=%s\n", sum.FinalScore, sum.Rounds, sum.EndReason)
}

func remove(ctx context.Context, client *apiconnect.AdminClient, sessionID string) {
	resp, err := client.RemoveSession(ctx, sessionID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if resp.Success {
		fmt.Println("Game removed")
	} else {
		fmt.Printf("Failed: %s\n", resp.Message)
	}
}
