// Package main provides the Spotify authorization helper. It obtains the
// refresh token the server uses to read playlists and prints the Spotify user
// ID of the account, which is what players[].spotify_user_id expects.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/19guess/internal/infra/logger"
	"github.com/osa030/19guess/internal/infra/spotify"
)

var (
	app          = kingpin.New("19guess-auth", "Authorize 19guess to read your Spotify playlists")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	port         = app.Flag("port", "Callback server port").Default("8888").Int()
	timeout      = app.Flag("timeout", "How long to wait for the browser callback").Default("5m").Duration()
)

const donePage = `<!DOCTYPE html>
<html>
<head><title>19guess</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh">
<h1>19guess is authorized</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>
`

// callback receives the redirect from Spotify and hands the token over once.
type callback struct {
	auth   *spotifyauth.Authenticator
	state  string
	tokens chan *oauth2.Token
}

func (c *callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if st := r.FormValue("state"); st != c.state {
		http.Error(w, "state mismatch", http.StatusForbidden)
		zlog.Error().Msgf("state mismatch: got=%s", st)
		return
	}

	token, err := c.auth.Token(r.Context(), c.state, r)
	if err != nil {
		http.Error(w, "failed to get token", http.StatusForbidden)
		zlog.Error().Msgf("failed to exchange code: %v", err)
		return
	}

	fmt.Fprint(w, donePage)
	select {
	case c.tokens <- token:
	default:
	}
}

func main() {
	_ = godotenv.Load()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Output: "stderr", Level: "info"}); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if err := run(); err != nil {
		zlog.Fatal().Msgf("authorization failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	addr := fmt.Sprintf("127.0.0.1:%d", *port)
	cb := &callback{
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL("http://"+addr+"/callback"),
			spotifyauth.WithClientID(*clientID),
			spotifyauth.WithClientSecret(*clientSecret),
			spotifyauth.WithScopes(spotify.Scopes...),
		),
		state:  "19guess-" + uuid.NewString(),
		tokens: make(chan *oauth2.Token, 1),
	}

	mux := http.NewServeMux()
	mux.Handle("/callback", cb)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Error().Msgf("failed to shutdown callback server: %v", err)
		}
	}()

	fmt.Println("Open this URL in a browser and log in with the account that owns the party playlist:")
	fmt.Println()
	fmt.Println(cb.auth.AuthURL(cb.state))
	fmt.Println()

	var token *oauth2.Token
	select {
	case token = <-cb.tokens:
	case err := <-serveErr:
		return errors.Wrapf(err, "callback server on %s", addr)
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "no callback received")
	}

	user, err := spotifyapi.New(cb.auth.Client(ctx, token)).CurrentUser(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to look up the authorized user")
	}

	fmt.Printf("Authorized as %s (spotify user id %s)\n\n", user.DisplayName, user.ID)
	fmt.Println("Add to server.yaml:")
	fmt.Println()
	fmt.Println("spotify:")
	fmt.Printf("  refresh_token: %q\n", token.RefreshToken)
	fmt.Println()
	fmt.Println("or export it:")
	fmt.Printf("  export SPOTIFY_REFRESH_TOKEN=%q\n", token.RefreshToken)
	fmt.Println()
	fmt.Println("To tie this account to a player, use it as spotify_user_id:")
	fmt.Println()
	fmt.Println("players:")
	fmt.Printf("  - name: %q\n", user.DisplayName)
	fmt.Printf("    spotify_user_id: %q\n", user.ID)
	return nil
}
