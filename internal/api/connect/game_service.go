package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/19guess/internal/app/session"
	"github.com/osa030/19guess/internal/infra/config"
)

// GameServiceName is the fully-qualified name of the GameService.
const GameServiceName = "guess.v1.GameService"

// GameService procedure paths.
const (
	ListSourcesProcedure     = "/" + GameServiceName + "/ListSources"
	ListRoundLimitsProcedure = "/" + GameServiceName + "/ListRoundLimits"
	CreateSessionProcedure   = "/" + GameServiceName + "/CreateSession"
	NextRoundProcedure       = "/" + GameServiceName + "/NextRound"
	SubmitGuessProcedure     = "/" + GameServiceName + "/SubmitGuess"
	GetStatusProcedure       = "/" + GameServiceName + "/GetStatus"
	GetSummaryProcedure      = "/" + GameServiceName + "/GetSummary"
	EndSessionProcedure      = "/" + GameServiceName + "/EndSession"
)

// GameService implements the GameService RPC used by players.
type GameService struct {
	session *session.Manager
	config  *config.Config
}

// NewGameService creates a new GameService.
func NewGameService(session *session.Manager, cfg *config.Config) *GameService {
	return &GameService{
		session: session,
		config:  cfg,
	}
}

// NewGameServiceHandler builds an HTTP handler for the service and returns
// the path to mount it on.
func NewGameServiceHandler(svc *GameService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(NewValidationInterceptor()),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListSourcesProcedure, connect.NewUnaryHandler(ListSourcesProcedure, svc.ListSources, opts...))
	mux.Handle(ListRoundLimitsProcedure, connect.NewUnaryHandler(ListRoundLimitsProcedure, svc.ListRoundLimits, opts...))
	mux.Handle(CreateSessionProcedure, connect.NewUnaryHandler(CreateSessionProcedure, svc.CreateSession, opts...))
	mux.Handle(NextRoundProcedure, connect.NewUnaryHandler(NextRoundProcedure, svc.NextRound, opts...))
	mux.Handle(SubmitGuessProcedure, connect.NewUnaryHandler(SubmitGuessProcedure, svc.SubmitGuess, opts...))
	mux.Handle(GetStatusProcedure, connect.NewUnaryHandler(GetStatusProcedure, svc.GetStatus, opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...))
	mux.Handle(EndSessionProcedure, connect.NewUnaryHandler(EndSessionProcedure, svc.EndSession, opts...))
	return "/" + GameServiceName + "/", mux
}

// ListSources returns the playlist sources a game can be started from.
func (s *GameService) ListSources(
	ctx context.Context,
	req *connect.Request[ListSourcesRequest],
) (*connect.Response[ListSourcesResponse], error) {
	return connect.NewResponse(&ListSourcesResponse{Sources: s.session.Sources()}), nil
}

// ListRoundLimits returns the round limit picker for a source.
func (s *GameService) ListRoundLimits(
	ctx context.Context,
	req *connect.Request[ListRoundLimitsRequest],
) (*connect.Response[ListRoundLimitsResponse], error) {
	opts, available, err := s.session.LimitOptions(ctx, req.Msg.Source)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}

	resp := &ListRoundLimitsResponse{
		Available: available,
		Options:   make([]RoundLimitOption, len(opts)),
	}
	for i, o := range opts {
		resp.Options[i] = RoundLimitOption{Label: o.Label, Rounds: o.Limit.Max()}
	}
	return connect.NewResponse(resp), nil
}

// CreateSession starts a new game.
func (s *GameService) CreateSession(
	ctx context.Context,
	req *connect.Request[CreateSessionRequest],
) (*connect.Response[CreateSessionResponse], error) {
	g, err := s.session.CreateSession(ctx, session.CreateRequest{
		Source:     req.Msg.Source,
		RoundLimit: req.Msg.RoundLimit,
		Seed:       req.Msg.Seed,
	})
	if err != nil {
		return nil, toConnectError(s.config, err)
	}

	return connect.NewResponse(&CreateSessionResponse{
		Session: toSessionInfo(g.Status()),
	}), nil
}

// NextRound starts the next round, or returns the pending one.
func (s *GameService) NextRound(
	ctx context.Context,
	req *connect.Request[NextRoundRequest],
) (*connect.Response[NextRoundResponse], error) {
	r, err := s.session.NextRound(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}
	return connect.NewResponse(&NextRoundResponse{Round: toRoundInfo(r)}), nil
}

// SubmitGuess resolves the pending round.
func (s *GameService) SubmitGuess(
	ctx context.Context,
	req *connect.Request[SubmitGuessRequest],
) (*connect.Response[SubmitGuessResponse], error) {
	out, err := s.session.Guess(ctx, req.Msg.SessionID, req.Msg.Guess)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}
	return connect.NewResponse(&SubmitGuessResponse{Result: toGuessInfo(out)}), nil
}

// GetStatus returns the state of a game.
func (s *GameService) GetStatus(
	ctx context.Context,
	req *connect.Request[GetStatusRequest],
) (*connect.Response[GetStatusResponse], error) {
	st, err := s.session.Status(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}
	return connect.NewResponse(&GetStatusResponse{Session: toSessionInfo(st)}), nil
}

// GetSummary returns the review of a game.
func (s *GameService) GetSummary(
	ctx context.Context,
	req *connect.Request[GetSummaryRequest],
) (*connect.Response[GetSummaryResponse], error) {
	sum, err := s.session.Summary(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}
	return connect.NewResponse(&GetSummaryResponse{Summary: toSummaryInfo(sum)}), nil
}

// EndSession ends a game early.
func (s *GameService) EndSession(
	ctx context.Context,
	req *connect.Request[EndSessionRequest],
) (*connect.Response[EndSessionResponse], error) {
	sum, err := s.session.End(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}
	return connect.NewResponse(&EndSessionResponse{Summary: toSummaryInfo(sum)}), nil
}
