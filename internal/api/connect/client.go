package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// GameClient calls a remote GameService.
type GameClient struct {
	listSources     *connect.Client[ListSourcesRequest, ListSourcesResponse]
	listRoundLimits *connect.Client[ListRoundLimitsRequest, ListRoundLimitsResponse]
	createSession   *connect.Client[CreateSessionRequest, CreateSessionResponse]
	nextRound       *connect.Client[NextRoundRequest, NextRoundResponse]
	submitGuess     *connect.Client[SubmitGuessRequest, SubmitGuessResponse]
	getStatus       *connect.Client[GetStatusRequest, GetStatusResponse]
	getSummary      *connect.Client[GetSummaryRequest, GetSummaryResponse]
	endSession      *connect.Client[EndSessionRequest, EndSessionResponse]
}

// NewGameClient creates a client for the GameService at baseURL.
func NewGameClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GameClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &GameClient{
		listSources:     connect.NewClient[ListSourcesRequest, ListSourcesResponse](httpClient, baseURL+ListSourcesProcedure, opts...),
		listRoundLimits: connect.NewClient[ListRoundLimitsRequest, ListRoundLimitsResponse](httpClient, baseURL+ListRoundLimitsProcedure, opts...),
		createSession:   connect.NewClient[CreateSessionRequest, CreateSessionResponse](httpClient, baseURL+CreateSessionProcedure, opts...),
		nextRound:       connect.NewClient[NextRoundRequest, NextRoundResponse](httpClient, baseURL+NextRoundProcedure, opts...),
		submitGuess:     connect.NewClient[SubmitGuessRequest, SubmitGuessResponse](httpClient, baseURL+SubmitGuessProcedure, opts...),
		getStatus:       connect.NewClient[GetStatusRequest, GetStatusResponse](httpClient, baseURL+GetStatusProcedure, opts...),
		getSummary:      connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
		endSession:      connect.NewClient[EndSessionRequest, EndSessionResponse](httpClient, baseURL+EndSessionProcedure, opts...),
	}
}

// ListSources calls GameService.ListSources.
func (c *GameClient) ListSources(ctx context.Context) ([]string, error) {
	resp, err := c.listSources.CallUnary(ctx, connect.NewRequest(&ListSourcesRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Sources, nil
}

// ListRoundLimits calls GameService.ListRoundLimits.
func (c *GameClient) ListRoundLimits(ctx context.Context, source string) (*ListRoundLimitsResponse, error) {
	resp, err := c.listRoundLimits.CallUnary(ctx, connect.NewRequest(&ListRoundLimitsRequest{Source: source}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// CreateSession calls GameService.CreateSession.
func (c *GameClient) CreateSession(ctx context.Context, req *CreateSessionRequest) (SessionInfo, error) {
	resp, err := c.createSession.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return SessionInfo{}, err
	}
	return resp.Msg.Session, nil
}

// NextRound calls GameService.NextRound.
func (c *GameClient) NextRound(ctx context.Context, sessionID string) (RoundInfo, error) {
	resp, err := c.nextRound.CallUnary(ctx, connect.NewRequest(&NextRoundRequest{SessionID: sessionID}))
	if err != nil {
		return RoundInfo{}, err
	}
	return resp.Msg.Round, nil
}

// SubmitGuess calls GameService.SubmitGuess.
func (c *GameClient) SubmitGuess(ctx context.Context, sessionID, guess string) (GuessInfo, error) {
	resp, err := c.submitGuess.CallUnary(ctx, connect.NewRequest(&SubmitGuessRequest{SessionID: sessionID, Guess: guess}))
	if err != nil {
		return GuessInfo{}, err
	}
	return resp.Msg.Result, nil
}

// GetStatus calls GameService.GetStatus.
func (c *GameClient) GetStatus(ctx context.Context, sessionID string) (SessionInfo, error) {
	resp, err := c.getStatus.CallUnary(ctx, connect.NewRequest(&GetStatusRequest{SessionID: sessionID}))
	if err != nil {
		return SessionInfo{}, err
	}
	return resp.Msg.Session, nil
}

// GetSummary calls GameService.GetSummary.
func (c *GameClient) GetSummary(ctx context.Context, sessionID string) (SummaryInfo, error) {
	resp, err := c.getSummary.CallUnary(ctx, connect.NewRequest(&GetSummaryRequest{SessionID: sessionID}))
	if err != nil {
		return SummaryInfo{}, err
	}
	return resp.Msg.Summary, nil
}

// EndSession calls GameService.EndSession.
func (c *GameClient) EndSession(ctx context.Context, sessionID string) (SummaryInfo, error) {
	resp, err := c.endSession.CallUnary(ctx, connect.NewRequest(&EndSessionRequest{SessionID: sessionID}))
	if err != nil {
		return SummaryInfo{}, err
	}
	return resp.Msg.Summary, nil
}

// AdminClient calls a remote AdminService.
type AdminClient struct {
	listSessions  *connect.Client[ListSessionsRequest, ListSessionsResponse]
	endSession    *connect.Client[EndSessionRequest, EndSessionResponse]
	removeSession *connect.Client[RemoveSessionRequest, RemoveSessionResponse]
}

// NewAdminClient creates a client for the AdminService at baseURL that sends
// token with every call.
func NewAdminClient(httpClient connect.HTTPClient, baseURL, token string, opts ...connect.ClientOption) *AdminClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(NewAdminTokenInterceptor(token)),
	}, opts...)
	return &AdminClient{
		listSessions:  connect.NewClient[ListSessionsRequest, ListSessionsResponse](httpClient, baseURL+ListSessionsProcedure, opts...),
		endSession:    connect.NewClient[EndSessionRequest, EndSessionResponse](httpClient, baseURL+AdminEndSessionProcedure, opts...),
		removeSession: connect.NewClient[RemoveSessionRequest, RemoveSessionResponse](httpClient, baseURL+RemoveSessionProcedure, opts...),
	}
}

// ListSessions calls AdminService.ListSessions.
func (c *AdminClient) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	resp, err := c.listSessions.CallUnary(ctx, connect.NewRequest(&ListSessionsRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Sessions, nil
}

// EndSession calls AdminService.EndSession.
func (c *AdminClient) EndSession(ctx context.Context, sessionID string) (SummaryInfo, error) {
	resp, err := c.endSession.CallUnary(ctx, connect.NewRequest(&EndSessionRequest{SessionID: sessionID}))
	if err != nil {
		return SummaryInfo{}, err
	}
	return resp.Msg.Summary, nil
}

// RemoveSession calls AdminService.RemoveSession.
func (c *AdminClient) RemoveSession(ctx context.Context, sessionID string) (*RemoveSessionResponse, error) {
	resp, err := c.removeSession.CallUnary(ctx, connect.NewRequest(&RemoveSessionRequest{SessionID: sessionID}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
