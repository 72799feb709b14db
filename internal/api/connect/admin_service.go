package connect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/19guess/internal/app/session"
	"github.com/osa030/19guess/internal/infra/config"
)

// AdminServiceName is the fully-qualified name of the AdminService.
const AdminServiceName = "guess.v1.AdminService"

// AdminService procedure paths.
const (
	ListSessionsProcedure    = "/" + AdminServiceName + "/ListSessions"
	AdminEndSessionProcedure  = "/" + AdminServiceName + "/EndSession"
	RemoveSessionProcedure   = "/" + AdminServiceName + "/RemoveSession"
)

// AdminService implements the AdminService RPC.
type AdminService struct {
	session *session.Manager
	config  *config.Config
}

// NewAdminService creates a new AdminService.
func NewAdminService(session *session.Manager, cfg *config.Config) *AdminService {
	return &AdminService{
		session: session,
		config:  cfg,
	}
}

// NewAdminServiceHandler builds an HTTP handler for the service, guarded by
// the admin token, and returns the path to mount it on.
func NewAdminServiceHandler(svc *AdminService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(NewAdminAuthInterceptor(svc.config), NewValidationInterceptor()),
	}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListSessionsProcedure, connect.NewUnaryHandler(ListSessionsProcedure, svc.ListSessions, opts...))
	mux.Handle(AdminEndSessionProcedure, connect.NewUnaryHandler(AdminEndSessionProcedure, svc.EndSession, opts...))
	mux.Handle(RemoveSessionProcedure, connect.NewUnaryHandler(RemoveSessionProcedure, svc.RemoveSession, opts...))
	return "/" + AdminServiceName + "/", mux
}

// ListSessions returns every live game.
func (s *AdminService) ListSessions(
	ctx context.Context,
	req *connect.Request[ListSessionsRequest],
) (*connect.Response[ListSessionsResponse], error) {
	statuses := s.session.List()
	resp := &ListSessionsResponse{Sessions: make([]SessionInfo, len(statuses))}
	for i, st := range statuses {
		resp.Sessions[i] = toSessionInfo(st)
	}
	return connect.NewResponse(resp), nil
}

// EndSession ends a game early.
func (s *AdminService) EndSession(
	ctx context.Context,
	req *connect.Request[EndSessionRequest],
) (*connect.Response[EndSessionResponse], error) {
	sum, err := s.session.End(req.Msg.SessionID)
	if err != nil {
		return nil, toConnectError(s.config, err)
	}
	return connect.NewResponse(&EndSessionResponse{Summary: toSummaryInfo(sum)}), nil
}

// RemoveSession ends a game if needed and forgets it.
func (s *AdminService) RemoveSession(
	ctx context.Context,
	req *connect.Request[RemoveSessionRequest],
) (*connect.Response[RemoveSessionResponse], error) {
	if err := s.session.Remove(req.Msg.SessionID); err != nil {
		return connect.NewResponse(&RemoveSessionResponse{
			Success: false,
			Message: err.Error(),
		}), nil
	}

	return connect.NewResponse(&RemoveSessionResponse{
		Success: true,
		Message: "Session removed",
	}), nil
}
