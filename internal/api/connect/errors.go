package connect

import (
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19guess/internal/app/session"
	"github.com/osa030/19guess/internal/app/session/registry"
	"github.com/osa030/19guess/internal/app/source"
	"github.com/osa030/19guess/internal/domain/player"
	"github.com/osa030/19guess/internal/infra/config"
)

// MessageCodeHeader carries the configured message code of a failed call.
const MessageCodeHeader = "Guess-Message-Code"

// toConnectError maps a game error to a connect error whose message is the
// configured user-facing text.
func toConnectError(cfg *config.Config, err error) error {
	code, msgCode := classify(err)
	if code == connect.CodeInternal {
		zlog.Error().Msgf("request failed: %v", err)
	} else {
		zlog.Debug().Msgf("request rejected: code=%s error=%v", code, err)
	}

	msg := cfg.GetMessage(msgCode)
	if hint := strings.Join(errors.GetAllHints(err), " "); hint != "" {
		msg = msg + " " + hint
	}

	cerr := connect.NewError(code, errors.New(msg))
	cerr.Meta().Set(MessageCodeHeader, msgCode)
	return cerr
}

func classify(err error) (connect.Code, string) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return connect.CodeNotFound, "session_not_found"
	case errors.Is(err, session.ErrSessionFinished):
		return connect.CodeFailedPrecondition, "session_finished"
	case errors.Is(err, session.ErrInvalidRoundLimit):
		return connect.CodeInvalidArgument, "invalid_round_limit"
	case errors.Is(err, session.ErrNoPlayableSongs):
		return connect.CodeFailedPrecondition, "no_playable_songs"
	case errors.Is(err, player.ErrEmptyRoster), errors.Is(err, player.ErrEmptyName), errors.Is(err, player.ErrDuplicateName):
		return connect.CodeFailedPrecondition, "default_error"
	case errors.Is(err, source.ErrUnknownSource):
		return connect.CodeNotFound, "source_unavailable"
	case errors.Is(err, source.ErrUnavailable):
		return connect.CodeUnavailable, "source_unavailable"
	default:
		return connect.CodeInternal, "default_error"
	}
}
