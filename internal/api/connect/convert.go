package connect

import (
	"time"

	"github.com/osa030/19guess/internal/app/round"
	"github.com/osa030/19guess/internal/app/session"
)

func toRoundInfo(r session.Round) RoundInfo {
	return RoundInfo{
		Number:      r.Round,
		TrackID:     r.TrackID,
		Title:       r.Title,
		Artists:     r.Artists,
		Album:       r.Album,
		AlbumArtURL: r.AlbumArtURL,
		PreviewURL:  r.PreviewURL,
		URL:         r.URL,
		IsRepeat:    r.IsRepeat,
		TimesShown:  r.TimesShown,
		Options:     r.GuessOptions,
		Hints:       r.Hints,
	}
}

func toGuessInfo(o session.Outcome) GuessInfo {
	info := GuessInfo{
		Resolved:    o.Resolved,
		Correct:     o.Correct,
		Points:      o.Points,
		GuessedName: o.GuessedName,
		CorrectName: o.CorrectName,
		TrackID:     o.TrackID,
		WasRepeat:   o.WasRepeat,
		Message:     o.Message,
		Score:       o.Score,
		SessionOver: o.SessionOver,
		EndReason:   o.EndReason.String(),
	}
	if o.Resolved {
		info.NewStatus = o.NewStatus.String()
	}
	return info
}

func toSessionInfo(st session.Status) SessionInfo {
	info := SessionInfo{
		SessionID:    st.ID,
		PlaylistID:   st.Info.PlaylistID,
		PlaylistName: st.Info.PlaylistName,
		Source:       st.Info.Source,
		Rejected:     st.Info.Rejected,
		Phase:        st.Phase.String(),
		EndReason:    st.EndReason.String(),
		RoundLimit:   st.Limit.Max(),
		Players:      st.Players,
		Progress:     toProgress(st.Progress),
		CreatedAt:    st.CreatedAt.Format(time.RFC3339),
	}
	if st.Current != nil {
		r := toRoundInfo(*st.Current)
		info.Current = &r
	}
	if !st.EndedAt.IsZero() {
		info.EndedAt = st.EndedAt.Format(time.RFC3339)
	}
	return info
}

func toProgress(s round.Snapshot) Progress {
	return Progress{
		Score:           s.Score,
		TotalSongs:      s.TotalSongs,
		Remaining:       s.Remaining,
		NewCount:        s.NewCount,
		RepeatCount:     s.RepeatCount,
		DoneCount:       s.DoneCount,
		CompletedRounds: s.CompletedRounds,
		Exhausted:       s.Exhausted,
		RoundPending:    s.RoundPending,
	}
}

func toSummaryInfo(s session.Summary) SummaryInfo {
	info := SummaryInfo{
		SessionID:    s.ID,
		PlaylistName: s.Info.PlaylistName,
		FinalScore:   s.FinalScore,
		Rounds:       s.Rounds,
		TotalSongs:   s.TotalSongs,
		RoundLimit:   s.Limit.Max(),
		EndReason:    s.EndReason.String(),
		History:      make([]HistoryInfo, len(s.History)),
		Correct:      len(s.Correct),
		Missed:       len(s.Missed),
	}
	for i, h := range s.History {
		info.History[i] = HistoryInfo{
			Round:       h.Round,
			TrackID:     h.TrackID,
			Title:       h.SongTitle,
			Artists:     h.Artists,
			GuessedName: h.GuessedName,
			CorrectName: h.CorrectName,
			Points:      h.Points,
			Repeat:      h.Repeat,
		}
	}
	return info
}
