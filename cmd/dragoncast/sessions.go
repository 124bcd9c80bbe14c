package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	db "github.com/tauraamui/dragoncast/pkg/database"
	"github.com/tauraamui/dragoncast/pkg/database/models"
	"github.com/tauraamui/dragoncast/pkg/database/repos"
	"golang.org/x/term"
)

const recentSessionsLimit = 20

var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func listSessions(out *os.File) (string, error) {
	conn, err := db.Connect()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	repo := repos.SessionRepository{DB: conn}
	sessions, err := repo.FindRecent(recentSessionsLimit)
	if err != nil {
		return "", err
	}

	if isTerminal(out) {
		writeSessionTable(out, sessions)
	} else {
		writeSessionRows(out, sessions)
	}

	return fmt.Sprintf("Listed %d recent sessions", len(sessions)), nil
}

func writeSessionTable(out io.Writer, sessions []models.Session) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UUID\tSTARTED\tDURATION\tDESTINATION\tCAPTURE\tENCODER\tFRAMES\tBYTES\tSKIPPED")
	writeSessionRows(w, sessions)
	w.Flush()
}

// writeSessionRows writes one tab separated line per session, suitable
// for piping into other tools.
func writeSessionRows(out io.Writer, sessions []models.Session) {
	for _, s := range sessions {
		fmt.Fprintf(
			out, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			s.UUID, s.StartedAt.Format(time.RFC3339), s.Duration().Round(time.Second),
			s.Destination, s.CaptureBackend, s.EncoderBackend,
			s.FramesSent, s.BytesSent, s.Timeouts+s.CaptureFailures+s.EncodeFailures,
		)
	}
}
