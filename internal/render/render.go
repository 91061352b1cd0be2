// Package render turns leaderboard rows into Discord message text.
// Every function here is pure apart from the one-off time zone lookup in New.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/pinned-leaderboard/internal/leaderboard"
)

const (
	// WinRateSentinel replaces the win rate when matches is unknown or not positive.
	WinRateSentinel = "—"

	// Placeholder is the content of a freshly created pinned message.
	Placeholder = "Initializing leaderboard…"

	// FailureNotice is the reply sent when the stats store cannot be queried.
	FailureNotice = "Sorry, the leaderboard is unavailable right now. Please try again later."
)

const (
	emptyBody     = "No data yet. Play some matches to appear here!"
	timestampFmt  = "2006-01-02 15:04"
	fallbackZone  = "UTC"
	defaultPrefix = "!"
	defaultTitle  = "Leaderboard"
	defaultPoints = "Points"
)

var medals = [...]string{"🥇", "🥈", "🥉"}

// Options controls the wording of rendered messages.
type Options struct {
	Title         string
	PointsLabel   string
	Timezone      string
	TimezoneLabel string
	CommandPrefix string
	Limit         int
}

// Renderer formats leaderboards and player lines.
type Renderer struct {
	opts  Options
	loc   *time.Location
	label string
}

// New creates a Renderer. When the configured time zone cannot be loaded the
// renderer falls back to UTC and says so in every timestamp.
func New(opts Options) *Renderer {
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.PointsLabel == "" {
		opts.PointsLabel = defaultPoints
	}
	if opts.CommandPrefix == "" {
		opts.CommandPrefix = defaultPrefix
	}
	if opts.Limit <= 0 {
		opts.Limit = leaderboard.DefaultLimit
	}

	r := &Renderer{opts: opts, loc: time.UTC, label: fallbackZone}
	if opts.Timezone == "" {
		return r
	}
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		log.Warn("Time zone unavailable, falling back to UTC", "timezone", opts.Timezone, "error", err)
		return r
	}
	r.loc = loc
	r.label = opts.TimezoneLabel
	if r.label == "" {
		r.label = opts.Timezone
	}
	return r
}

// Timestamp formats now in the renderer's zone, followed by the zone label.
func (r *Renderer) Timestamp(now time.Time) string {
	return now.In(r.loc).Format(timestampFmt) + " " + r.label
}

// Leaderboard renders the pinned leaderboard message for entries at now.
func (r *Renderer) Leaderboard(entries []leaderboard.Entry, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 **%s — Top %d**\n", r.opts.Title, r.opts.Limit)
	fmt.Fprintf(&b, "_Updated: %s_\n\n", r.Timestamp(now))

	if len(entries) == 0 {
		b.WriteString(emptyBody)
	} else {
		for i, e := range entries {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s **%s** — %d %s · %d/%d wins · %s WR",
				rankMarker(i+1), e.DisplayName, value(e.Points), r.opts.PointsLabel,
				value(e.Wins), value(e.Matches), WinRate(e.Wins, e.Matches))
		}
	}

	fmt.Fprintf(&b, "\n\n_Type `%sleaderboard` anytime, or `%smystats <username>` for your stats._",
		r.opts.CommandPrefix, r.opts.CommandPrefix)
	return b.String()
}

// PlayerLine renders a single player's stats for the mystats command.
func (r *Renderer) PlayerLine(e leaderboard.Entry) string {
	return fmt.Sprintf("📊 **%s** — %d %s | %d/%d wins | %s win rate",
		e.DisplayName, value(e.Points), r.opts.PointsLabel,
		value(e.Wins), value(e.Matches), WinRate(e.Wins, e.Matches))
}

// NotFound is the reply for a lookup that matched no player.
func (r *Renderer) NotFound(identifier string) string {
	return fmt.Sprintf("Couldn't find stats for `%s`.", identifier)
}

// WinRate returns wins/matches as a percentage rounded half to even, or the
// sentinel when matches is nil, zero or negative.
func WinRate(wins, matches *int64) string {
	if matches == nil || *matches <= 0 {
		return WinRateSentinel
	}
	pct := float64(value(wins)) / float64(*matches) * 100
	return fmt.Sprintf("%d%%", int64(math.RoundToEven(pct)))
}

func rankMarker(rank int) string {
	if rank >= 1 && rank <= len(medals) {
		return medals[rank-1]
	}
	return fmt.Sprintf("%d.", rank)
}

func value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
