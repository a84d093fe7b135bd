package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// projectProgress summarizes released episodes of a project.
func projectProgress(p naotimes.ProjectSummary) string {
	if p.TotalEpisodes <= 0 {
		return "no episodes"
	}
	out := fmt.Sprintf("%d/%d released", p.Released, p.TotalEpisodes)
	if p.NextEpisode > 0 {
		out += fmt.Sprintf(", next #%d", p.NextEpisode)
	}
	return out
}

// airLabel describes when an episode airs relative to now.
func airLabel(ep naotimes.EpisodeStatus, now time.Time) string {
	aired := ep.AiredAt()
	if aired.IsZero() {
		return "air date unknown"
	}
	rel := humanize.RelTime(aired, now, "ago", "from now")
	if aired.After(now) {
		return "airs " + rel
	}
	return "aired " + rel
}

// statusLabel names the stage an episode is in.
func statusLabel(ep naotimes.EpisodeStatus) string {
	switch {
	case ep.Released:
		return "Released"
	case ep.Progress.AllDone():
		return "Complete"
	default:
		pending := ep.Progress.Pending()
		names := make([]string, len(pending))
		for i, r := range pending {
			names[i] = string(r)
		}
		return "Waiting on " + strings.Join(names, ", ")
	}
}
