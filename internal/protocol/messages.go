// Package protocol defines the bus message contracts shared by the
// runtime services and external clients.
package protocol

import "time"

const (
	SubjectEpisodeRequest  = "episode.request"
	SubjectEpisodeProgress = "episode.progress"
	SubjectEpisodeDone     = "episode.done"
	SubjectEpisodeFailed   = "episode.failed"
)

// EpisodeRequest asks the episode service to produce one episode from an
// article URL or from pre-supplied article text.
type EpisodeRequest struct {
	JobID      string    `json:"job_id,omitempty"`
	ArticleURL string    `json:"article_url,omitempty"`
	Title      string    `json:"title,omitempty"`
	Text       string    `json:"text,omitempty"`
	HostVoice  string    `json:"host_voice,omitempty"`
	GuestVoice string    `json:"guest_voice,omitempty"`
	PauseMS    int       `json:"pause_ms,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EpisodeProgress mirrors the assembler's progress signal onto the bus.
type EpisodeProgress struct {
	JobID     string    `json:"job_id"`
	Percent   int       `json:"percent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// EpisodeDone reports a finished episode and where it was written.
type EpisodeDone struct {
	JobID      string    `json:"job_id"`
	Path       string    `json:"path"`
	Filename   string    `json:"filename"`
	SizeBytes  int       `json:"size_bytes"`
	Downgraded bool      `json:"downgraded"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// EpisodeFailed reports a terminal job failure.
type EpisodeFailed struct {
	JobID        string    `json:"job_id"`
	Error        string    `json:"error"`
	LastProgress string    `json:"last_progress,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
