package episode

import (
	"errors"
	"fmt"

	"github.com/podwavelabs/podwave-core/internal/audio"
)

// ErrEmptyScript is returned when no turn has speakable text. Checked
// before the first provider call so an empty job costs nothing.
var ErrEmptyScript = errors.New("script has no speakable turns")

// FormatMismatchError reports a turn whose audio format disagrees with
// the format established by the job's first turn. This is always fatal:
// downgrading here would splice incompatible sample data together.
type FormatMismatchError struct {
	Expected audio.Format
	Got      audio.Format
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("inconsistent audio format across turns: expected %s, got %s", e.Expected, e.Got)
}

// StreamFallbackError reports an mp3 response that does not carry an mp3
// signature, either on the downgrade re-request or on a later stream turn.
type StreamFallbackError struct {
	Turn   int
	Detail string
}

func (e *StreamFallbackError) Error() string {
	return fmt.Sprintf("mp3 fallback failed on turn %d: %s", e.Turn, e.Detail)
}
