// Package output builds termenv outputs with a consistent color profile.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile returns the profile for terminal output.
// NO_COLOR forces plain text, otherwise the environment decides.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ProfileFor returns the profile for w. Files that are not terminals,
// such as redirected stderr, get plain text. Other writers follow ColorProfile.
func ProfileFor(w io.Writer) termenv.Profile {
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return ColorProfile()
}

// New creates a termenv.Output for w, falling back to stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ProfileFor(w)),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
