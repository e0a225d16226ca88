package workbench

import (
	"github.com/charmbracelet/glamour"

	"packdeck/internal/adapter/tui/theme"
)

const helpMarkdown = `# packdeck

Fill in the options, check the generated command, run it.

## Keys

| Key | Action |
|-----|--------|
| tab / shift+tab | next / previous tab |
| up / down | move between fields and rows |
| space / enter | check an option, add a row |
| ctrl+r | run the command shown on the Command tab |
| ctrl+x | stop the running packaging |
| ctrl+l | clear the log |
| ctrl+t | switch dark / light theme |
| ctrl+s | save the options as a profile |
| f1 | this help |
| ctrl+c | quit |

## Command tab

The command is rebuilt whenever an option changes. You can edit it
before running: the edited text is executed as is. Quote arguments
that contain spaces.

## Stopping

ctrl+x asks the packager to exit. If it has not exited after the
grace period it is killed. Output arriving after the stop request is
discarded.
`

// renderHelp renders the help text for the current theme. Rendering
// errors fall back to the raw markdown.
func renderHelp(s theme.Styles, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(s.Glamour),
		glamour.WithWordWrap(theme.Clamp(width, 40, 120)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
