package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/box/pkg/utils/timer"
	fcolor "github.com/fatih/color"
)

// MessageType selects the symbol and color of a message.
type MessageType int

const (
	// ErrorType is a failed operation (red ✗).
	ErrorType MessageType = iota
	// WarningType is a problem that did not stop the operation (yellow ⚠).
	WarningType
	// ActivityType is a step being started (►).
	ActivityType
	// SuccessType is a finished operation (green ✔).
	SuccessType
	// InfoType is neutral information (blue ℹ).
	InfoType
	// TitleType heads a command's output (bold, emoji).
	TitleType
)

// DefaultTitleEmoji is used for titles without an emoji.
const DefaultTitleEmoji = "📦"

// Message is one status line.
type Message struct {
	Type    MessageType
	Content string
	Args    []any
	// Timer adds a timing block after success messages.
	Timer timer.Timer
	// Emoji replaces the symbol of title messages.
	Emoji string
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

type style struct {
	symbol string
	color  *fcolor.Color
}

var styles = map[MessageType]style{
	ErrorType:    {"✗ ", fcolor.New(fcolor.FgRed)},
	WarningType:  {"⚠ ", fcolor.New(fcolor.FgYellow)},
	ActivityType: {"► ", fcolor.New(fcolor.Reset)},
	SuccessType:  {"✔ ", fcolor.New(fcolor.FgGreen)},
	InfoType:     {"ℹ ", fcolor.New(fcolor.FgBlue)},
	TitleType:    {"", fcolor.New(fcolor.Reset, fcolor.Bold)},
}

// Errorf prints an error line.
func Errorf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: w})
}

// Warningf prints a warning line.
func Warningf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: w})
}

// Activityf prints the step that is starting. Activity text is lowercase.
func Activityf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: w})
}

// Successf prints a success line.
func Successf(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: w})
}

// SuccessWithTimerf prints a success line followed by the stage and total durations of tmr.
func SuccessWithTimerf(w io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: w})
}

// Infof prints an informational line.
func Infof(w io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: w})
}

// Titlef prints a bold title line starting with emoji.
func Titlef(w io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{Type: TitleType, Content: format, Args: args, Emoji: emoji, Writer: w})
}

// WriteMessage prints msg. Write failures are reported on stderr and otherwise ignored.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(content, msg.Args...)
	}

	st, ok := styles[msg.Type]
	if !ok {
		st = style{color: fcolor.New(fcolor.Reset)}
	}

	prefix := st.symbol

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = DefaultTitleEmoji
		}

		prefix = emoji + " "
	}

	_, err := st.color.Fprintf(writer, "%s%s\n", prefix, indent(content, st.symbol))
	reportError(err)

	if msg.Type != SuccessType || msg.Timer == nil {
		return
	}

	total, stage := msg.Timer.GetTiming()

	_, err = st.color.Fprintf(writer, "⏲ current: %s\n  total:  %s\n", stage, total)
	reportError(err)
}

func reportError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indent aligns continuation lines of content under the first line's text.
func indent(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	pad := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
