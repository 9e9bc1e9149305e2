// Package cli runs the interactive prompt: the previous word typed is the
// context, the word being typed is the prefix.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// ShutdownNotice is printed when the prompt is left with exit or an interrupt.
const ShutdownNotice = "Shutting down engine... Goodbye!"

const exitCommand = "exit"

// InputHandler reads one line per turn and prints ranked suggestions for it.
type InputHandler struct {
	engine     suggest.ISuggester
	maxResults int
	in         io.Reader
	out        io.Writer
	styles     styles
}

type styles struct {
	header lipgloss.Style
	word   lipgloss.Style
	muted  lipgloss.Style
	warn   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4e8dd6")),
		word:   r.NewStyle().Foreground(lipgloss.Color("75")),
		muted:  r.NewStyle().Faint(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// NewInputHandler creates a handler printing at most maxResults suggestions
// per line. A non-positive maxResults falls back to 3.
func NewInputHandler(engine suggest.ISuggester, maxResults int, in io.Reader, out io.Writer) *InputHandler {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &InputHandler{
		engine:     engine,
		maxResults: maxResults,
		in:         in,
		out:        out,
		styles:     newStyles(out),
	}
}

// Start runs the prompt until exit is typed or input ends. Both end the
// loop with a nil error; only read failures are returned.
func (h *InputHandler) Start() error {
	h.printBanner()

	sc := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, ">> ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(h.out)
			fmt.Fprintln(h.out, ShutdownNotice)
			return nil
		}

		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		if line == exitCommand {
			fmt.Fprintln(h.out, ShutdownNotice)
			return nil
		}
		if line == "" {
			continue
		}
		h.handleLine(line)
	}
}

func (h *InputHandler) printBanner() {
	rule := strings.Repeat("=", 49)
	fmt.Fprintln(h.out, h.styles.muted.Render(rule))
	fmt.Fprintln(h.out, h.styles.header.Render("wordchain: next-word suggestions"))
	fmt.Fprintln(h.out, "Type a sentence. The previous word is the context,")
	fmt.Fprintln(h.out, "the word being typed is the prefix.")
	fmt.Fprintln(h.out, "Commands: :stats, :next <word>. Type 'exit' to quit.")
	fmt.Fprintln(h.out, h.styles.muted.Render(rule))
}

// handleLine dispatches commands and plain input.
func (h *InputHandler) handleLine(line string) {
	switch {
	case line == ":stats":
		h.printStats()
		return
	case line == ":next" || strings.HasPrefix(line, ":next "):
		h.printSuccessors(strings.TrimSpace(strings.TrimPrefix(line, ":next")))
		return
	}

	context, prefix := SplitInput(line)
	h.printSuggestions(context, prefix)
}

// SplitInput returns the context and prefix of a typed line: the last two
// whitespace separated tokens. A single token has an empty context.
func SplitInput(line string) (context, prefix string) {
	words := strings.Fields(line)
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return "", words[0]
	}
	return words[len(words)-2], words[len(words)-1]
}

func (h *InputHandler) printSuggestions(context, prefix string) {
	start := time.Now()
	suggestions := h.engine.SuggestN(context, prefix, h.maxResults)
	log.Debugf("Took [ %v ] for context '%s' prefix '%s'", time.Since(start), context, prefix)

	if len(suggestions) == 0 {
		fmt.Fprintln(h.out, h.styles.warn.Render(
			fmt.Sprintf("   [No suggestions found in vocabulary for '%s']", prefix)))
		if word, ok := h.engine.Correct(prefix); ok {
			fmt.Fprintf(h.out, "   did you mean '%s'?\n", word)
		}
		return
	}

	if context == "" {
		fmt.Fprintf(h.out, "   [Predictions for '%s']:\n", prefix)
	} else {
		fmt.Fprintf(h.out, "   [Predictions for '%s' following '%s']:\n", prefix, context)
	}
	h.printRanked(suggestions)
}

func (h *InputHandler) printRanked(suggestions []suggest.Suggestion) {
	for _, s := range suggestions {
		fmt.Fprintf(h.out, "   -> %s (Confidence: %s)\n",
			h.styles.word.Render(fmt.Sprintf("%-15s", s.Word)),
			utils.FormatPercent(s.Probability))
	}
}

func (h *InputHandler) printSuccessors(word string) {
	if word == "" {
		fmt.Fprintln(h.out, h.styles.warn.Render("   usage: :next <word>"))
		return
	}
	next := h.engine.Successors(word)
	if len(next) == 0 {
		fmt.Fprintln(h.out, h.styles.warn.Render(
			fmt.Sprintf("   [No words observed after '%s']", word)))
		return
	}
	if len(next) > h.maxResults {
		next = next[:h.maxResults]
	}
	fmt.Fprintf(h.out, "   [Most likely after '%s']:\n", word)
	h.printRanked(next)
}

func (h *InputHandler) printStats() {
	stats := h.engine.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fmt.Fprintln(h.out, h.styles.header.Render("   engine stats"))
	for _, k := range keys {
		fmt.Fprintf(h.out, "   %-14s %s\n", k, utils.FormatWithCommas(stats[k]))
	}
}
