// Package interactive asks the user which slides to process.
package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/office-extract/internal/common"
)

// ErrNoInput is returned when the reader ends before a valid answer.
var ErrNoInput = errors.New("interactive: no selection made")

// ParseSelection parses "1,3,5" and ranges like "2-4" into 1-based slide
// numbers, keeping input order. Every number must be within 1..total.
func ParseSelection(s string, total int) ([]int, error) {
	out, err := common.ParseSlideList([]string{s})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no slides given")
	}
	for _, n := range out {
		if n > total {
			return nil, fmt.Errorf("slide %d is outside 1-%d", n, total)
		}
	}
	return out, nil
}

// Prompt shows the selection menu on w and reads answers from r until one is
// valid. A nil slice means all slides.
func Prompt(r io.Reader, w io.Writer, total int) ([]int, error) {
	sc := bufio.NewScanner(r)
	ask := func(q string) (string, bool) {
		fmt.Fprint(w, q)
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}

	fmt.Fprintf(w, "The presentation has %d slides.\n", total)
	fmt.Fprintln(w, "  1) Process all slides")
	fmt.Fprintln(w, "  2) Process specific slides")
	for {
		choice, ok := ask("Choice [1-2]: ")
		if !ok {
			return nil, ErrNoInput
		}
		switch choice {
		case "1", "":
			return nil, nil
		case "2":
			for {
				ans, ok := ask(fmt.Sprintf("Slides (e.g. 1,3,5 or 2-4, 1-%d): ", total))
				if !ok {
					return nil, ErrNoInput
				}
				sel, err := ParseSelection(ans, total)
				if err == nil {
					return sel, nil
				}
				fmt.Fprintf(w, "Invalid selection: %v\n", err)
			}
		default:
			fmt.Fprintln(w, "Please enter 1 or 2.")
		}
	}
}
