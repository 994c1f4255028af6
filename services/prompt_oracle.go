package services

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
)

// PromptOracle resolves form questions by asking a human at the terminal.
// It sits behind the same interface as the model-backed oracle, so the
// engine never knows which one is answering.
type PromptOracle struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptOracle() *PromptOracle {
	return &PromptOracle{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (o *PromptOracle) Resolve(question, fieldKind string, options []string, job *models.JobContext) (string, error) {
	fmt.Fprintf(o.out, "\n[APPLICATION FORM] Need input for: %s (Type: %s)\n", question, fieldKind)

	if len(options) == 0 {
		fmt.Fprint(o.out, "Please provide an answer: ")
		line, err := o.in.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("prompt oracle: %w", ErrUnresolved)
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			return "", fmt.Errorf("prompt oracle: empty input: %w", ErrUnresolved)
		}
		return answer, nil
	}

	for i, opt := range options {
		fmt.Fprintf(o.out, "%d. %s\n", i+1, opt)
	}

	// Three chances to type a valid option number, then give up so the
	// caller can apply its local default.
	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprintf(o.out, "Enter option number (1-%d): ", len(options))
		line, err := o.in.ReadString('\n')
		if err != nil {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		fmt.Fprintf(o.out, "Invalid selection. Please enter a number between 1 and %d.\n", len(options))
	}

	return "", fmt.Errorf("prompt oracle: no valid selection: %w", ErrUnresolved)
}
