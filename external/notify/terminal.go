package notify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hanspeak/hanspeak/internal/notify"
)

type TerminalNotifier struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalNotifier() notify.Notifier {
	return &TerminalNotifier{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

func (n *TerminalNotifier) Alert(message string) {
	fmt.Fprintf(n.out, "\n[알림] %s\n", message)
}

func (n *TerminalNotifier) Confirm(message string) bool {
	fmt.Fprintf(n.out, "\n%s (y/N): ", message)
	line, err := n.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
