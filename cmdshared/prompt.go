package cmdshared

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// PromptYesNo asks a question on the terminal, defaulting to yes. The non-interactive
// setting answers yes without reading.
func PromptYesNo(prompt string) bool {
	ok, err := AskYesNo(os.Stdin, os.Stdout, prompt, viper.GetBool("non-interactive"))
	if err != nil {
		fmt.Printf("Failed to prompt user: %v\n", err)
		os.Exit(1)
	}
	return ok
}

// AskYesNo writes prompt to out and reads a single line answer from in. Anything starting
// with n or N is a no; an empty answer is a yes.
func AskYesNo(in io.Reader, out io.Writer, prompt string, nonInteractive bool) (bool, error) {
	_, _ = fmt.Fprint(out, prompt)
	if nonInteractive {
		_, _ = fmt.Fprintln(out, "Y (non-interactive mode)")
		return true, nil
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || answer == "") {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return !strings.HasPrefix(answer, "n"), nil
}
