package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"vaultry/internal/apperr"
)

// parseID parses a positional id argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Malformed("invalid %s id '%s'", what, arg)
	}
	return id, nil
}

// confirm prompts for a y/N answer on stdin. JSON mode never prompts; the
// caller gates on --force there.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// changedString returns a pointer to the flag value if it was set on the
// command line, nil otherwise. Partial updates only touch set flags.
func changedString(fs *pflag.FlagSet, name, value string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}
