package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// DisplayError writes an error to stderr with formatting suited to a
// terminal. DriftErrors get the full guidance layout; anything else prints
// as a single red line.
func DisplayError(err error) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CJADRIFT_NO_COLOR") != "" {
		color.NoColor = true
	}

	var de *DriftError
	if !stderrors.As(err, &de) {
		color.Red("Error: %v", err)
		return
	}

	headline := errorStyle(de.Kind)
	fmt.Fprintf(os.Stderr, "\n%s\n", headline(de.Message))

	if de.Cause != "" {
		fmt.Fprintf(os.Stderr, "   %s %s\n", color.YellowString("Cause:"), color.HiBlackString(de.Cause))
	}

	if len(de.Solutions) > 0 {
		fmt.Fprintf(os.Stderr, "\n   %s\n", color.GreenString("Solutions:"))
		for i, solution := range de.Solutions {
			fmt.Fprintf(os.Stderr, "   %s %s\n", color.HiBlackString(fmt.Sprintf("%d.", i+1)), solution)
		}
	}

	if de.Verify != "" {
		fmt.Fprintf(os.Stderr, "\n   %s %s\n", color.BlueString("Verify:"), color.HiWhiteString(de.Verify))
	}

	if de.Help != "" {
		fmt.Fprintf(os.Stderr, "   %s %s\n", color.MagentaString("Help:"), color.HiWhiteString(de.Help))
	}

	fmt.Fprintln(os.Stderr)
}

func errorStyle(kind Kind) func(format string, a ...interface{}) string {
	switch kind {
	case KindAuth, KindNetwork:
		return color.RedString
	case KindNotFound:
		return color.YellowString
	case KindFormat, KindValidation:
		return color.CyanString
	case KindIO:
		return color.MagentaString
	default:
		return color.RedString
	}
}
