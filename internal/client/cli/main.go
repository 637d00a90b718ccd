package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gestiongasto/internal/client/config"
	"github.com/dmitrijs2005/gestiongasto/internal/flagx"
)

// Main runs the command named in argv (os.Args[1:]) and returns the process
// exit code: 0 on success, 1 on failure and 2 on misuse.
func Main(ctx context.Context, cfg *config.Config, argv []string, in io.Reader, out, errOut io.Writer) int {
	pos := flagx.Positional(argv, config.ValueFlags)
	if len(pos) == 0 {
		fmt.Fprint(errOut, usage)
		return 2
	}

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	force := fs.Bool("y", false, "do not ask for confirmation")
	_ = fs.Parse(flagx.FilterArgs(argv, []string{"-y"}))

	app, err := NewApp(ctx, cfg, in, out)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}

	if err := app.Run(ctx, pos, *force); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(errOut, usage)
			return 2
		}
		return 1
	}
	return 0
}
