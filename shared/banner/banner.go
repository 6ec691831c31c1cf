// Package banner draws the startup banner for the relkit CLI.
package banner

import (
	"fmt"
	"os"

	"github.com/personax/relkit/shared/console"
	"golang.org/x/term"
)

var bannerLines = []string{
	`             _  _    _  _   `,
	` _ __  ___ | || | _(_)| |_ `,
	`| '__|/ _ \| || |/ /| || __|`,
	`| |  |  __/| ||   < | || |_ `,
	`|_|   \___||_||_|\_\|_| \__|`,
}

var accentColors = []string{
	"\x1b[38;2;30;215;96m",  // green
	"\x1b[38;2;255;153;0m",  // orange
	"\x1b[38;2;145;70;255m", // purple
	"\x1b[38;2;24;119;242m", // blue
}

const ansiReset = "\x1b[0m"

// DrawBannerTitle prints the banner with a color suited to the terminal.
// On non-terminal output the banner is skipped entirely.
func DrawBannerTitle(tagline string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
		return
	}

	colors := accentColors
	if console.IsBlueBackground() {
		// Blue-on-blue is unreadable; keep the warm colors only.
		colors = accentColors[:2]
	}
	color := colors[os.Getpid()%len(colors)]

	fmt.Println()
	for _, line := range bannerLines {
		fmt.Println(color + line + ansiReset)
	}
	if tagline != "" {
		fmt.Printf("\x1b[2m%s%s\n\n", tagline, ansiReset)
	}
}
