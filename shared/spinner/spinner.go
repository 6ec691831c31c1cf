package spinner

import (
	"time"

	"github.com/briandowns/spinner"
)

var loader *spinner.Spinner

// Start starts the CLI loading spinner with the given suffix message.
func Start(message string) {
	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " " + message
	loader.Start()
}

// Stop stops the CLI loading spinner.
func Stop() {
	if loader != nil {
		loader.Stop()
	}
}
