package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spin animates message on w until stop is called or ctx is done.
// stop waits for the animation to clear its line; calling it again is a no-op.
func spin(ctx context.Context, w io.Writer, message string) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	finished := make(chan struct{})
	blank := "\r" + strings.Repeat(" ", len(message)+4) + "\r"

	go func() {
		defer close(finished)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				fmt.Fprint(w, blank)
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(message))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-finished
		})
	}
}
