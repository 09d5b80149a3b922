package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WithSpinner runs fn behind a spinner on p.Err. The spinner is skipped in
// quiet mode and whenever p.Err is not a terminal file.
func (p *Printer) WithSpinner(message string, fn func() error) error {
	if p.Quiet || p.Err == nil {
		return fn()
	}
	return runWithSpinner(p.Err, message, fn)
}

func runWithSpinner(w io.Writer, message string, fn func() error) error {
	f, ok := w.(*os.File)
	if !ok {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " " + message
	s.Start()

	err := fn()
	if err != nil {
		s.Lock()
		s.FinalMSG = text.FgRed.Sprint("✗ "+message) + "\n"
		s.Unlock()
	}
	s.Stop()
	return err
}
