package catlog

import (
	"bytes"
	"io"
	"log"
)

/*
io.Writer bridge

Writer(level) returns an io.Writer logging every Write as one message of the
client category at a fixed level, so the client can be used with fmt.Fprintf
or as the output of a standard library *log.Logger:

	fmt.Fprintf(client.Writer(catlog.LVL_WARNING), "disk low: %d%%", percent)
	srv.ErrorLog = client.StdLogger(catlog.LVL_ERROR)

Each writer owns one explicit Site, so the gate decision is taken once per
writer. Writes carry no source location.
*/

type levelWriter struct {
	client *Client
	site   *Site
}

// Writer returns an io.Writer logging at level in the client category.
func (c *Client) Writer(level LogLevel) io.Writer {
	return &levelWriter{client: c, site: NewSite(c.category, level)}
}

// StdLogger returns a standard library logger writing through Writer(level).
func (c *Client) StdLogger(level LogLevel) *log.Logger {
	return log.New(c.Writer(level), "", 0)
}

// Write implements io.Writer. A trailing newline is dropped since sinks end
// every record with their own. On success it returns n=len(p); format or
// sink failures return 0 and the error. A nil payload is a no-op.
func (w *levelWriter) Write(p []byte) (n int, err error) {
	if p == nil {
		return 0, nil
	}
	l := w.client.Logger()
	d := l.gate.Decide(w.site)
	if !d.Any() {
		return len(p), nil
	}
	msg := string(bytes.TrimSuffix(p, []byte{'\n'}))
	if err = l.emit(d, w.site.level, w.site.category, "%s", []any{msg}, 0); err != nil {
		return 0, err
	}
	return len(p), nil
}
