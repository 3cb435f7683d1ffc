package catlog

/*
A Client is the call-site surface of a category. Each method identifies its
call site by the caller's program counter, so every source line owns its own
cached gate decision and once-guard.

Methods come in two flavours, as in most of this package:
  - error-returning ones (LogE, LogOnceE) hand format and sink errors to the
    caller;
  - fire-and-forget ones (Log, Debugf, ..., InfofOnce, ...) report the same
    errors to the logger's fallback diagnostics instead.
*/

// Category returns a client of this logger for the category.
func (l *Logger) Category(name string) *Client {
	return &Client{logger: l, category: name}
}

// Name returns the client category.
func (c *Client) Name() string {
	return c.category
}

// Logger returns the logger the client writes to.
func (c *Client) Logger() *Logger {
	if c.logger == nil {
		return Default()
	}
	return c.logger
}

// log must be called directly by the exported method the user called:
// the call site is the frame two levels above it.
func (c *Client) log(level LogLevel, once bool, template string, args []any) (err error) {
	l := c.Logger()
	pc := callerPC(2)
	site := l.gate.siteAt(pc, normLevel(level), c.category)
	if once {
		site.once.Do(func() {
			err = l.emit(l.gate.Decide(site), site.level, c.category, template, args, pc)
		})
		return err
	}
	d := l.gate.Decide(site)
	if !d.Any() {
		return nil
	}
	return l.emit(d, site.level, c.category, template, args, pc)
}

func (c *Client) report(err error) {
	if err != nil {
		c.Logger().handleLogWriteError(c.category, err)
	}
}

// LogE logs at level and returns format and sink errors.
func (c *Client) LogE(level LogLevel, template string, args ...any) error {
	return c.log(level, false, template, args)
}

// Log logs at level; errors go to the fallback diagnostics.
func (c *Client) Log(level LogLevel, template string, args ...any) {
	c.report(c.log(level, false, template, args))
}

// LogOnceE logs at level the first time the calling line is reached and
// returns the error of that first call; later calls do nothing.
func (c *Client) LogOnceE(level LogLevel, template string, args ...any) error {
	return c.log(level, true, template, args)
}

// LogOnce logs at level the first time the calling line is reached.
func (c *Client) LogOnce(level LogLevel, template string, args ...any) {
	c.report(c.log(level, true, template, args))
}

// Debugf logs at debug level.
func (c *Client) Debugf(template string, args ...any) {
	c.report(c.log(LVL_DEBUG, false, template, args))
}

// Infof logs at info level.
func (c *Client) Infof(template string, args ...any) {
	c.report(c.log(LVL_INFO, false, template, args))
}

// Warnf logs at warning level.
func (c *Client) Warnf(template string, args ...any) {
	c.report(c.log(LVL_WARNING, false, template, args))
}

// Errorf logs at error level.
func (c *Client) Errorf(template string, args ...any) {
	c.report(c.log(LVL_ERROR, false, template, args))
}

// DebugfOnce logs at debug level the first time the calling line is reached.
func (c *Client) DebugfOnce(template string, args ...any) {
	c.report(c.log(LVL_DEBUG, true, template, args))
}

// InfofOnce logs at info level the first time the calling line is reached.
func (c *Client) InfofOnce(template string, args ...any) {
	c.report(c.log(LVL_INFO, true, template, args))
}

// WarnfOnce logs at warning level the first time the calling line is reached.
func (c *Client) WarnfOnce(template string, args ...any) {
	c.report(c.log(LVL_WARNING, true, template, args))
}

// ErrorfOnce logs at error level the first time the calling line is reached.
func (c *Client) ErrorfOnce(template string, args ...any) {
	c.report(c.log(LVL_ERROR, true, template, args))
}

// Enabled reports whether the category is enabled at level on any sink.
// The answer is cached for the calling line like any other call site, which
// makes it a cheap guard around expensive argument preparation.
func (c *Client) Enabled(level LogLevel) bool {
	l := c.Logger()
	return l.gate.DecideAt(callerPC(1), normLevel(level), c.category).Any()
}
