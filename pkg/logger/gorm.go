package logger

// GormWriter lets gorm's sql logger write through a Logger, so slow queries and
// sql errors share the service log format. gorm only prints what passes its own
// level, everything printed here is logged as a warning.
type GormWriter struct {
	Logger Logger
}

func (w GormWriter) Printf(format string, a ...any) {
	w.Logger.Warnf(format, a...)
}
