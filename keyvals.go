package logbuilder

// Keyvals flattens args into the alternating key/value slice accepted by
// variadic loggers (pslog, slog, go-kit, logr and friends). It returns nil
// for no arguments.
func Keyvals(args []Arg) []any {
	if len(args) == 0 {
		return nil
	}
	return AppendKeyvals(make([]any, 0, len(args)*2), args)
}

// AppendKeyvals appends the flattened form of args to dst.
func AppendKeyvals(dst []any, args []Arg) []any {
	for _, arg := range args {
		dst = append(dst, arg.Name, arg.Value)
	}
	return dst
}
