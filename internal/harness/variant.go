package harness

import "pkt.systems/logbuilder"

// Variant is one builder shape applied to a Scenario.
type Variant struct {
	Name  string
	Apply func(logger logbuilder.EventLogger, sc *Scenario) logbuilder.Result
}

// Variants returns the three builder shapes in a fixed order.
func Variants() []Variant {
	return []Variant{
		{Name: "object", Apply: ApplyObject},
		{Name: "copied", Apply: ApplyCopied},
		{Name: "referenced", Apply: ApplyReferenced},
	}
}

// ApplyObject runs sc through an ObjectBuilder.
func ApplyObject(logger logbuilder.EventLogger, sc *Scenario) logbuilder.Result {
	b := logbuilder.LogObject(logger, sc.EventName)
	if sc.HasTimestamp {
		b = b.WithTimestamp(sc.Timestamp)
	}
	for _, arg := range sc.Args {
		b = b.With(arg.Name, arg.Value)
	}
	if sc.Controls {
		b = b.WithControls(sc.Ctx, sc.Timeout)
	}
	return b.Log()
}

// ApplyCopied runs sc through a CopiedBuilder.
func ApplyCopied(logger logbuilder.EventLogger, sc *Scenario) logbuilder.Result {
	b := logbuilder.LogCopied(logger, sc.EventName)
	if sc.HasTimestamp {
		b = b.WithTimestamp(sc.Timestamp)
	}
	for _, arg := range sc.Args {
		b = b.With(arg.Name, arg.Value)
	}
	if sc.Controls {
		b = b.WithControls(sc.Ctx, sc.Timeout)
	}
	return b.Log()
}

// ApplyReferenced runs sc through a ReferencedBuilder.
func ApplyReferenced(logger logbuilder.EventLogger, sc *Scenario) logbuilder.Result {
	b := logbuilder.LogReferenced(logger, sc.EventName)
	if sc.HasTimestamp {
		b.WithTimestamp(sc.Timestamp)
	}
	for _, arg := range sc.Args {
		b.With(arg.Name, arg.Value)
	}
	if sc.Controls {
		b.WithControls(sc.Ctx, sc.Timeout)
	}
	return b.Log()
}
