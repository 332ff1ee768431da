package main

import (
	"mercator-hq/huntquery/pkg/query/param"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// windowValue is a pflag.Value holding a query time window such as "2m".
type windowValue struct {
	window param.TimeWindow
	set    bool
}

var _ pflag.Value = (*windowValue)(nil)

func (v *windowValue) String() string {
	if !v.set {
		return ""
	}
	return v.window.String()
}

func (v *windowValue) Set(s string) error {
	w, err := param.ParseTimeWindow(s)
	if err != nil {
		return err
	}
	v.window = w
	v.set = true
	return nil
}

func (v *windowValue) Type() string {
	return "window"
}

func (v *windowValue) reset() {
	*v = windowValue{}
}

// resettable is implemented by custom flag values that cannot be restored
// through Set(DefValue).
type resettable interface {
	reset()
}

// resetFlags restores every flag of cmd and its subcommands to its default
// value, so the command tree can be executed more than once in a process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		switch v := f.Value.(type) {
		case resettable:
			v.reset()
		case pflag.SliceValue:
			_ = v.Replace(nil)
		default:
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}

	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
