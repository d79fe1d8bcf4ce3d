package config

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

// WrapFlags wraps flags so every one of them can also be populated from
// the YAML file named by ConfigFileFlag, matching
// shared/cmd/wrap_flags.go's per-concrete-type switch.
func WrapFlags(flags []cli.Flag) []cli.Flag {
	wrapped := make([]cli.Flag, 0, len(flags))
	for _, f := range flags {
		switch v := f.(type) {
		case *cli.BoolFlag:
			f = altsrc.NewBoolFlag(v)
		case *cli.DurationFlag:
			f = altsrc.NewDurationFlag(v)
		case *cli.StringFlag:
			f = altsrc.NewStringFlag(v)
		case *cli.StringSliceFlag:
			f = altsrc.NewStringSliceFlag(v)
		case *cli.UintFlag:
			f = altsrc.NewUintFlag(v)
		case *cli.Uint64Flag:
			f = altsrc.NewUint64Flag(v)
		case *cli.IntFlag:
			f = altsrc.NewIntFlag(v)
		default:
			panic(fmt.Sprintf("config: cannot wrap flag of type %T", f))
		}
		wrapped = append(wrapped, f)
	}
	return wrapped
}
