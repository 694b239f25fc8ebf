package notify

import (
	"context"
	"fmt"
)

// Permission is the resolved answer to "may notifications be enabled here".
type Permission struct {
	Granted bool
	Reason  string
}

func Granted() Permission { return Permission{Granted: true} }

func Denied(reason string) Permission { return Permission{Reason: reason} }

// Probe checks that desktop delivery is switched on and that the platform
// helper binary exists. It never sends anything.
func Probe(ctx context.Context, enabled bool, e Exec) Permission {
	if err := ctx.Err(); err != nil {
		return Denied(err.Error())
	}
	if !enabled {
		return Denied("desktop notifications are disabled in the configuration")
	}
	bin := e.Binary()
	if bin == "" {
		return Denied(fmt.Sprintf("notifications are not supported on %s", e.goos()))
	}
	lookPath := e.LookPath
	if lookPath == nil {
		return Denied(fmt.Sprintf("cannot locate %s", bin))
	}
	if _, err := lookPath(bin); err != nil {
		return Denied(fmt.Sprintf("%s not found: %v", bin, err))
	}
	return Granted()
}
