package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users activity record.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink stores activity records, matching the go-users sink contract.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}
