package recruitment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err      error
		kind     string
		business bool
	}{
		{nil, "", false},
		{ErrSelfApplication, KindSelfApplication, true},
		{fmt.Errorf("%w: posting is expired", ErrPostingClosed), KindPostingClosed, true},
		{ErrDuplicateApplication, KindDuplicateApplication, true},
		{ErrAlreadyMember, KindAlreadyMember, true},
		{ErrNotAuthorized, KindNotAuthorized, true},
		{fmt.Errorf("%w: status is accepted", ErrAlreadyProcessed), KindAlreadyProcessed, true},
		{ErrCapacityExceeded, KindCapacityExceeded, true},
		{fmt.Errorf("accept: %w", ErrDoubleBooking), KindDoubleBooking, true},
		{ErrPostingNotFound, KindNotFound, true},
		{ErrApplicationNotFound, KindNotFound, true},
		{ErrPodNotFound, KindNotFound, true},
		{ErrLinkConflict, KindConflict, true},
		{context.DeadlineExceeded, KindTimeout, false},
		{errors.New("connection refused"), KindInternal, false},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
			assert.Equal(t, tt.business, IsBusinessError(tt.err))
		})
	}
}
