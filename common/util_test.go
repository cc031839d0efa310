package common_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/fundctl/common"
)

func TestRunParallel(t *testing.T) {
	rejected := errors.New("rejected")
	var calls atomic.Int32
	failed := common.RunParallel([]string{"a", "b", "c"}, func(name string) error {
		calls.Add(1)
		if name == "a" {
			return nil
		}
		return rejected
	})
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, failed, 2)
	assert.NotContains(t, failed, "a")

	err := common.JoinErrors(failed)
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, "b: rejected\nc: rejected", err.Error())

	assert.Empty(t, common.RunParallel(nil, func(string) error { return rejected }))
	assert.NoError(t, common.JoinErrors(map[string]error{}))
}
