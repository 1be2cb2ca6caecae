package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Name() string
}

type impl struct{}

func (*impl) Name() string { return "impl" }

func TestCheck(t *testing.T) {
	var (
		missing *impl
		typed   provider = missing
	)
	require.NoError(t, Check("db", &impl{}, "name", "value"))
	require.EqualError(t, Check("db", nil), "db dependency not initialized")
	require.EqualError(t, Check("storage", typed), "storage dependency not initialized")
	require.EqualError(t, Check("db"), "odd number of arguments")
	require.Error(t, Check(1, &impl{}))
}
