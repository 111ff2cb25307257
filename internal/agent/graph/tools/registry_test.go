package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQueryTools(t *testing.T) {
	ctx := context.Background()
	ts := GetQueryTools()
	require.Len(t, ts, 5)

	infos, err := GetToolInfos(ctx, ts)
	require.NoError(t, err)
	require.Len(t, infos, 5)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		assert.NotEmpty(t, info.Desc)
		names = append(names, info.Name)
	}
	assert.ElementsMatch(t, names, []string{
		ToolSearchProducts,
		ToolEstimateShipping,
		ToolCheckDiscounts,
		ToolCheckReturnPolicy,
		ToolComparePrices,
	})
}
