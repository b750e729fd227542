package tinysql

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_PrintTree(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		IDs      []uint32
		Expected string
	}{
		{
			Name:     "empty table",
			Expected: "- leaf (size 0)\n",
		},
		{
			Name: "single leaf",
			IDs:  []uint32{3, 1, 2},
			Expected: `- leaf (size 3)
  - 1
  - 2
  - 3
`,
		},
		{
			Name: "root split",
			IDs:  sequence(1, 14),
			Expected: `- internal (size 1)
  - leaf (size 7)
    - 1
    - 2
    - 3
    - 4
    - 5
    - 6
    - 7
  - key 7
  - leaf (size 7)
    - 8
    - 9
    - 10
    - 11
    - 12
    - 13
    - 14
`,
		},
		{
			Name: "three leaves",
			IDs:  sequence(1, 21),
			Expected: `- internal (size 2)
  - leaf (size 7)
    - 1
    - 2
    - 3
    - 4
    - 5
    - 6
    - 7
  - key 7
  - leaf (size 7)
    - 8
    - 9
    - 10
    - 11
    - 12
    - 13
    - 14
  - key 14
  - leaf (size 7)
    - 15
    - 16
    - 17
    - 18
    - 19
    - 20
    - 21
`,
		},
	}

	for _, aTestCase := range testCases {
		t.Run(aTestCase.Name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			aTable, _ := newTestTable(t)
			defer aTable.Close(ctx)

			insertRows(t, aTable, gen.Rows(aTestCase.IDs...)...)

			var out bytes.Buffer
			require.NoError(t, aTable.PrintTree(ctx, &out))
			assert.Equal(t, aTestCase.Expected, out.String())
		})
	}
}
