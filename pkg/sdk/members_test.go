package sdk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraconstructs/cohort/pkg/sdk"
)

func TestFilterMembers(t *testing.T) {
	phone := "+966500000000"
	members := []sdk.Member{
		{ID: 1, Username: "teacher_ali", FirstName: "Ali", Role: "teacher", Phone: &phone},
		{ID: 2, Username: "teacher_nora", FirstName: "Nora", Role: "teacher"},
		{ID: 3, Username: "student_sara", FirstName: "Sara", Role: "student", Phone: &phone},
	}

	tests := []struct {
		name string
		expr string
		want []int64
	}{
		{name: "empty keeps all", expr: "  ", want: []int64{1, 2, 3}},
		{name: "by role", expr: `role == "teacher"`, want: []int64{1, 2}},
		{name: "regex", expr: `username matches "^teacher_a"`, want: []int64{1}},
		{name: "phone", expr: `has_phone == true`, want: []int64{1, 3}},
		{name: "compound", expr: `role != "student" and first_name == "Nora"`, want: []int64{2}},
		{name: "no match", expr: `role == "head"`, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sdk.FilterMembers(members, tt.expr)
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterMembers_InvalidExpression(t *testing.T) {
	_, err := sdk.FilterMembers(nil, `role ==`)
	assert.ErrorContains(t, err, "invalid member filter")
}
