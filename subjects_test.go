// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectTable_Resolve(t *testing.T) {
	table := DefaultSubjectTable()

	tests := []struct {
		name string
		code string
		want SubjectDescriptor
	}{
		{
			name: "known code",
			code: "22CS7PCCCT",
			want: SubjectDescriptor{Code: "22CS7PCCCT", Alias: "CC", Name: "Cloud Computing"},
		},
		{
			name: "known elective",
			code: "22ME2OESSE",
			want: SubjectDescriptor{Code: "22ME2OESSE", Alias: "SE", Name: "Sustainable Engineering"},
		},
		{
			name: "unknown code gets truncation alias and identity name",
			code: "22EC7PEVLS",
			want: SubjectDescriptor{Code: "22EC7PEVLS", Alias: "22EC", Name: "22EC7PEVLS"},
		},
		{
			name: "short code keeps itself as alias",
			code: "22A",
			want: SubjectDescriptor{Code: "22A", Alias: "22A", Name: "22A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Resolve(tt.code))
		})
	}
}

func TestSubjectTable_ResolveEmptyTable(t *testing.T) {
	var table SubjectTable
	got := table.Resolve("22CS7PENLP")
	assert.Equal(t, SubjectDescriptor{Code: "22CS7PENLP", Alias: "22CS", Name: "22CS7PENLP"}, got)
}
