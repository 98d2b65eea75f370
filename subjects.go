// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

// SubjectDescriptor identifies one examined subject: the canonical code
// discovered in the header row, a short display alias and a full name.
type SubjectDescriptor struct {
	Code  string
	Alias string
	Name  string
}

// SubjectTable maps subject codes to aliases and full display names. It is
// configuration data consulted by the decoder, not decoding logic; supply a
// different table to retarget another institution's code scheme.
type SubjectTable struct {
	Aliases map[string]string
	Names   map[string]string
}

// Resolve returns the descriptor for a code. Codes missing from a table get
// deterministic fallbacks: alias = first four characters of the code,
// name = the code itself.
func (t SubjectTable) Resolve(code string) SubjectDescriptor {
	desc := SubjectDescriptor{Code: code, Alias: code, Name: code}
	if len(code) >= 4 {
		desc.Alias = code[:4]
	}
	if alias, ok := t.Aliases[code]; ok {
		desc.Alias = alias
	}
	if name, ok := t.Names[code]; ok {
		desc.Name = name
	}
	return desc
}

// DefaultSubjectTable returns the known 2022-scheme entries.
func DefaultSubjectTable() SubjectTable {
	return SubjectTable{
		Aliases: map[string]string{
			"22CS7PCCCT": "CC",
			"22CS7PENLP": "NLP",
			"22CS7PERPA": "RPA",
			"22CS7PENDL": "DL",
			"22CS7PEHCI": "HCI",
			"22CS7HSCFI": "CF",
			"22CS7NCMCI": "MOOC",
			"22ME2OESSE": "SE",
		},
		Names: map[string]string{
			"22CS7PCCCT": "Cloud Computing",
			"22CS7PENLP": "Natural Language Processing",
			"22CS7PERPA": "Robot Process Automation",
			"22CS7PENDL": "Neural Network & Deep Learning",
			"22CS7PEHCI": "Human Computer Interaction",
			"22CS7HSCFI": "Cyber Law, Forensics & IPR",
			"22CS7NCMCI": "MOOCs Course",
			"22ME2OESSE": "Sustainable Engineering",
		},
	}
}
