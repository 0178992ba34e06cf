// LUPER: Tumor Response Reconciliation Library
// Copyright (c) 2023 Medsir Scientific.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/MedsirScientific/LUPER/blob/master/LICENSE.txt>.

package timeline

// RecordFilter is a predicate over canonical timeline records, used to restrict the output table to a subpopulation,
// e.g. the patients of specific enrolling sites.
type RecordFilter func(r *VisitRecord) bool

// ApplyRecordFilters keeps the records that pass every filter in the list.
func ApplyRecordFilters(filters []RecordFilter, records []*VisitRecord) []*VisitRecord {
	result := []*VisitRecord{}
	for _, r := range records {
		keep := true
		for _, filter := range filters {
			if !filter(r) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, r)
		}
	}
	return result
}

// SiteFilter keeps only the records of patients enrolled at one of the given sites.
func SiteFilter(sites []string) RecordFilter {
	members := map[string]bool{}
	for _, site := range sites {
		members[site] = true
	}
	return func(r *VisitRecord) bool {
		return members[SiteCode(r.Patient)]
	}
}
