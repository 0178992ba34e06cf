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

// Canonical overall response codes.
const (
	CompleteResponse   = "CR"
	PartialResponse    = "PR"
	StableDisease      = "SD"
	NonCRNonPD         = "Non-CR/Non-PD"
	ProgressiveDisease = "PD"
)

// responseCodeMap maps the long-form response labels used in the source eCRF export onto the canonical short codes.
var responseCodeMap = map[string]string{
	"Complete Response (CR)":   CompleteResponse,
	"Partial Response (PR)":    PartialResponse,
	"Stable Disease (SD)":      StableDisease,
	"Non-CR/Non-PD":            NonCRNonPD,
	"Non-Complete Response/Non-Progressive Disease (Non-CR/Non-PD)": NonCRNonPD,
	"Progressive Disease (PD)": ProgressiveDisease,
}

// NormalizeResponse maps a raw overall-response string onto its canonical code. Unrecognized strings pass through
// unchanged, including the empty string for a missing assessment: the pipeline never rejects a response value, the
// visit simply activates no response indicator downstream.
func NormalizeResponse(raw string) string {
	if code, ok := responseCodeMap[raw]; ok {
		return code
	}
	return raw
}

// FillInResponseMarkers sets the per-code indicator booleans on a record, and for the active code a visit marker
// holding the record's own visit index. At most one indicator is true; for an unrecognized or missing response all
// five stay false and all five markers stay undefined.
func FillInResponseMarkers(r *VisitRecord) {
	switch r.OverallResponse {
	case CompleteResponse:
		r.IsCR = true
		r.CRVisit = Int(r.Visit)
	case PartialResponse:
		r.IsPR = true
		r.PRVisit = Int(r.Visit)
	case StableDisease:
		r.IsSD = true
		r.SDVisit = Int(r.Visit)
	case NonCRNonPD:
		r.IsNonCRNonPD = true
		r.NonCRNonPDVisit = Int(r.Visit)
	case ProgressiveDisease:
		r.IsPD = true
		r.PDVisit = Int(r.Visit)
	}
}

// ObjectiveResponders counts the patients with at least one complete or partial response visit in the canonical
// table, together with the total number of distinct patients in the table. The pair feeds the exact binomial test for
// the trial's primary endpoint.
func ObjectiveResponders(records []*VisitRecord) (int, int) {
	responded := map[string]bool{}
	patients := map[string]bool{}
	for _, r := range records {
		patients[r.Patient] = true
		if r.IsCR || r.IsPR {
			responded[r.Patient] = true
		}
	}
	return len(responded), len(patients)
}
