// Copyright (c) 2026 The Pollcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import "github.com/scantegrity/pollcore/internal/ballots"

// PrintAuditReport summarizes whether every requested audited serial
// was actually revealed across the published planes, and flags any
// extra serial that was revealed but not requested.
type PrintAuditReport struct {
	Requested []ballots.Serial
	Missing   []ballots.Serial
	Unexpected []ballots.Serial
}

// ReconcilePrintAudit compares the serials an operator requested to
// audit against the serials a plane's key files actually revealed.
func ReconcilePrintAudit(requested, revealed []ballots.Serial) PrintAuditReport {
	requestedSet := make(map[ballots.Serial]struct{}, len(requested))
	for _, s := range requested {
		requestedSet[s] = struct{}{}
	}
	revealedSet := make(map[ballots.Serial]struct{}, len(revealed))
	for _, s := range revealed {
		revealedSet[s] = struct{}{}
	}

	report := PrintAuditReport{Requested: requested}
	for _, s := range requested {
		if _, ok := revealedSet[s]; !ok {
			report.Missing = append(report.Missing, s)
		}
	}
	for _, s := range revealed {
		if _, ok := requestedSet[s]; !ok {
			report.Unexpected = append(report.Unexpected, s)
		}
	}
	return report
}

// OK reports whether the revealed set exactly matched the requested
// set.
func (r PrintAuditReport) OK() bool {
	return len(r.Missing) == 0 && len(r.Unexpected) == 0
}
