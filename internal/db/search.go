// Copyright (c) 2026 Warden Team
// Warden - SSH operator management for AWS SSM
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"strings"

	"github.com/toeirei/warden/internal/model"
	"github.com/uptrace/bun"
)

// TokenizeSearchQuery breaks a free-text query into lowercase tokens,
// one per whitespace-separated word. A blank query yields nil.
func TokenizeSearchQuery(q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	parts := strings.Fields(q)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SearchAuditLogEntriesBun returns audit entries matching every token of the
// query in at least one of username, action, or details.
func SearchAuditLogEntriesBun(bdb *bun.DB, q string) ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	tokens := TokenizeSearchQuery(q)
	var am []AuditLogModel
	qb := bdb.NewSelect().Model(&am)
	if len(tokens) > 0 {
		// Build WHERE clause with AND of ORs: for each token, require it
		// matches one of the columns.
		for _, tok := range tokens {
			like := "%" + tok + "%"
			// Use LOWER(...) for case-insensitive matching across engines
			qb = qb.Where("(LOWER(username) LIKE ? OR LOWER(action) LIKE ? OR LOWER(details) LIKE ?)", like, like, like)
		}
	}
	if err := qb.OrderExpr("timestamp DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditLogModelToModel(a))
	}
	return out, nil
}
