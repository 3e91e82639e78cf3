package store

import (
	"context"
	"fmt"
)

// StoreInfo returns schema version and row counts.
func (s *Store) StoreInfo(ctx context.Context) (*StoreInfo, error) {
	info := &StoreInfo{TaskCounts: map[string]int{}}

	version, err := currentVersion(s.db)
	if err != nil {
		return nil, fmt.Errorf("schema version: %w", err)
	}
	info.SchemaVersion = version

	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		info.TaskCounts[status] = count
		info.TotalTasks += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM team_members").Scan(&info.MemberCount); err != nil {
		return nil, err
	}
	return info, nil
}
