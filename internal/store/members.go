package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lnr/internal/models"
)

const memberColumns = "id, name, email, avatar_url, created_at"

// ListMembers returns all team members ordered by name.
func (s *Store) ListMembers(ctx context.Context) ([]models.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM team_members ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// GetMembersByIDs returns members keyed by id. Unknown ids are omitted.
func (s *Store) GetMembersByIDs(ctx context.Context, ids []string) (map[string]models.TeamMember, error) {
	result := map[string]models.TeamMember{}
	ids = uniqueNonEmpty(ids)
	if len(ids) == 0 {
		return result, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf("SELECT %s FROM team_members WHERE id IN (%s)", memberColumns, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members, err := scanMembers(rows)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		result[member.ID] = member
	}
	return result, nil
}

// FindMembersByName returns members whose name contains name, case-insensitively,
// in insertion order.
func (s *Store) FindMembersByName(ctx context.Context, name string, limit int) ([]models.TeamMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []models.TeamMember{}, nil
	}

	query := "SELECT " + memberColumns + ` FROM team_members
		WHERE lnr_fold(name) LIKE lnr_fold(?) ESCAPE '\'
		ORDER BY created_at ASC, rowid ASC`
	args := []any{LikePattern(name)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

// UpsertMember inserts member or updates the existing row with the same email.
// On update the stored id is written back into member.
func (s *Store) UpsertMember(ctx context.Context, member *models.TeamMember) error {
	if member == nil {
		return fmt.Errorf("member is required")
	}
	if strings.TrimSpace(member.Email) == "" {
		return fmt.Errorf("member email is required")
	}

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO team_members (id, name, email, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
		  name = excluded.name,
		  avatar_url = excluded.avatar_url
		RETURNING id
	`,
		member.ID,
		member.Name,
		member.Email,
		nullIfEmptyPtr(member.AvatarURL),
		formatTime(member.CreatedAt),
	).Scan(&id)
	if err != nil {
		return err
	}
	member.ID = id
	return nil
}

func scanMembers(rows *sql.Rows) ([]models.TeamMember, error) {
	members := []models.TeamMember{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, rows.Err()
}

func scanMember(scanner rowScanner) (*models.TeamMember, error) {
	var member models.TeamMember
	var avatarURL sql.NullString
	var createdAt string
	if err := scanner.Scan(&member.ID, &member.Name, &member.Email, &avatarURL, &createdAt); err != nil {
		return nil, err
	}
	member.AvatarURL = stringPtr(avatarURL)

	var err error
	if member.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &member, nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
