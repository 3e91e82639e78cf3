// Package roster loads team member rosters from YAML and seeds them into a store.
package roster

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"lnr/internal/models"
	"lnr/internal/store"
)

//go:embed default_roster.yaml
var defaultRoster []byte

// Member is one roster entry.
type Member struct {
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	AvatarURL string `yaml:"avatar_url,omitempty"`
}

// Roster is the YAML document shape.
type Roster struct {
	Members []Member `yaml:"members"`
}

// Default returns the embedded roster.
func Default() (*Roster, error) {
	return Parse(defaultRoster)
}

// Load reads a roster file. An empty path returns the embedded default.
func Load(path string) (*Roster, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a roster document. Unknown keys are rejected.
func Parse(data []byte) (*Roster, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var r Roster
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that every member has a name and a unique email.
func (r *Roster) Validate() error {
	seen := map[string]int{}
	for i, m := range r.Members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("member %d: name is required", i+1)
		}
		email := strings.ToLower(strings.TrimSpace(m.Email))
		if email == "" {
			return fmt.Errorf("member %d (%s): email is required", i+1, m.Name)
		}
		if prev, ok := seen[email]; ok {
			return fmt.Errorf("member %d (%s): duplicate email %s (also member %d)", i+1, m.Name, email, prev)
		}
		seen[email] = i + 1
	}
	return nil
}

// Names returns member names in roster order.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		names = append(names, m.Name)
	}
	return names
}

// Seed upserts every roster member by email and returns the stored rows.
// Members are created in roster order one millisecond apart so that name
// matching, which prefers the earliest member, follows the file order.
func Seed(ctx context.Context, st store.TaskStore, r *Roster) ([]models.TeamMember, error) {
	base := time.Now().UTC()
	out := make([]models.TeamMember, 0, len(r.Members))
	for i, m := range r.Members {
		member := models.TeamMember{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(m.Name),
			Email:     strings.ToLower(strings.TrimSpace(m.Email)),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if avatar := strings.TrimSpace(m.AvatarURL); avatar != "" {
			member.AvatarURL = &avatar
		}
		if err := st.UpsertMember(ctx, &member); err != nil {
			return nil, fmt.Errorf("upsert %s: %w", member.Email, err)
		}
		out = append(out, member)
	}
	return out, nil
}
