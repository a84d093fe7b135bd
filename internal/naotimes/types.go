package naotimes

import (
	"strings"
	"time"
)

// Role is one of the seven fixed pipeline stages of a release.
type Role string

const (
	RoleTL  Role = "TL"  // translate
	RoleTLC Role = "TLC" // translate check
	RoleENC Role = "ENC" // encode
	RoleED  Role = "ED"  // edit
	RoleTM  Role = "TM"  // time
	RoleTS  Role = "TS"  // typeset
	RoleQC  Role = "QC"  // quality check
)

var allRoles = [...]Role{RoleTL, RoleTLC, RoleENC, RoleED, RoleTM, RoleTS, RoleQC}

// Roles returns every role in display order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles[:])
	return out
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns the long display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleTL:
		return "Translator"
	case RoleTLC:
		return "Translation Checker"
	case RoleENC:
		return "Encoder"
	case RoleED:
		return "Editor"
	case RoleTM:
		return "Timer"
	case RoleTS:
		return "Typesetter"
	case RoleQC:
		return "Quality Checker"
	default:
		return string(r)
	}
}

// ParseRole resolves a role from its short code, case-insensitively.
func ParseRole(value string) (Role, bool) {
	value = strings.TrimSpace(value)
	for _, known := range allRoles {
		if strings.EqualFold(string(known), value) {
			return known, true
		}
	}
	return "", false
}

// Progress is the per-episode completion record, one flag per role.
type Progress struct {
	TL  bool `json:"TL"`
	TLC bool `json:"TLC"`
	ENC bool `json:"ENC"`
	ED  bool `json:"ED"`
	TM  bool `json:"TM"`
	TS  bool `json:"TS"`
	QC  bool `json:"QC"`
}

// Get returns the completion flag for role.
func (p Progress) Get(role Role) bool {
	switch role {
	case RoleTL:
		return p.TL
	case RoleTLC:
		return p.TLC
	case RoleENC:
		return p.ENC
	case RoleED:
		return p.ED
	case RoleTM:
		return p.TM
	case RoleTS:
		return p.TS
	case RoleQC:
		return p.QC
	default:
		return false
	}
}

// With returns a copy of p with role set to done.
func (p Progress) With(role Role, done bool) Progress {
	switch role {
	case RoleTL:
		p.TL = done
	case RoleTLC:
		p.TLC = done
	case RoleENC:
		p.ENC = done
	case RoleED:
		p.ED = done
	case RoleTM:
		p.TM = done
	case RoleTS:
		p.TS = done
	case RoleQC:
		p.QC = done
	}
	return p
}

// AllDone reports whether every role has finished.
func (p Progress) AllDone() bool {
	for _, role := range allRoles {
		if !p.Get(role) {
			return false
		}
	}
	return true
}

// Pending returns the roles that are not done yet, in display order.
func (p Progress) Pending() []Role {
	var out []Role
	for _, role := range allRoles {
		if !p.Get(role) {
			out = append(out, role)
		}
	}
	return out
}

// StaffMember is the user assigned to a role.
type StaffMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EpisodeStatus is a single episode of a project.
type EpisodeStatus struct {
	Number   int      `json:"episode"`
	AirTime  int64    `json:"air_time"`
	Released bool     `json:"is_released"`
	Progress Progress `json:"progress"`
}

// AiredAt returns the air timestamp, zero when unknown.
func (e EpisodeStatus) AiredAt() time.Time {
	if e.AirTime <= 0 {
		return time.Time{}
	}
	return time.Unix(e.AirTime, 0)
}

// ProjectDetail mirrors GET /projects/{id}.
type ProjectDetail struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Poster      string                `json:"poster_url"`
	Assignments map[Role]*StaffMember `json:"assignments"`
	Episodes    []EpisodeStatus       `json:"episodes"`
}

// Assignee returns the staff member assigned to role, nil when unassigned.
func (p *ProjectDetail) Assignee(role Role) *StaffMember {
	if p == nil || p.Assignments == nil {
		return nil
	}
	return p.Assignments[role]
}

// Clone returns a deep copy so callers can mutate without touching cached data.
func (p *ProjectDetail) Clone() *ProjectDetail {
	if p == nil {
		return nil
	}
	dup := *p
	if p.Assignments != nil {
		dup.Assignments = make(map[Role]*StaffMember, len(p.Assignments))
		for role, member := range p.Assignments {
			if member == nil {
				dup.Assignments[role] = nil
				continue
			}
			m := *member
			dup.Assignments[role] = &m
		}
	}
	if p.Episodes != nil {
		dup.Episodes = make([]EpisodeStatus, len(p.Episodes))
		copy(dup.Episodes, p.Episodes)
	}
	return &dup
}

// ProjectSummary is the dashboard view of a project.
type ProjectSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Poster        string `json:"poster_url"`
	NextEpisode   int    `json:"next_episode"`
	TotalEpisodes int    `json:"total_episodes"`
	Released      int    `json:"released_episodes"`
	UpdatedAt     int64  `json:"updated_at"`
}

// Identity describes the authenticated server member.
type Identity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Privilege string `json:"privilege"`
}

// RoleUpdate is one entry of an episode progress mutation.
type RoleUpdate struct {
	Role   Role `json:"role"`
	IsDone bool `json:"is_done"`
}

// ProgressResult is the payload of a successful progress mutation.
type ProgressResult struct {
	Progress Progress `json:"progress"`
}

// MutationResult is the plain success/code outcome used by release and
// removal calls.
type MutationResult struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

// StaffResult is the outcome of a staff assignment mutation.
type StaffResult struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code,omitempty"`
	ID      string    `json:"id,omitempty"`
	Name    string    `json:"name,omitempty"`
}

// AddEpisodesResult is the outcome of adding episodes to a project.
type AddEpisodesResult struct {
	Success  bool            `json:"success"`
	Code     ErrorCode       `json:"code,omitempty"`
	Episodes []EpisodeStatus `json:"episodes,omitempty"`
}
