package naotimes

import (
	"encoding/json"
	"testing"
)

func TestProgress_GetWithAndAllDone(t *testing.T) {
	var p Progress
	if p.AllDone() {
		t.Fatalf("zero progress reported all done")
	}
	for _, role := range Roles() {
		p = p.With(role, true)
		if !p.Get(role) {
			t.Fatalf("With(%s, true) did not set the flag", role)
		}
	}
	if !p.AllDone() {
		t.Fatalf("AllDone = false after every role set")
	}
	if len(p.Pending()) != 0 {
		t.Fatalf("Pending = %v, want none", p.Pending())
	}

	p = p.With(RoleQC, false)
	if p.AllDone() {
		t.Fatalf("AllDone = true after QC reverted")
	}
	if pending := p.Pending(); len(pending) != 1 || pending[0] != RoleQC {
		t.Fatalf("Pending = %v, want [QC]", pending)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" tlc "); !ok || r != RoleTLC {
		t.Fatalf("ParseRole(tlc) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("boss"); ok {
		t.Fatalf("ParseRole(boss) accepted unknown role")
	}
	if Role("XX").Valid() {
		t.Fatalf("XX reported valid")
	}
	if len(Roles()) != 7 {
		t.Fatalf("Roles() = %d entries, want 7", len(Roles()))
	}
}

func TestProjectDetail_CloneIsDeep(t *testing.T) {
	orig := &ProjectDetail{
		ID:          "1",
		Assignments: map[Role]*StaffMember{RoleTL: {ID: "u1", Name: "Nao"}},
		Episodes:    []EpisodeStatus{{Number: 1}},
	}
	dup := orig.Clone()
	dup.Assignments[RoleTL].Name = "Changed"
	dup.Episodes[0].Released = true

	if orig.Assignments[RoleTL].Name != "Nao" {
		t.Fatalf("Clone shared assignment pointer")
	}
	if orig.Episodes[0].Released {
		t.Fatalf("Clone shared episode slice")
	}
	if (*ProjectDetail)(nil).Clone() != nil {
		t.Fatalf("nil Clone should be nil")
	}
}

func TestProjectDetail_DecodesAssignments(t *testing.T) {
	raw := `{"id":"5","title":"T","assignments":{"TL":{"id":"u","name":"N"},"QC":null},
		"episodes":[{"episode":2,"air_time":1700000000,"is_released":true,"progress":{"TL":true}}]}`
	var detail ProjectDetail
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if detail.Assignee(RoleTL) == nil || detail.Assignee(RoleQC) != nil {
		t.Fatalf("assignments = %#v", detail.Assignments)
	}
	ep := detail.Episodes[0]
	if ep.Number != 2 || !ep.Released || !ep.Progress.TL || ep.AiredAt().Unix() != 1700000000 {
		t.Fatalf("episode = %#v", ep)
	}
}
