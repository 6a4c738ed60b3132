package system

import (
	"sort"

	"scriptbridge/internal/component"
	"scriptbridge/internal/ecs"
)

// ContactPhase says whether a pair started or stopped touching.
type ContactPhase uint8

const (
	ContactBegin ContactPhase = iota
	ContactEnd
)

// Contact is one change in overlap between two colliders. A is always the
// lower id. Trigger is set when either collider is a trigger.
type Contact struct {
	A, B    ecs.EntityID
	Trigger bool
	Phase   ContactPhase
}

type pair struct{ a, b ecs.EntityID }

// ContactTracker remembers which sphere colliders overlapped on the previous
// step so it can report begin and end transitions.
type ContactTracker struct {
	touching map[pair]bool // value: trigger
}

// NewContactTracker returns a tracker with no known contacts.
func NewContactTracker() *ContactTracker {
	return &ContactTracker{touching: make(map[pair]bool)}
}

// Step compares current overlaps against the previous step. Pairs that lost
// an entity end as well. Contacts are ordered by phase (ends first), then by
// (A, B).
func (ct *ContactTracker) Step(w *ecs.World) []Contact {
	ids := w.Query(component.CSphereCollider, component.CTransform)
	current := make(map[pair]bool)
	for i := 0; i < len(ids); i++ {
		ta := w.Get(ids[i], component.CTransform).(component.Transform)
		ca := w.Get(ids[i], component.CSphereCollider).(component.SphereCollider)
		centreA := ta.Position.Add(ca.Offset)
		radiusA := ca.Radius * ta.MaxScale()
		for j := i + 1; j < len(ids); j++ {
			tb := w.Get(ids[j], component.CTransform).(component.Transform)
			cb := w.Get(ids[j], component.CSphereCollider).(component.SphereCollider)
			reach := radiusA + cb.Radius*tb.MaxScale()
			if centreA.Sub(tb.Position.Add(cb.Offset)).LenSqr() <= reach*reach {
				current[pair{ids[i], ids[j]}] = ca.Trigger || cb.Trigger
			}
		}
	}

	var ends, begins []Contact
	for p, trig := range ct.touching {
		if _, still := current[p]; !still {
			ends = append(ends, Contact{A: p.a, B: p.b, Trigger: trig, Phase: ContactEnd})
		}
	}
	for p, trig := range current {
		if _, was := ct.touching[p]; !was {
			begins = append(begins, Contact{A: p.a, B: p.b, Trigger: trig, Phase: ContactBegin})
		}
	}
	ct.touching = current
	sortContacts(ends)
	sortContacts(begins)
	return append(ends, begins...)
}

// Touching returns the number of overlapping pairs after the last step.
func (ct *ContactTracker) Touching() int { return len(ct.touching) }

func sortContacts(cs []Contact) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].A != cs[j].A {
			return cs[i].A < cs[j].A
		}
		return cs[i].B < cs[j].B
	})
}
